package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/opsboard/internal/contract"
	"github.com/charmbracelet/lipgloss"
)

const (
	minLaneWidth = 16
	laneGap      = 1
)

// BoardOptions controls lane rendering. CursorID marks the card under the
// keyboard cursor.
type BoardOptions struct {
	Width    int
	CursorID string
}

// FormatBoard renders the lanes side by side, one column per status.
func FormatBoard(b contract.BoardView, opts BoardOptions) string {
	if len(b.Lanes) == 0 {
		return Dim("No lanes.")
	}
	width := opts.Width
	if width <= 0 {
		width = 120
	}
	laneWidth := max((width-laneGap*(len(b.Lanes)-1))/len(b.Lanes), minLaneWidth)

	cols := make([]string, 0, len(b.Lanes))
	for _, lane := range b.Lanes {
		cols = append(cols, formatLaneColumn(lane, laneWidth, opts.CursorID))
	}

	var parts []string
	for i, c := range cols {
		if i > 0 {
			parts = append(parts, strings.Repeat(" ", laneGap))
		}
		parts = append(parts, c)
	}
	out := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return boardSummary(b) + "\n\n" + out
}

func formatLaneColumn(lane contract.LaneView, width int, cursorID string) string {
	var lines []string
	title := fmt.Sprintf("%s (%d)", lane.Title, len(lane.Cards))
	lines = append(lines, StyleHeader.Render(PadRight(strings.ToUpper(title), width)))
	lines = append(lines, StyleDim.Render(strings.Repeat("─", width)))
	if len(lane.Cards) == 0 {
		lines = append(lines, PadRight(Dim("empty"), width))
	}
	for _, c := range lane.Cards {
		lines = append(lines, cardLines(c, width, c.ID == cursorID)...)
	}
	return strings.Join(lines, "\n")
}

// cardLines renders a card as a title line and a meta line.
func cardLines(c contract.Card, width int, cursor bool) []string {
	marker := "  "
	if cursor {
		marker = StyleGreen.Render("▸ ")
	}
	title := CardTitle(c, width-4)
	meta := Dim(Truncate(cardMeta(c), width-4))
	return []string{
		PadRight(marker+Swatch(c.Color)+" "+title, width),
		PadRight("    "+meta, width),
	}
}

// CardTitle styles a card title by its flags and truncates it to width.
func CardTitle(c contract.Card, width int) string {
	title := c.Title
	switch {
	case c.ReadOnly:
		title += " (deleted)"
	case c.Pending:
		title += " ⟳"
	}
	title = Truncate(title, width)

	switch {
	case c.ReadOnly:
		return StyleDim.Render(title)
	case c.Selected:
		return StyleBold.Render(title)
	case c.Hovered:
		return StyleHover.Render(title)
	default:
		return StyleFg.Render(title)
	}
}

func cardMeta(c contract.Card) string {
	var parts []string
	if c.OwnerName != "" {
		parts = append(parts, c.OwnerName)
	}
	if c.Client != "" {
		parts = append(parts, c.Client)
	}
	parts = append(parts, fmt.Sprintf("%.0f%%", c.Progress))
	return strings.Join(parts, " · ")
}

func boardSummary(b contract.BoardView) string {
	s := fmt.Sprintf("%d entities", b.Total)
	if b.Scope != "" {
		s += " · scope " + StylePurple.Render(b.Scope)
	}
	if b.Filter != "" {
		s += " · filter " + StyleYellow.Render(fmt.Sprintf("%q", b.Filter))
	}
	return Dim(s)
}

// FormatBoardList renders the lanes one after another, for plain output.
func FormatBoardList(b contract.BoardView) string {
	var sb strings.Builder
	sb.WriteString(boardSummary(b))
	sb.WriteString("\n")
	for _, lane := range b.Lanes {
		sb.WriteString("\n")
		sb.WriteString(Header(fmt.Sprintf("%s (%d)", lane.Title, len(lane.Cards))))
		sb.WriteString("\n")
		if len(lane.Cards) == 0 {
			sb.WriteString("  " + Dim("empty") + "\n")
			continue
		}
		for _, c := range lane.Cards {
			fmt.Fprintf(&sb, "  %s %s  %s  %s\n",
				Swatch(c.Color),
				TruncID(c.ID),
				CardTitle(c, 48),
				Dim(cardMeta(c)),
			)
		}
	}
	return sb.String()
}
