package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/opsboard/internal/contract"
	"github.com/alexanderramin/opsboard/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxTimelineLabel = 28
	minTrackWidth    = 20
)

// TimelineOptions controls Gantt rendering. CursorID marks the row under the
// keyboard cursor.
type TimelineOptions struct {
	Width    int
	CursorID string
}

// FormatTimeline renders the window as a text Gantt chart: an axis with the
// column labels, one row per bar and the unscheduled entities below.
func FormatTimeline(tv contract.TimelineView, opts TimelineOptions) string {
	width := opts.Width
	if width <= 0 {
		width = 120
	}
	labelWidth := timelineLabelWidth(tv, width)
	track := max(width-labelWidth-3, minTrackWidth)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", StyleHeader.Render(tv.Title), Dim(fmt.Sprintf("%s · %s – %s",
		tv.Mode, tv.Start.Format("Jan 2"), tv.End.AddDate(0, 0, -1).Format("Jan 2"))))

	b.WriteString(strings.Repeat(" ", labelWidth+3))
	b.WriteString(axisLabels(tv, track))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", labelWidth+3))
	b.WriteString(axisTicks(tv, track))
	b.WriteString("\n")

	if len(tv.Bars) == 0 {
		b.WriteString(strings.Repeat(" ", labelWidth+3) + Dim("Nothing scheduled in this window.") + "\n")
	}
	for _, bar := range tv.Bars {
		marker := "  "
		if bar.ID == opts.CursorID {
			marker = StyleGreen.Render("▸ ")
		}
		b.WriteString(marker)
		b.WriteString(PadRight(CardTitle(bar.Card, labelWidth), labelWidth))
		b.WriteString(" ")
		b.WriteString(barTrack(tv, bar, track))
		b.WriteString("\n")
	}

	if len(tv.Unscheduled) > 0 {
		b.WriteString("\n")
		b.WriteString(Dim(fmt.Sprintf("Unscheduled (%d)", len(tv.Unscheduled))))
		b.WriteString("\n")
		for _, c := range tv.Unscheduled {
			marker := "  "
			if c.ID == opts.CursorID {
				marker = StyleGreen.Render("▸ ")
			}
			b.WriteString(marker + Swatch(c.Color) + " " + CardTitle(c, width-6) + "\n")
		}
	}
	return b.String()
}

func timelineLabelWidth(tv contract.TimelineView, width int) int {
	w := 8
	for _, bar := range tv.Bars {
		w = max(w, lipgloss.Width(bar.Title)+2)
	}
	return min(w, maxTimelineLabel, max(width/4, 8))
}

// cell converts a percentage of the window into a track column.
func cell(pct float64, track int) int {
	return int(math.Round(pct / 100 * float64(track)))
}

func axisLabels(tv contract.TimelineView, track int) string {
	line := []rune(strings.Repeat(" ", track))
	next := 0
	for _, col := range tv.Columns {
		at := cell(col.Left, track)
		label := []rune(col.Label)
		if at < next || at+len(label) > track {
			continue
		}
		copy(line[at:], label)
		next = at + len(label) + 1
	}
	return Dim(string(line))
}

func axisTicks(tv contract.TimelineView, track int) string {
	line := []rune(strings.Repeat("─", track))
	for _, col := range tv.Columns {
		if at := cell(col.Left, track); at < track {
			line[at] = '┬'
		}
	}
	out := StyleDim.Render(string(line))
	if tv.TodayVisible {
		at := min(cell(tv.Today, track), track-1)
		out = StyleDim.Render(string(line[:at])) + StyleRed.Render("▼") + StyleDim.Render(string(line[at+1:]))
	}
	return out
}

// barTrack draws one row: the bar in its entity color, clip arrows at cut
// edges, and the today marker where the row is empty.
func barTrack(tv contract.TimelineView, bar contract.BarView, track int) string {
	from, count := timeline.Bar{Left: bar.Left, Width: bar.Width}.Cells(track)
	to := from + count

	today := -1
	if tv.TodayVisible {
		today = min(cell(tv.Today, track), track-1)
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(bar.Color))
	if bar.Hovered || bar.Selected {
		style = style.Bold(true).Background(ColorDim)
	}

	var b strings.Builder
	for i := 0; i < track; i++ {
		switch {
		case i >= from && i < to:
			ch := "█"
			if i == from && bar.ClippedStart {
				ch = "◂"
			} else if i == to-1 && bar.ClippedEnd {
				ch = "▸"
			}
			b.WriteString(style.Render(ch))
		case i == today:
			b.WriteString(StyleRed.Render("│"))
		default:
			b.WriteString(" ")
		}
	}
	return b.String()
}
