package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)

	// StyleHover marks the hovered entity in every rendering.
	StyleHover = lipgloss.NewStyle().Foreground(ColorFg).Underline(true)
)

// StatusPill returns a colored status indicator. Statuses outside the lane
// set are shown raw and dimmed.
func StatusPill(status domain.Status) string {
	switch status {
	case domain.StatusUnscheduled:
		return StyleDim.Render("○ " + status.Label())
	case domain.StatusOnboarding:
		return StyleBlue.Render("◔ " + status.Label())
	case domain.StatusInProgress:
		return StyleGreen.Render("● " + status.Label())
	case domain.StatusReview:
		return StyleYellow.Render("◑ " + status.Label())
	case domain.StatusCompleted:
		return StyleDim.Render("✔ " + status.Label())
	default:
		return StyleDim.Render("? " + string(status))
	}
}

// Swatch renders a colored block for an entity color.
func Swatch(color string) string {
	if color == "" {
		return StyleDim.Render("■")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
