package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/opsboard/internal/contract"
)

// FormatDetail renders the detail panel of one entity. now drives the
// relative "updated" hint.
func FormatDetail(d contract.DetailView, now time.Time) string {
	var b strings.Builder

	if d.ReadOnly {
		b.WriteString(StyleRed.Render("This entity was deleted remotely. Read-only until closed."))
		b.WriteString("\n\n")
	}

	b.WriteString(Swatch(d.Color) + " " + StyleBold.Render(d.Title) + "  " + TruncID(d.ID) + "\n")
	b.WriteString(StyleDim.Render(strings.Repeat("─", max(len([]rune(d.Title))+11, 24))) + "\n")

	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(PadRight(label, 10)), value)
	}
	row("Status", StatusPill(d.Status))
	row("Owner", OwnerLabel(d.OwnerName, ""))
	row("Client", valueOrDash(d.Client))
	row("Start", DateOrDash(d.StartDate))
	row("End", DateOrDash(d.EndDate))
	row("Progress", RenderProgress(d.Progress, 20))
	row("Tags", valueOrDash(strings.Join(d.Tags, ", ")))
	if !d.UpdatedAt.IsZero() {
		row("Updated", RelativeDateFrom(d.UpdatedAt, now))
	}
	if d.MutationState == "pending" {
		row("Saving", StyleYellow.Render(fmt.Sprintf("⟳ %s", d.PendingField)))
	}

	if len(d.SubItems) > 0 {
		done := 0
		for _, s := range d.SubItems {
			if s.Completed {
				done++
			}
		}
		b.WriteString("\n")
		b.WriteString(Header(fmt.Sprintf("Sub-items %d/%d", done, len(d.SubItems))))
		b.WriteString("\n")
		for _, s := range d.SubItems {
			check := StyleDim.Render("○")
			if s.Completed {
				check = StyleGreen.Render("✔")
			}
			line := fmt.Sprintf("  %s %s", check, s.Name)
			if s.Kind != "" {
				line += " " + Dim("["+s.Kind+"]")
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func valueOrDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
