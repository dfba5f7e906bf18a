package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// FormatEntityList renders entities as a table in store order.
func FormatEntityList(entities []*domain.Entity) string {
	if len(entities) == 0 {
		return Dim("No entities.") + "\n"
	}
	rows := make([][]string, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, []string{
			TruncID(e.ID),
			Truncate(e.Title, 36),
			StatusPill(e.Status),
			OwnerLabel(e.Owner.Name, e.Owner.ID),
			valueOrDash(e.Client),
			DateOrDash(e.StartDate) + " → " + DateOrDash(e.EndDate),
			fmt.Sprintf("%3.0f%%", e.EffectiveProgress()),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATUS", "OWNER", "CLIENT", "DATES", "DONE"}, rows)
}

// FormatEntity renders one stored entity for `entity show`.
func FormatEntity(e *domain.Entity) string {
	var b strings.Builder
	b.WriteString(Header(e.Title))
	b.WriteString("\n")
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(PadRight(label, 10)), value)
	}
	row("ID", e.ID)
	row("Status", StatusPill(e.Status))
	row("Owner", OwnerLabel(e.Owner.Name, e.Owner.ID))
	row("Client", valueOrDash(e.Client))
	row("Start", DateOrDash(e.StartDate))
	row("End", DateOrDash(e.EndDate))
	row("Progress", RenderProgress(e.EffectiveProgress(), 20))
	row("Tags", valueOrDash(strings.Join(e.Tags, ", ")))
	if len(e.SubItems) > 0 {
		done, total := e.SubItemCounts()
		fmt.Fprintf(&b, "%s %d/%d\n", Dim(PadRight("Sub-items", 10)), done, total)
		items := make([]TreeItem, len(e.SubItems))
		for i, s := range e.SubItems {
			items[i] = TreeItem{
				Title:  s.Name,
				Level:  1,
				IsLast: i == len(e.SubItems)-1,
				Done:   s.Completed,
				Detail: s.Kind,
			}
		}
		b.WriteString(RenderTree(items))
	}
	return b.String()
}
