package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/opsboard/internal/contract"
	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func sampleBoard() contract.BoardView {
	return contract.BoardView{
		Total: 3,
		Scope: "Acme",
		Lanes: []contract.LaneView{
			{Status: domain.StatusUnscheduled, Title: "Unscheduled"},
			{Status: domain.StatusInProgress, Title: "In Progress", Cards: []contract.Card{
				{ID: "aaaaaaaa-1", Title: "Website relaunch", OwnerName: "Dana", Client: "Acme", Color: "#458588", Progress: 40},
				{ID: "bbbbbbbb-2", Title: "Data migration", Color: "#b16286", Pending: true},
			}},
			{Status: domain.StatusReview, Title: "Review", Cards: []contract.Card{
				{ID: "cccccccc-3", Title: "Old contract", ReadOnly: true},
			}},
		},
	}
}

func TestFormatBoard_Columns(t *testing.T) {
	out := ansi.Strip(FormatBoard(sampleBoard(), BoardOptions{Width: 90, CursorID: "aaaaaaaa-1"}))

	assert.Contains(t, out, "3 entities · scope Acme")
	assert.Contains(t, out, "IN PROGRESS (2)")
	assert.Contains(t, out, "UNSCHEDULED (0)")
	assert.Contains(t, out, "▸ ■ Website relaunch")
	assert.Contains(t, out, "Dana · Acme · 40%")
	assert.Contains(t, out, "Data migration ⟳")
	assert.Contains(t, out, "Old contract (deleted)")
	assert.Contains(t, out, "empty")
}

func TestFormatBoard_NarrowWidthKeepsMinimumLaneWidth(t *testing.T) {
	out := ansi.Strip(FormatBoard(sampleBoard(), BoardOptions{Width: 20}))
	for _, line := range strings.Split(out, "\n")[2:] {
		assert.GreaterOrEqual(t, ansi.StringWidth(line), minLaneWidth)
	}
}

func TestFormatBoardList(t *testing.T) {
	out := ansi.Strip(FormatBoardList(sampleBoard()))

	assert.Contains(t, out, "IN PROGRESS (2)")
	assert.Contains(t, out, "aaaaaaaa")
	assert.Contains(t, out, "Website relaunch")
	assert.NotContains(t, out, "aaaaaaaa-1", "ids are shortened")
	assert.Less(t, strings.Index(out, "UNSCHEDULED"), strings.Index(out, "IN PROGRESS"), "lanes keep board order")
}

func TestFormatDetail(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	d := contract.DetailView{
		Card: contract.Card{
			ID: "aaaaaaaa-1", Title: "Website relaunch", Status: domain.StatusReview,
			OwnerName: "Dana", Progress: 50, Tags: []string{"q1", "web"}, ReadOnly: true,
		},
		StartDate: &start,
		SubItems: []contract.SubItemView{
			{Name: "Design", Completed: true, Kind: "task"},
			{Name: "Build"},
		},
		UpdatedAt:     start,
		MutationState: "pending",
		PendingField:  domain.FieldTitle,
	}
	out := ansi.Strip(FormatDetail(d, start.AddDate(0, 0, 3)))

	assert.Contains(t, out, "deleted remotely")
	assert.Contains(t, out, "Website relaunch")
	assert.Contains(t, out, "2026-03-02")
	assert.Contains(t, out, "End        —")
	assert.Contains(t, out, "q1, web")
	assert.Contains(t, out, "3d ago")
	assert.Contains(t, out, "⟳ title")
	assert.Contains(t, out, "SUB-ITEMS 1/2")
	assert.Contains(t, out, "✔ Design [task]")
	assert.Contains(t, out, "○ Build")
}
