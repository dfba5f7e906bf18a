package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "abc…", Truncate("abcdef", 4))
	assert.Equal(t, "abc", Truncate("abc", 4))
	assert.Empty(t, Truncate("abc", 0))

	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, "abc…", PadRight("abcdef", 4))

	styled := StyleGreen.Render("abcdef")
	assert.Equal(t, 4, ansi.StringWidth(PadRight(styled, 4)))
}

func TestDateOrDash(t *testing.T) {
	d := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-09", DateOrDash(&d))
	assert.Equal(t, "—", DateOrDash(nil))
}

func TestOwnerLabel(t *testing.T) {
	assert.Equal(t, "Dana", OwnerLabel("Dana", "u1"))
	assert.Equal(t, "u1", OwnerLabel("", "u1"))
	assert.Equal(t, "—", OwnerLabel("", ""))
}

func TestStatusPill_UnknownStatusShownRaw(t *testing.T) {
	assert.Contains(t, ansi.Strip(StatusPill(domain.StatusInProgress)), "In Progress")
	assert.Contains(t, ansi.Strip(StatusPill(domain.Status("blocked"))), "blocked")
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := ansi.Strip(RenderTable(
		[]string{"ID", "NAME"},
		[][]string{{StyleGreen.Render("a1"), "Alpha"}, {"b22", "Beta"}},
	))
	assert.Contains(t, out, "ID   NAME")
	assert.Contains(t, out, "a1   Alpha")
	assert.Contains(t, out, "b22  Beta")
}

func TestRenderTree(t *testing.T) {
	out := ansi.Strip(RenderTree([]TreeItem{
		{Title: "design", Level: 1, Done: true, Detail: "task"},
		{Title: "build", Level: 1, IsLast: true},
	}))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "├─ ✔ design  [ task ]", lines[0])
	assert.Equal(t, "└─ ○ build", lines[1])

	assert.Empty(t, RenderTree(nil))
}
