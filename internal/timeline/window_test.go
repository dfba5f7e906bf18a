package timeline

import (
	"testing"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute_WeekStartsOnISOMonday(t *testing.T) {
	// 2026-10-18 is a Sunday; its ISO week starts Monday 2026-10-12.
	w := Compute(day(2026, 10, 18), domain.ZoomWeek)

	assert.Equal(t, day(2026, 10, 12), w.Start)
	assert.Equal(t, day(2026, 10, 19), w.End)
	require.Len(t, w.Columns, 7)
	assert.Equal(t, "Mon 12", w.Columns[0].Label)
	assert.Equal(t, "Sun 18", w.Columns[6].Label)
	assert.Equal(t, "2026-W42", w.Title())
}

func TestCompute_WeekAnchorOnMonday(t *testing.T) {
	w := Compute(day(2026, 10, 12), domain.ZoomWeek)
	assert.Equal(t, day(2026, 10, 12), w.Start)
}

func TestCompute_MonthLengths(t *testing.T) {
	tests := []struct {
		name   string
		anchor time.Time
		start  time.Time
		end    time.Time
		days   int
	}{
		{"thirty days", day(2026, 9, 17), day(2026, 9, 1), day(2026, 10, 1), 30},
		{"thirty-one days", day(2026, 1, 31), day(2026, 1, 1), day(2026, 2, 1), 31},
		{"february", day(2026, 2, 10), day(2026, 2, 1), day(2026, 3, 1), 28},
		{"leap february", day(2028, 2, 29), day(2028, 2, 1), day(2028, 3, 1), 29},
		{"year rollover", day(2026, 12, 25), day(2026, 12, 1), day(2027, 1, 1), 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Compute(tt.anchor, domain.ZoomMonth)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
			assert.Len(t, w.Columns, tt.days)
			assert.Equal(t, tt.days, w.Days())
		})
	}
}

func TestCompute_QuarterWeeklyColumns(t *testing.T) {
	w := Compute(day(2026, 2, 15), domain.ZoomQuarter)

	assert.Equal(t, day(2026, 1, 1), w.Start)
	assert.Equal(t, day(2026, 4, 1), w.End)
	assert.Equal(t, "2026 Q1", w.Title())
	assert.GreaterOrEqual(t, len(w.Columns), 12)
	assert.LessOrEqual(t, len(w.Columns), 14)

	// 2026-01-01 is a Thursday in ISO week 1.
	assert.Equal(t, "W01", w.Columns[0].Label)
	assert.Equal(t, day(2026, 1, 5), w.Columns[0].End)

	// Columns tile the window without gaps.
	assert.Equal(t, w.Start, w.Columns[0].Start)
	for i := 1; i < len(w.Columns); i++ {
		assert.Equal(t, w.Columns[i-1].End, w.Columns[i].Start)
		assert.Equal(t, time.Monday, w.Columns[i].Start.Weekday())
	}
	assert.Equal(t, w.End, w.Columns[len(w.Columns)-1].End)
}

func TestCompute_QuarterBoundaries(t *testing.T) {
	assert.Equal(t, day(2026, 10, 1), Compute(day(2026, 12, 31), domain.ZoomQuarter).Start)
	assert.Equal(t, day(2027, 1, 1), Compute(day(2026, 12, 31), domain.ZoomQuarter).End)
	assert.Equal(t, day(2026, 4, 1), Compute(day(2026, 4, 1), domain.ZoomQuarter).Start)
}

func TestCompute_DropsClockTime(t *testing.T) {
	anchor := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	w := Compute(anchor, domain.ZoomMonth)
	assert.Equal(t, day(2026, 3, 15), w.Anchor)
}

func TestShift(t *testing.T) {
	assert.Equal(t, day(2026, 10, 25), Shift(day(2026, 10, 18), domain.ZoomWeek, 1))
	assert.Equal(t, day(2026, 10, 11), Shift(day(2026, 10, 18), domain.ZoomWeek, -1))
	assert.Equal(t, day(2026, 2, 28), Shift(day(2026, 1, 31), domain.ZoomMonth, 1))
	assert.Equal(t, day(2025, 12, 31), Shift(day(2026, 1, 31), domain.ZoomMonth, -1))
	assert.Equal(t, day(2027, 2, 28), Shift(day(2026, 11, 30), domain.ZoomQuarter, 1))
	assert.Equal(t, day(2026, 8, 15), Shift(day(2026, 11, 15), domain.ZoomQuarter, -1))
}

func TestNavigate_MovesOneWindow(t *testing.T) {
	anchor := day(2026, 1, 31)
	for _, mode := range domain.ZoomModes {
		cur := Compute(anchor, mode)
		next := Compute(Navigate(anchor, mode, Next, time.Time{}), mode)
		prev := Compute(Navigate(anchor, mode, Previous, time.Time{}), mode)

		assert.Equal(t, cur.End, next.Start, "%s next", mode)
		assert.Equal(t, cur.Start, prev.End, "%s previous", mode)
	}
}

func TestNavigate_Today(t *testing.T) {
	now := time.Date(2026, 10, 18, 14, 30, 0, 0, time.UTC)
	got := Navigate(day(2020, 1, 1), domain.ZoomQuarter, Today, now)
	assert.Equal(t, day(2026, 10, 18), got)
}

func TestCompute_UnknownModeFallsBackToMonth(t *testing.T) {
	w := Compute(day(2026, 5, 5), domain.ZoomMode("decade"))
	assert.Equal(t, domain.ZoomMonth, w.Mode)
	assert.Equal(t, day(2026, 5, 1), w.Start)
}
