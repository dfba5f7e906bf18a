// Package timeline maps dated entities onto a zoomable calendar window.
//
// A Window is a pure function of an anchor date and a zoom mode. Geometry is
// expressed in percent of the window width so renderers can scale it to any
// number of cells or pixels.
package timeline

import (
	"fmt"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// Column is one labelled slice of the window, [Start, End).
type Column struct {
	Start time.Time
	End   time.Time
	Label string
}

// Window is the visible date range, [Start, End).
type Window struct {
	Mode    domain.ZoomMode
	Anchor  time.Time
	Start   time.Time
	End     time.Time
	Columns []Column
}

// Direction drives window navigation.
type Direction int

const (
	Previous Direction = -1
	Today    Direction = 0
	Next     Direction = 1
)

// Compute returns the window containing anchor for the given zoom mode.
// Unknown modes fall back to month.
func Compute(anchor time.Time, mode domain.ZoomMode) Window {
	anchor = domain.DateOnly(anchor)
	w := Window{Mode: mode, Anchor: anchor}

	switch mode {
	case domain.ZoomWeek:
		w.Start = mondayOf(anchor)
		w.End = w.Start.AddDate(0, 0, 7)
		w.Columns = dayColumns(w.Start, w.End, "Mon 02")
	case domain.ZoomQuarter:
		y, m, _ := anchor.Date()
		first := time.Month((int(m)-1)/3*3 + 1)
		w.Start = time.Date(y, first, 1, 0, 0, 0, 0, time.UTC)
		w.End = w.Start.AddDate(0, 3, 0)
		w.Columns = weekColumns(w.Start, w.End)
	default:
		w.Mode = domain.ZoomMonth
		y, m, _ := anchor.Date()
		w.Start = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		w.End = w.Start.AddDate(0, 1, 0)
		w.Columns = dayColumns(w.Start, w.End, "2")
	}
	return w
}

// Shift moves anchor by steps window units: 7 days, 1 month or 3 months.
// Month arithmetic clamps the day so Jan 31 moves to the last day of February.
func Shift(anchor time.Time, mode domain.ZoomMode, steps int) time.Time {
	anchor = domain.DateOnly(anchor)
	switch mode {
	case domain.ZoomWeek:
		return anchor.AddDate(0, 0, 7*steps)
	case domain.ZoomQuarter:
		return addMonthsClamped(anchor, 3*steps)
	default:
		return addMonthsClamped(anchor, steps)
	}
}

// Navigate resolves a navigation request into a new anchor.
func Navigate(anchor time.Time, mode domain.ZoomMode, dir Direction, now time.Time) time.Time {
	if dir == Today {
		return domain.DateOnly(now)
	}
	return Shift(anchor, mode, int(dir))
}

// Days is the number of calendar days in the window.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// Contains reports whether t falls inside [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Title is a short heading for the window, e.g. "2026-W42", "October 2026", "2026 Q4".
func (w Window) Title() string {
	switch w.Mode {
	case domain.ZoomWeek:
		y, wk := w.Start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, wk)
	case domain.ZoomQuarter:
		return fmt.Sprintf("%d Q%d", w.Start.Year(), (int(w.Start.Month())-1)/3+1)
	}
	return w.Start.Format("January 2006")
}

func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func dayColumns(start, end time.Time, layout string) []Column {
	var cols []Column
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		cols = append(cols, Column{Start: d, End: d.AddDate(0, 0, 1), Label: d.Format(layout)})
	}
	return cols
}

// weekColumns splits [start, end) at every Monday. The first column begins at
// start even mid-week; each column is labelled with its ISO week number.
func weekColumns(start, end time.Time) []Column {
	var cols []Column
	for d := start; d.Before(end); {
		next := mondayOf(d).AddDate(0, 0, 7)
		if next.After(end) {
			next = end
		}
		_, wk := d.ISOWeek()
		cols = append(cols, Column{Start: d, End: next, Label: fmt.Sprintf("W%02d", wk)})
		d = next
	}
	return cols
}

func daysInMonth(y int, m time.Month) int {
	// Day 0 of next month is last day of this month.
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	ty, tm, _ := first.Date()
	if last := daysInMonth(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, 0, 0, 0, 0, time.UTC)
}
