package timeline

import "time"

// DefaultMinWidth keeps degenerate or mostly clipped bars visible and clickable.
const DefaultMinWidth = 1.0

// Bar is an entity's placement within a window, in percent of window width.
type Bar struct {
	Left  float64
	Width float64

	// ClippedStart and ClippedEnd report that the range continues past the
	// window edge on that side.
	ClippedStart bool
	ClippedEnd   bool
}

// Position maps a date to percent of the window, clamped to [0, 100].
func (w Window) Position(t time.Time) float64 {
	span := w.End.Sub(w.Start)
	if span <= 0 {
		return 0
	}
	frac := float64(t.Sub(w.Start)) / float64(span)
	switch {
	case frac < 0:
		frac = 0
	case frac > 1:
		frac = 1
	}
	return frac * 100
}

// Width returns the bar width for [start, end]. A range covering the whole
// window is exactly 100; anything else is floored at minWidth.
func (w Window) Width(start, end time.Time, minWidth float64) float64 {
	if start.Before(w.Start) && end.After(w.End) {
		return 100
	}
	width := w.Position(end) - w.Position(start)
	if width < minWidth {
		return minWidth
	}
	return width
}

// Overlaps reports whether [start, end] touches the window.
func (w Window) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && !end.Before(w.Start)
}

// Place computes the bar for [start, end]; ok is false when the range lies
// entirely outside the window.
func (w Window) Place(start, end time.Time, minWidth float64) (Bar, bool) {
	if end.Before(start) || !w.Overlaps(start, end) {
		return Bar{}, false
	}
	return Bar{
		Left:         w.Position(start),
		Width:        w.Width(start, end, minWidth),
		ClippedStart: start.Before(w.Start),
		ClippedEnd:   end.After(w.End),
	}, true
}

// Cells scales a bar to a grid of n cells, returning the first cell and the
// number of cells covered. At least one cell is covered and the span never
// runs past the grid.
func (b Bar) Cells(n int) (first, count int) {
	if n <= 0 {
		return 0, 0
	}
	first = int(b.Left / 100 * float64(n))
	if first >= n {
		first = n - 1
	}
	count = int(b.Width/100*float64(n) + 0.5)
	if count < 1 {
		count = 1
	}
	if first+count > n {
		count = n - first
	}
	return first, count
}
