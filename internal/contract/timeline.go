package contract

import (
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// ColumnView is a labelled slice of the axis, in percent of window width.
type ColumnView struct {
	Label string
	Left  float64
	Width float64
}

// BarView places a card on the time axis.
type BarView struct {
	Card
	Start        time.Time
	End          time.Time
	Left         float64
	Width        float64
	ClippedStart bool
	ClippedEnd   bool
}

type TimelineView struct {
	Title   string
	Mode    domain.ZoomMode
	Start   time.Time
	End     time.Time
	Columns []ColumnView
	Bars    []BarView

	// Unscheduled lists entities with no usable date range. Scheduled
	// entities outside the window appear in neither list.
	Unscheduled []Card

	Today        float64
	TodayVisible bool
}
