package cli

import (
	"github.com/alexanderramin/opsboard/internal/live"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App    *App
	Engine *live.Engine

	// Terminal dimensions
	Width  int
	Height int

	// Status bar notice, cleared on the next key press.
	Flash    string
	FlashErr bool

	// Offline is set while the change subscription is down.
	Offline bool
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (3 lines: separator, notice, hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 5
	if h < 1 {
		return 1
	}
	return h
}

// ContentWidth returns the usable width, with a fallback before the first
// WindowSizeMsg arrives.
func (s *SharedState) ContentWidth() int {
	if s.Width <= 0 {
		return 120
	}
	return s.Width
}
