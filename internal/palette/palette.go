// Package palette assigns every entity a stable color derived from its id.
package palette

import (
	"fmt"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// MinSize is the smallest palette that still gives visually distinct bars.
const MinSize = 6

// Gruvbox-inspired bar colors.
var DefaultColors = []lipgloss.Color{
	"#83a598", // blue
	"#d3869b", // purple
	"#fabd2f", // yellow
	"#8ec07c", // aqua
	"#fe8019", // orange
	"#b8bb26", // green
	"#fb4934", // red
	"#458588", // teal
}

// DefaultDone is the color every completed entity renders in.
var DefaultDone = lipgloss.Color("#928374")

type Palette struct {
	colors []lipgloss.Color
	done   lipgloss.Color
}

// New builds a palette. It rejects palettes smaller than MinSize.
func New(colors []lipgloss.Color, done lipgloss.Color) (*Palette, error) {
	if len(colors) < MinSize {
		return nil, fmt.Errorf("palette needs at least %d colors, got %d", MinSize, len(colors))
	}
	if done == "" {
		done = DefaultDone
	}
	return &Palette{colors: append([]lipgloss.Color(nil), colors...), done: done}, nil
}

// Default returns the built-in palette.
func Default() *Palette {
	p, _ := New(DefaultColors, DefaultDone)
	return p
}

// Hash is a 31-based polynomial rolling hash over the runes of id, wrapping
// on int32 overflow. It depends only on id, so it is stable across runs.
func Hash(id string) int32 {
	var h int32
	for _, r := range id {
		h = h*31 + int32(r)
	}
	return h
}

func (p *Palette) Size() int { return len(p.colors) }

func (p *Palette) Done() lipgloss.Color { return p.done }

// Index returns the palette slot owned by id.
func (p *Palette) Index(id string) int {
	h := int64(Hash(id))
	if h < 0 {
		h = -h
	}
	return int(h % int64(len(p.colors)))
}

// ForID returns the hashed color for id, ignoring status.
func (p *Palette) ForID(id string) lipgloss.Color {
	return p.colors[p.Index(id)]
}

// ForEntity resolves the hashed color first and then applies the completed
// override, so the slot stays owned by the id for any later status.
func (p *Palette) ForEntity(id string, status domain.Status) lipgloss.Color {
	c := p.ForID(id)
	if status == domain.StatusCompleted {
		return p.done
	}
	return c
}
