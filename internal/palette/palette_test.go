package palette

import (
	"testing"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_KnownValues(t *testing.T) {
	// ((97*31)+98)*31+99
	assert.Equal(t, int32(96354), Hash("abc"))
	assert.Equal(t, int32(119193), Hash("xyz"))
	assert.Equal(t, int32(0), Hash(""))
}

func TestIndex_StableForKnownIDs(t *testing.T) {
	p := Default()
	require.Equal(t, 8, p.Size())

	assert.Equal(t, 2, p.Index("abc"))
	assert.Equal(t, 1, p.Index("xyz"))
	assert.Equal(t, DefaultColors[2], p.ForID("abc"))
	assert.Equal(t, DefaultColors[1], p.ForID("xyz"))
}

func TestForID_DeterministicAcrossInstances(t *testing.T) {
	ids := []string{"abc", "xyz", "3f2b9c1e-7d4a-4c55-9a1e-0b6f3e2d1c00", "ÄÖÜ-日本", "a-very-long-identifier-that-overflows-int32-many-times"}

	first := Default()
	for _, id := range ids {
		want := first.ForID(id)
		for i := 0; i < 10; i++ {
			// A fresh palette stands in for a process restart.
			assert.Equal(t, want, Default().ForID(id), id)
		}
		idx := first.Index(id)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, first.Size())
	}
}

func TestForEntity_CompletedOverride(t *testing.T) {
	p := Default()
	for _, id := range []string{"abc", "xyz", "p-1", "p-2", "p-3"} {
		assert.Equal(t, DefaultDone, p.ForEntity(id, domain.StatusCompleted), id)
		assert.Equal(t, p.ForID(id), p.ForEntity(id, domain.StatusInProgress), id)
	}
}

func TestForEntity_OverrideDoesNotMoveSlot(t *testing.T) {
	p := Default()
	before := p.ForEntity("abc", domain.StatusReview)
	_ = p.ForEntity("abc", domain.StatusCompleted)
	assert.Equal(t, before, p.ForEntity("abc", domain.StatusReview))
}

func TestNew_RejectsSmallPalette(t *testing.T) {
	_, err := New([]lipgloss.Color{"#000", "#111", "#222"}, "")
	assert.Error(t, err)

	p, err := New(DefaultColors[:6], "")
	require.NoError(t, err)
	assert.Equal(t, DefaultDone, p.Done())
}
