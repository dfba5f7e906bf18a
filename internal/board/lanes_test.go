package board

import (
	"testing"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entity(id, title string, status domain.Status, owner, client string) *domain.Entity {
	return &domain.Entity{
		ID:     id,
		Title:  title,
		Status: status,
		Owner:  domain.Owner{ID: "u-" + owner, Name: owner},
		Client: client,
	}
}

func sample() []*domain.Entity {
	return []*domain.Entity{
		entity("p1", "Website relaunch", domain.StatusInProgress, "Dana", "Acme"),
		entity("p2", "Payroll onboarding", domain.StatusOnboarding, "Lee", "Globex"),
		entity("p3", "Audit", domain.StatusCompleted, "Dana", "Initech"),
		entity("p4", "Mystery", domain.Status("blocked"), "Sam", "Acme"),
		entity("p5", "Brand review", domain.StatusReview, "Lee", "Acme"),
		entity("p6", "Backlog idea", domain.StatusUnscheduled, "Sam", "Globex"),
	}
}

func ids(es []*domain.Entity) []string {
	var out []string
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}

func TestClassify_FixedLaneOrder(t *testing.T) {
	lanes := Classify(sample())

	require.Len(t, lanes, len(domain.Statuses))
	for i, s := range domain.Statuses {
		assert.Equal(t, s, lanes[i].Status)
		assert.Equal(t, s.Label(), lanes[i].Title)
	}
	assert.Equal(t, []string{"p4", "p6"}, ids(lanes[0].Entities), "unknown status lands in the default lane")
	assert.Equal(t, []string{"p2"}, ids(lanes[1].Entities))
	assert.Equal(t, []string{"p1"}, ids(lanes[2].Entities))
	assert.Equal(t, []string{"p5"}, ids(lanes[3].Entities))
	assert.Equal(t, []string{"p3"}, ids(lanes[4].Entities))
}

func TestClassify_NothingDropped(t *testing.T) {
	total := 0
	for _, l := range Classify(sample()) {
		total += len(l.Entities)
	}
	assert.Equal(t, len(sample()), total)
}

func TestClassify_EmptyInputKeepsLanes(t *testing.T) {
	lanes := Classify(nil)
	require.Len(t, lanes, 5)
	for _, l := range lanes {
		assert.Empty(t, l.Entities)
	}
}

func TestApply_TextFilter(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", []string{"p1", "p2", "p3", "p4", "p5", "p6"}},
		{"REVIEW", []string{"p5"}},
		{"dana", []string{"p1", "p3"}},
		{"acme", []string{"p1", "p4", "p5"}},
		{"nothing-matches", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sample(), Filter{Text: tt.text})))
		})
	}
}

func TestApply_ScopeBeforeText(t *testing.T) {
	got := Apply(sample(), Filter{Scope: "globex", Text: "o"})
	assert.Equal(t, []string{"p2", "p6"}, ids(got))

	got = Apply(sample(), Filter{Scope: "u-Lee"})
	assert.Equal(t, []string{"p2", "p5"}, ids(got))
}

func TestApply_InactiveFilterKeepsEverything(t *testing.T) {
	f := Filter{Scope: "  ", Text: " "}
	assert.False(t, f.Active())
	src := sample()
	got := Apply(src, f)
	assert.Equal(t, ids(src), ids(got))
	assert.Same(t, src[0], got[0])

	assert.True(t, Filter{Text: "a"}.Active())
	assert.True(t, Filter{Scope: "acme"}.Active())
}

func TestBuild_SharesPointers(t *testing.T) {
	src := sample()
	lanes := Build(src, Filter{Text: "website"})
	require.Len(t, lanes[2].Entities, 1)
	assert.Same(t, src[0], lanes[2].Entities[0])
}

func TestLaneFor(t *testing.T) {
	assert.Equal(t, domain.StatusReview, LaneFor(domain.StatusReview))
	assert.Equal(t, DefaultLane, LaneFor(""))
	assert.Equal(t, DefaultLane, LaneFor("archived"))
}
