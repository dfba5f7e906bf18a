package cli

import (
	"slices"
	"strings"

	"github.com/alexanderramin/opsboard/internal/cli/formatter"
	"github.com/alexanderramin/opsboard/internal/contract"
	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/timeline"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// timelineView shows the Gantt rendering of the current window. The row
// cursor hovers entities the same way the board cursor does.
type timelineView struct {
	state    *SharedState
	keys     timelineKeyMap
	cursorID string
}

func newTimelineView(state *SharedState) *timelineView {
	return &timelineView{state: state, keys: newTimelineKeyMap()}
}

func (v *timelineView) ID() ViewID    { return ViewTimeline }
func (v *timelineView) Title() string { return "Timeline" }

func (v *timelineView) ShortHelp() []key.Binding {
	return []key.Binding{v.keys.Prev, v.keys.Today, v.keys.Zoom, v.keys.Open, v.keys.Edit, v.keys.Board}
}

func (v *timelineView) Init() tea.Cmd {
	v.cursorID = v.state.Engine.View().HoveredID
	return nil
}

// rowIDs lists the ids in rendering order: bars, then unscheduled.
func rowIDs(tv contract.TimelineView) []string {
	ids := make([]string, 0, len(tv.Bars)+len(tv.Unscheduled))
	for _, b := range tv.Bars {
		ids = append(ids, b.ID)
	}
	for _, c := range tv.Unscheduled {
		ids = append(ids, c.ID)
	}
	return ids
}

func (v *timelineView) moveCursor(d int) {
	ids := rowIDs(v.state.Engine.Timeline())
	if len(ids) == 0 {
		v.cursorID = ""
		return
	}
	i := slices.Index(ids, v.cursorID)
	switch {
	case i < 0 && d > 0:
		i = 0
	case i < 0:
		i = len(ids) - 1
	default:
		i = min(max(i+d, 0), len(ids)-1)
	}
	v.cursorID = ids[i]
	v.state.Engine.Hover(v.cursorID)
}

func nextZoom(z domain.ZoomMode) domain.ZoomMode {
	i := slices.Index(domain.ZoomModes, z)
	return domain.ZoomModes[(i+1)%len(domain.ZoomModes)]
}

func (v *timelineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	eng := v.state.Engine
	switch {
	case key.Matches(km, v.keys.Up):
		v.moveCursor(-1)
	case key.Matches(km, v.keys.Down):
		v.moveCursor(1)
	case key.Matches(km, v.keys.Prev):
		eng.Navigate(timeline.Previous)
	case key.Matches(km, v.keys.Next):
		eng.Navigate(timeline.Next)
	case key.Matches(km, v.keys.Today):
		eng.Navigate(timeline.Today)
	case key.Matches(km, v.keys.Zoom):
		eng.SetZoom(nextZoom(eng.View().Zoom))
	case key.Matches(km, v.keys.Open):
		return v, openDetail(v.state, v.cursorID)
	case key.Matches(km, v.keys.Edit):
		if v.cursorID != "" {
			return v, pushView(newEditFormView(v.state, v.cursorID))
		}
	case key.Matches(km, v.keys.Board):
		return v, replaceView(newBoardView(v.state))
	case key.Matches(km, v.keys.Reload):
		return v, reloadCmd(v.state)
	}
	return v, nil
}

func (v *timelineView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(formatter.FormatTimeline(v.state.Engine.Timeline(), formatter.TimelineOptions{
		Width:    v.state.ContentWidth(),
		CursorID: v.cursorID,
	}))
	return clipLines(b.String(), v.state)
}
