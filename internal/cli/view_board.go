package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/opsboard/internal/cli/formatter"
	"github.com/alexanderramin/opsboard/internal/contract"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// boardView shows the status lanes with a card cursor. Moving the cursor
// hovers the card in the engine, so the timeline highlights it too.
type boardView struct {
	state *SharedState
	keys  boardKeyMap

	lane     int
	row      int
	cursorID string

	filter    textinput.Model
	filtering bool
}

func newBoardView(state *SharedState) *boardView {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "title, owner or client"
	ti.CharLimit = 80
	ti.SetValue(state.Engine.View().Filter.Text)
	return &boardView{
		state:  state,
		keys:   newBoardKeyMap(),
		filter: ti,
	}
}

func (v *boardView) ID() ViewID          { return ViewBoard }
func (v *boardView) Title() string       { return "Board" }
func (v *boardView) capturesInput() bool { return v.filtering }

func (v *boardView) ShortHelp() []key.Binding {
	if v.filtering {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		}
	}
	return []key.Binding{
		v.keys.Left, v.keys.MoveLeft, v.keys.Open, v.keys.Edit,
		v.keys.New, v.keys.Delete, v.keys.Filter, v.keys.Timeline,
	}
}

func (v *boardView) Init() tea.Cmd {
	v.sync(v.state.Engine.Board())
	return nil
}

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case engineEventMsg:
		v.sync(v.state.Engine.Board())
		return v, nil
	case tea.KeyMsg:
		if v.filtering {
			return v.updateFilter(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

// sync re-anchors the cursor after the lanes changed. It follows the card
// it was on; if that card is gone it stays at the same position.
func (v *boardView) sync(b contract.BoardView) {
	if len(b.Lanes) == 0 {
		v.lane, v.row, v.cursorID = 0, 0, ""
		return
	}
	if v.cursorID != "" {
		for li, l := range b.Lanes {
			for ri, c := range l.Cards {
				if c.ID == v.cursorID {
					v.lane, v.row = li, ri
					return
				}
			}
		}
	}
	v.lane = min(max(v.lane, 0), len(b.Lanes)-1)
	cards := b.Lanes[v.lane].Cards
	if len(cards) == 0 {
		v.row, v.cursorID = 0, ""
		return
	}
	v.row = min(max(v.row, 0), len(cards)-1)
	v.cursorID = cards[v.row].ID
}

// moveCursor shifts the cursor and hovers the card it lands on.
func (v *boardView) moveCursor(dLane, dRow int) {
	b := v.state.Engine.Board()
	v.cursorID = ""
	v.lane += dLane
	v.row += dRow
	if dLane != 0 {
		v.row = min(v.row, len(laneCards(b, v.lane))-1)
	}
	v.sync(b)
	v.state.Engine.Hover(v.cursorID)
}

func laneCards(b contract.BoardView, lane int) []contract.Card {
	if lane < 0 || lane >= len(b.Lanes) {
		return nil
	}
	return b.Lanes[lane].Cards
}

func (v *boardView) current() (contract.Card, bool) {
	if v.cursorID == "" {
		return contract.Card{}, false
	}
	b := v.state.Engine.Board()
	return b.Card(v.cursorID)
}

func (v *boardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Left):
		v.moveCursor(-1, 0)
	case key.Matches(msg, v.keys.Right):
		v.moveCursor(1, 0)
	case key.Matches(msg, v.keys.Up):
		v.moveCursor(0, -1)
	case key.Matches(msg, v.keys.Down):
		v.moveCursor(0, 1)
	case key.Matches(msg, v.keys.MoveLeft):
		return v, v.moveCard(-1)
	case key.Matches(msg, v.keys.MoveRight):
		return v, v.moveCard(1)
	case key.Matches(msg, v.keys.Open):
		return v, openDetail(v.state, v.cursorID)
	case key.Matches(msg, v.keys.Edit):
		if c, ok := v.current(); ok {
			return v, pushView(newEditFormView(v.state, c.ID))
		}
	case key.Matches(msg, v.keys.New):
		b := v.state.Engine.Board()
		if v.lane < len(b.Lanes) {
			return v, pushView(newCreateFormView(v.state, b.Lanes[v.lane].Status))
		}
	case key.Matches(msg, v.keys.Delete):
		if c, ok := v.current(); ok {
			return v, pushView(newDeleteConfirmView(v.state, c.ID, c.Title))
		}
	case key.Matches(msg, v.keys.Filter):
		v.filtering = true
		return v, v.filter.Focus()
	case key.Matches(msg, v.keys.Timeline):
		return v, replaceView(newTimelineView(v.state))
	case key.Matches(msg, v.keys.Reload):
		return v, reloadCmd(v.state)
	}
	return v, nil
}

// moveCard drags the card under the cursor into the neighbouring lane. The
// cursor follows the card.
func (v *boardView) moveCard(dir int) tea.Cmd {
	c, ok := v.current()
	if !ok {
		return nil
	}
	b := v.state.Engine.Board()
	target := v.lane + dir
	if target < 0 || target >= len(b.Lanes) {
		return nil
	}
	ticket, err := v.state.Engine.DragToLane(context.Background(), c.ID, b.Lanes[target].Status)
	if err != nil {
		return flashErr(err)
	}
	v.sync(v.state.Engine.Board())
	return tea.Batch(
		flash(fmt.Sprintf("Moved %s to %s", c.Title, b.Lanes[target].Title)),
		awaitTicket(ticket, c.Title),
	)
}

func (v *boardView) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.filtering = false
		v.filter.Blur()
		v.filter.SetValue("")
		v.state.Engine.SetFilter("")
		v.sync(v.state.Engine.Board())
		return v, nil
	case tea.KeyEnter:
		v.filtering = false
		v.filter.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.state.Engine.SetFilter(v.filter.Value())
	v.sync(v.state.Engine.Board())
	return v, cmd
}

func (v *boardView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	if v.filtering || v.filter.Value() != "" {
		b.WriteString("  " + v.filter.View() + "\n\n")
	}
	b.WriteString(formatter.FormatBoard(v.state.Engine.Board(), formatter.BoardOptions{
		Width:    v.state.ContentWidth(),
		CursorID: v.cursorID,
	}))
	return clipLines(b.String(), v.state)
}

// openDetail selects id and pushes the detail view.
func openDetail(state *SharedState, id string) tea.Cmd {
	if id == "" {
		return nil
	}
	if err := state.Engine.Select(id); err != nil {
		return flashErr(err)
	}
	return pushView(newDetailView(state))
}

func reloadCmd(state *SharedState) tea.Cmd {
	return func() tea.Msg {
		if err := state.Engine.Load(context.Background()); err != nil {
			return flashMsg{text: err.Error(), err: true}
		}
		return flashMsg{text: "Reloaded"}
	}
}

// clipLines cuts s to the content height once the terminal size is known.
func clipLines(s string, state *SharedState) string {
	if state.Height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if h := state.ContentHeight(); len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}
