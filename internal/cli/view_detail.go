package cli

import (
	"fmt"

	"github.com/alexanderramin/opsboard/internal/cli/formatter"
	"github.com/alexanderramin/opsboard/internal/live"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// detailView shows the selected entity in a scrollable viewport. Popping it
// closes the selection in the engine.
type detailView struct {
	state *SharedState
	keys  detailKeyMap
	vp    viewport.Model
}

func newDetailView(state *SharedState) *detailView {
	vp := viewport.New(state.ContentWidth(), state.ContentHeight())
	vp.MouseWheelEnabled = true
	v := &detailView{state: state, keys: newDetailKeyMap(), vp: vp}
	v.refresh()
	return v
}

func (v *detailView) ID() ViewID { return ViewDetail }

func (v *detailView) Title() string {
	if d, ok := v.state.Engine.Detail(); ok {
		return formatter.Truncate(d.Title, 32)
	}
	return "Detail"
}

func (v *detailView) ShortHelp() []key.Binding {
	return []key.Binding{
		v.keys.Edit,
		v.keys.Delete,
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
	}
}

func (v *detailView) Init() tea.Cmd { return nil }

func (v *detailView) onClose() {
	v.state.Engine.CloseDetail()
}

func (v *detailView) refresh() {
	d, ok := v.state.Engine.Detail()
	if !ok {
		v.vp.SetContent("\n  " + formatter.Dim("Nothing selected."))
		return
	}
	v.vp.SetContent(formatter.FormatDetail(d, v.state.App.now()))
}

func (v *detailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = v.state.ContentWidth()
		v.vp.Height = v.state.ContentHeight()
		v.refresh()
		return v, nil
	case engineEventMsg:
		v.refresh()
		return v, nil
	case tea.KeyMsg:
		d, ok := v.state.Engine.Detail()
		switch {
		case key.Matches(msg, v.keys.Edit):
			if !ok {
				return v, nil
			}
			if d.ReadOnly {
				return v, flashErr(fmt.Errorf("%s: %w", d.Title, live.ErrReadOnly))
			}
			return v, pushView(newEditFormView(v.state, d.ID))
		case key.Matches(msg, v.keys.Delete):
			if !ok || d.ReadOnly {
				return v, nil
			}
			return v, pushView(newDeleteConfirmView(v.state, d.ID, d.Title))
		}
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *detailView) View() string {
	return v.vp.View()
}
