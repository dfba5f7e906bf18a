package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/opsboard/internal/cli/formatter"
	"github.com/alexanderramin/opsboard/internal/live"
	tea "github.com/charmbracelet/bubbletea"
)

// appModel is the root bubbletea Model for the TUI.
// It manages a view stack over one live engine.
type appModel struct {
	state     *SharedState
	viewStack []View
	events    <-chan live.Event
	quitting  bool
}

// newAppModel starts on the board or the timeline. events may be nil, in
// which case views still render engine state but are not woken by changes.
func newAppModel(state *SharedState, start ViewID, events <-chan live.Event) appModel {
	var home View = newBoardView(state)
	if start == ViewTimeline {
		home = newTimelineView(state)
	}
	return appModel{
		state:     state,
		viewStack: []View{home},
		events:    events,
	}
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m *appModel) pop() {
	if len(m.viewStack) <= 1 {
		return
	}
	if c, ok := m.activeView().(closer); ok {
		c.onClose()
	}
	m.viewStack = m.viewStack[:len(m.viewStack)-1]
}

// broadcast forwards msg to every view so lower views stay current.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, v := range m.viewStack {
		updated, cmd := v.Update(msg)
		m.viewStack[i] = updated.(View)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if v := m.activeView(); v != nil {
		cmds = append(cmds, v.Init())
	}
	cmds = append(cmds, waitForEvent(m.events))
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		m.pop()
		return m, nil

	case replaceViewMsg:
		if len(m.viewStack) > 0 {
			m.viewStack[len(m.viewStack)-1] = msg.view
		} else {
			m.viewStack = append(m.viewStack, msg.view)
		}
		return m, msg.view.Init()

	case flashMsg:
		m.state.Flash = msg.text
		m.state.FlashErr = msg.err
		return m, nil

	case wizardCompleteMsg:
		// Pop the form and run its follow-up.
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd

	case mutationDoneMsg:
		if msg.err != nil {
			m.state.Flash = fmt.Sprintf("%s: %s reverted: %v", msg.title, msg.field, msg.err)
			m.state.FlashErr = true
		}
		return m, nil

	case engineEventMsg:
		m.noteEvent(msg.ev)
		return m, tea.Batch(m.broadcast(msg), waitForEvent(m.events))
	}

	// Forward to active view
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

// noteEvent updates the connection banner and surfaces failures.
func (m *appModel) noteEvent(ev live.Event) {
	switch ev.Kind {
	case live.EventSubscriptionLost:
		m.state.Offline = true
	case live.EventSubscriptionRestored:
		m.state.Offline = false
	case live.EventLoadFailed:
		m.state.Flash = ev.Err.Error()
		m.state.FlashErr = true
	}
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	m.state.Flash = ""
	m.state.FlashErr = false

	// Views with their own text input receive every key.
	if v := m.activeView(); v != nil && viewCapturesInput(v) {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		m.pop()
		return m, nil
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("opsboard")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	vs := m.state.Engine.View()
	if vs.Filter.Scope != "" {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(vs.Filter.Scope) + formatter.Dim("]")
	}
	if n := len(vs.Pending); n > 0 {
		header += "  " + formatter.StyleYellow.Render(fmt.Sprintf("⟳ %d saving", n))
	}
	if m.state.Offline {
		header += "  " + formatter.StyleRed.Render("○ offline, reconnecting")
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))

	notice := ""
	if m.state.Flash != "" {
		if m.state.FlashErr {
			notice = formatter.StyleRed.Render(m.state.Flash)
		} else {
			notice = formatter.StyleGreen.Render(m.state.Flash)
		}
	}

	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if len(m.viewStack) > 1 {
		hints = append(hints, formatter.Dim("esc: back"))
	}
	hints = append(hints, formatter.Dim("q: quit"))

	return sep + "\n" + notice + "\n" + strings.Join(hints, "  ")
}
