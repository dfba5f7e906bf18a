package cli

import (
	"context"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/live"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// replaceViewMsg replaces the current top view with a new one.
type replaceViewMsg struct {
	view View
}

// flashMsg shows a one-line notice in the status bar until the next key.
type flashMsg struct {
	text string
	err  bool
}

// wizardCompleteMsg is sent when a form completes or is cancelled.
// The appModel pops the form view, then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// engineEventMsg carries one engine event into the update loop.
type engineEventMsg struct {
	ev live.Event
}

// mutationDoneMsg reports the resolution of an optimistic write.
type mutationDoneMsg struct {
	title string
	field domain.Field
	err   error
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func replaceView(v View) tea.Cmd {
	return func() tea.Msg { return replaceViewMsg{view: v} }
}

func flash(text string) tea.Cmd {
	return func() tea.Msg { return flashMsg{text: text} }
}

func flashErr(err error) tea.Cmd {
	return func() tea.Msg { return flashMsg{text: err.Error(), err: true} }
}

// waitForEvent reads the next engine event. It returns nil once the
// subscription is closed, which ends the listening loop.
func waitForEvent(events <-chan live.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return engineEventMsg{ev: ev}
	}
}

// awaitTicket waits for a submitted write off the update loop.
func awaitTicket(t *live.Ticket, title string) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{title: title, field: t.Field, err: t.Wait(context.Background())}
	}
}
