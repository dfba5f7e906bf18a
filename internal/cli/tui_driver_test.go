package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/live"
	"github.com/alexanderramin/opsboard/internal/teatest"
	"github.com/alexanderramin/opsboard/internal/testutil"
	"github.com/stretchr/testify/require"
)

// TestDriver wraps teatest.Driver with access to the appModel internals
// (view stack, shared state, engine) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
	Remote *testutil.FakeRemote
	Engine *live.Engine
	State  *SharedState
}

// NewTestDriver loads an engine over a FakeRemote seeded with entities and
// starts the TUI on the given view. The engine is not followed in the
// background; tests trigger refreshes through Engine.Load and Notify.
func NewTestDriver(t *testing.T, start ViewID, seed ...*domain.Entity) *TestDriver {
	t.Helper()

	fr := testutil.NewFakeRemote(seed...)
	app := &App{Engine: live.Options{
		Remote:       fr,
		Now:          func() time.Time { return testNow },
		WriteTimeout: time.Second,
		Zoom:         domain.ZoomMonth,
	}}
	eng := app.newEngine("")
	require.NoError(t, eng.Load(context.Background()))
	t.Cleanup(eng.Wait)

	state := &SharedState{App: app, Engine: eng}
	d := teatest.New(t, newAppModel(state, start, nil), teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d, Remote: fr, Engine: eng, State: state}
}

// Refresh reloads from the remote and delivers the change to the views, the
// way the background syncer would.
func (d *TestDriver) Refresh() {
	d.T.Helper()
	require.NoError(d.T, d.Engine.Load(context.Background()))
	d.Send(engineEventMsg{ev: live.Event{Kind: live.EventCollectionChanged}})
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// Flash returns the status bar notice.
func (d *TestDriver) Flash() string {
	return d.State.Flash
}

// EntityStatus reads the engine's current status of id.
func (d *TestDriver) EntityStatus(id string) domain.Status {
	e, ok := d.Engine.Get(id)
	if !ok {
		return ""
	}
	return e.Status
}
