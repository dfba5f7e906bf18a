package cli

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/live"
	"github.com/alexanderramin/opsboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tuiSeed() (web, pay *domain.Entity) {
	web = testutil.NewTestEntity("Website relaunch",
		testutil.WithStatus(domain.StatusUnscheduled),
		testutil.WithDates("2026-03-02", "2026-03-20"),
		testutil.WithOwner("u1", "Dana"),
		testutil.WithClient("Acme"),
		testutil.WithSubItems("x design", "build"))
	pay = testutil.NewTestEntity("Payroll",
		testutil.WithStatus(domain.StatusUnscheduled),
		testutil.WithClient("Globex"))
	return web, pay
}

func TestTUI_BoardLoadsOnStartup(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)

	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())

	screen := d.Screen()
	assert.Contains(t, screen, "opsboard › Board")
	assert.Contains(t, screen, "UNSCHEDULED (2)")
	assert.Contains(t, screen, "Website relaunch")
	assert.Contains(t, screen, "Payroll")
	assert.Contains(t, screen, "q: quit")
}

func TestTUI_QuitWithQ(t *testing.T) {
	d := NewTestDriver(t, ViewBoard)
	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestTUI_QuitWithCtrlC(t *testing.T) {
	d := NewTestDriver(t, ViewBoard)
	d.PressCtrlC()
	assert.True(t, d.Quitting)
}

func TestTUI_CursorHoversInEngine(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)

	d.PressKey('j')
	assert.Equal(t, pay.ID, d.Engine.View().HoveredID)
	d.PressKey('k')
	assert.Equal(t, web.ID, d.Engine.View().HoveredID)

	// The timeline shows the same hover without moving its own cursor.
	d.PressKey('t')
	require.Equal(t, ViewTimeline, d.ActiveViewID())
	assert.Contains(t, d.Line("Website relaunch"), "▸")
}

func TestTUI_MoveCardToNextLane(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)

	d.PressKey('L')

	assert.Equal(t, domain.StatusOnboarding, d.EntityStatus(web.ID), "applied before the write resolves")
	assert.Contains(t, d.Screen(), "ONBOARDING (1)")
	require.Eventually(t, func() bool {
		e, _ := d.Remote.Entity(web.ID)
		return e.Status == domain.StatusOnboarding
	}, time.Second, 5*time.Millisecond)

	// The cursor followed the card; moving again goes one lane further.
	d.PressKey('>')
	assert.Equal(t, domain.StatusInProgress, d.EntityStatus(web.ID))
}

func TestTUI_FailedMoveRollsBack(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)
	d.Remote.WriteErrs = []error{errors.New("permission denied")}

	d.PressKey('L')

	require.Eventually(t, func() bool {
		return d.EntityStatus(web.ID) == domain.StatusUnscheduled &&
			d.Engine.MutationState(web.ID) != live.StatePending
	}, time.Second, 5*time.Millisecond)
}

func TestTUI_OpenAndCloseDetail(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)

	d.PressEnter()
	require.Equal(t, ViewDetail, d.ActiveViewID())
	assert.Equal(t, web.ID, d.Engine.View().SelectedID)

	screen := d.Screen()
	assert.Contains(t, screen, "Board › Website relaunch")
	assert.Contains(t, screen, "SUB-ITEMS 1/2")
	assert.Contains(t, screen, "2026-03-20")

	d.PressEsc()
	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Empty(t, d.Engine.View().SelectedID)
}

func TestTUI_DetailOfRemotelyDeletedEntityIsReadOnly(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)

	d.PressEnter()
	require.Equal(t, ViewDetail, d.ActiveViewID())

	d.Remote.Remove(web.ID)
	d.Refresh()

	assert.Contains(t, d.Screen(), "deleted remotely")
	d.PressKey('e')
	assert.Equal(t, ViewDetail, d.ActiveViewID(), "no edit form for a read-only entity")
	assert.Contains(t, d.Flash(), "read-only")

	d.PressEsc()
	_, ok := d.Engine.Get(web.ID)
	assert.False(t, ok, "closing the detail prunes the deleted entity")
	assert.NotContains(t, d.Screen(), "Website relaunch")
}

func TestTUI_FilterNarrowsBoard(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)

	d.PressKey('/')
	d.Type("globex")
	assert.Equal(t, "globex", d.Engine.View().Filter.Text)
	assert.NotContains(t, d.Screen(), "Website relaunch")
	assert.Contains(t, d.Screen(), "Payroll")

	// Keys go to the filter while it is focused.
	assert.False(t, d.Quitting)

	d.PressEnter()
	assert.Contains(t, d.Screen(), `filter "globex"`)

	d.PressKey('/')
	d.PressEsc()
	assert.Empty(t, d.Engine.View().Filter.Text)
	assert.Contains(t, d.Screen(), "Website relaunch")
}

func TestTUI_TimelineNavigation(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewTimeline, web, pay)

	require.Equal(t, ViewTimeline, d.ActiveViewID())
	start := d.Engine.Window().Start
	assert.Equal(t, testutil.Date("2026-03-01"), start)
	assert.Contains(t, d.Screen(), "Unscheduled (1)")

	d.PressKey('l')
	assert.Equal(t, testutil.Date("2026-04-01"), d.Engine.Window().Start)
	assert.NotContains(t, d.Screen(), "█")

	d.PressKey('.')
	assert.Equal(t, start, d.Engine.Window().Start)

	d.PressKey('z')
	assert.Equal(t, domain.ZoomQuarter, d.Engine.View().Zoom)
	d.PressKey('z')
	assert.Equal(t, domain.ZoomWeek, d.Engine.View().Zoom)

	d.PressKey('b')
	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())
}

func TestTUI_TimelineRowsHoverAndOpen(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewTimeline, web, pay)

	d.PressKey('j')
	assert.Equal(t, web.ID, d.Engine.View().HoveredID, "bars come first")
	d.PressKey('j')
	assert.Equal(t, pay.ID, d.Engine.View().HoveredID)

	d.PressEnter()
	require.Equal(t, ViewDetail, d.ActiveViewID())
	assert.Equal(t, pay.ID, d.Engine.View().SelectedID)
}

func TestTUI_EscCancelsForm(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)

	d.PressKey('e')
	require.Equal(t, ViewForm, d.ActiveViewID())

	// q is typed into the form, not treated as quit.
	d.PressKey('q')
	assert.False(t, d.Quitting)

	d.PressEsc()
	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Equal(t, "Cancelled.", d.Flash())
	assert.Empty(t, d.Remote.Writes())
}

func TestTUI_OfflineBanner(t *testing.T) {
	d := NewTestDriver(t, ViewBoard)

	d.Send(engineEventMsg{ev: live.Event{Kind: live.EventSubscriptionLost}})
	assert.Contains(t, d.Screen(), "offline, reconnecting")

	d.Send(engineEventMsg{ev: live.Event{Kind: live.EventSubscriptionRestored}})
	assert.NotContains(t, d.Screen(), "offline")
}

func TestTUI_RolledBackWriteIsReported(t *testing.T) {
	d := NewTestDriver(t, ViewBoard)

	d.Send(mutationDoneMsg{title: "Payroll", field: domain.FieldStatus, err: live.ErrWriteTimeout})
	assert.Contains(t, d.Flash(), "Payroll: status reverted")
	assert.True(t, d.State.FlashErr)
}

// --- form follow-ups ---

func TestApplyEdit_Optimistic(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)

	cmd := applyEdit(d.State, web.ID, web.Title, domain.FieldTitle, "Website v2")
	require.NotNil(t, cmd)

	got, ok := d.Engine.Get(web.ID)
	require.True(t, ok)
	assert.Equal(t, "Website v2", got.Title)
	require.Eventually(t, func() bool {
		e, _ := d.Remote.Entity(web.ID)
		return e.Title == "Website v2"
	}, time.Second, 5*time.Millisecond)
}

func TestApplyEdit_InvalidValueWritesNothing(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)

	cmd := applyEdit(d.State, web.ID, web.Title, domain.FieldEndDate, "someday")
	msg := cmd()
	flash, ok := msg.(flashMsg)
	require.True(t, ok)
	assert.True(t, flash.err)
	assert.Empty(t, d.Remote.Writes())
}

func TestApplyCreate(t *testing.T) {
	d := NewTestDriver(t, ViewBoard)

	in := createInput{title: "Audit", start: "2026-03-09", end: "2026-03-13", owner: "u2:Lee", status: domain.StatusReview}
	msg := applyCreate(d.State, in, testNow)()
	assert.Equal(t, flashMsg{text: "Created Audit"}, msg)

	b := d.Engine.Board()
	lane := b.Lane(domain.StatusReview)
	require.NotNil(t, lane)
	require.Len(t, lane.Cards, 1)
	assert.Equal(t, "Audit", lane.Cards[0].Title)
	assert.Equal(t, "Lee", lane.Cards[0].OwnerName)
}

func TestApplyCreate_RejectsInvertedDates(t *testing.T) {
	d := NewTestDriver(t, ViewBoard)

	in := createInput{title: "Audit", start: "2026-03-13", end: "2026-03-09", status: domain.StatusReview}
	msg := applyCreate(d.State, in, testNow)()
	flash, ok := msg.(flashMsg)
	require.True(t, ok)
	assert.True(t, flash.err)
	assert.Zero(t, d.Engine.Board().Total)
}

func TestApplyDelete(t *testing.T) {
	web, pay := tuiSeed()
	d := NewTestDriver(t, ViewBoard, web, pay)

	msg := applyDelete(d.State, pay.ID, pay.Title)()
	assert.Equal(t, flashMsg{text: "Deleted Payroll"}, msg)

	_, ok := d.Remote.Entity(pay.ID)
	assert.False(t, ok)
	_, ok = d.Engine.Get(pay.ID)
	assert.False(t, ok)
}
