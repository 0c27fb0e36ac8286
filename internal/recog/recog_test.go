package recog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	preflightErr error
	starts       []string
	stops        int
	emit         func(Event)
}

func (f *fakeEngine) Preflight(context.Context) error { return f.preflightErr }

func (f *fakeEngine) Start(lang string, emit func(Event)) error {
	f.starts = append(f.starts, lang)
	f.emit = emit
	return nil
}

func (f *fakeEngine) Stop() { f.stops++ }

func newTestManager(t *testing.T) (*Manager, *fakeEngine, chan Event) {
	t.Helper()
	eng := &fakeEngine{}
	events := make(chan Event, 16)
	m := NewManager(eng, events, 10*time.Millisecond, nil)
	t.Cleanup(m.Close)
	return m, eng, events
}

func next(t *testing.T, events chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
	return Event{}
}

func TestEndRestartsAfterDebounce(t *testing.T) {
	m, eng, events := newTestManager(t)
	require.NoError(t, m.Begin(context.Background(), "en-US"))
	require.Len(t, eng.starts, 1)

	eng.emit(Event{Kind: End})
	ev := next(t, events)
	m.HandleEnd(ev)
	assert.False(t, m.Capturing())

	due := next(t, events)
	assert.Equal(t, RestartDue, due.Kind)
	require.NoError(t, m.HandleRestartDue(due))
	assert.True(t, m.Capturing())
	assert.Equal(t, []string{"en-US", "en-US"}, eng.starts)
}

func TestNoRestartWhilePaused(t *testing.T) {
	m, eng, events := newTestManager(t)
	m.SetListenWhilePaused(false)
	require.NoError(t, m.Begin(context.Background(), "en-US"))
	emit := eng.emit

	require.NoError(t, m.Pause())
	assert.Equal(t, 1, eng.stops)

	// A late End from the stopped run is ignored.
	emit(Event{Kind: End})
	m.HandleEnd(next(t, events))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event %v", ev.Kind)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Len(t, eng.starts, 1)

	require.NoError(t, m.Resume())
	assert.Len(t, eng.starts, 2)
	assert.True(t, m.Capturing())
}

func TestPauseOpensFreshRun(t *testing.T) {
	m, eng, events := newTestManager(t)
	require.NoError(t, m.Begin(context.Background(), "en-US"))
	stale := eng.emit

	require.NoError(t, m.Pause())
	assert.Equal(t, 1, eng.stops)
	assert.Len(t, eng.starts, 2)
	assert.True(t, m.Capturing())

	stale(Event{Kind: Result, Transcript: "old"})
	assert.False(t, m.Current(next(t, events)))

	eng.emit(Event{Kind: Result, Transcript: "resume listening"})
	assert.True(t, m.Current(next(t, events)))

	require.NoError(t, m.Resume())
	assert.Len(t, eng.starts, 2)
}

func TestPausedRunRestartsByDefault(t *testing.T) {
	m, eng, events := newTestManager(t)
	require.NoError(t, m.Begin(context.Background(), "en-US"))
	require.NoError(t, m.Pause())
	require.Len(t, eng.starts, 2)

	eng.emit(Event{Kind: End})
	m.HandleEnd(next(t, events))
	assert.False(t, m.Capturing())

	due := next(t, events)
	assert.Equal(t, RestartDue, due.Kind)
	require.NoError(t, m.HandleRestartDue(due))
	assert.True(t, m.Capturing())
	assert.Len(t, eng.starts, 3)
}

func TestRestartDueRechecksConditions(t *testing.T) {
	m, eng, events := newTestManager(t)
	require.NoError(t, m.Begin(context.Background(), "en-US"))

	eng.emit(Event{Kind: End})
	m.HandleEnd(next(t, events))
	due := next(t, events)

	m.Halt()
	require.NoError(t, m.HandleRestartDue(due))
	assert.False(t, m.Capturing())
	assert.Len(t, eng.starts, 1)
}

func TestHiddenStopsAndDisablesRestart(t *testing.T) {
	m, eng, events := newTestManager(t)
	require.NoError(t, m.Begin(context.Background(), "en-US"))

	require.NoError(t, m.SetVisible(false))
	assert.False(t, m.Capturing())
	assert.False(t, m.AutoRestart())
	assert.Equal(t, 1, eng.stops)

	require.NoError(t, m.SetVisible(true))
	assert.True(t, m.Capturing())
	assert.True(t, m.AutoRestart())
	assert.Len(t, eng.starts, 2)
	assert.Empty(t, events)
}

func TestVisibleAfterHaltDoesNotCapture(t *testing.T) {
	m, eng, _ := newTestManager(t)
	require.NoError(t, m.Begin(context.Background(), "en-US"))
	m.Halt()

	require.NoError(t, m.SetVisible(false))
	require.NoError(t, m.SetVisible(true))
	assert.False(t, m.Capturing())
	assert.Len(t, eng.starts, 1)
}

func TestPreflightDenied(t *testing.T) {
	m, eng, _ := newTestManager(t)
	eng.preflightErr = ErrPermission

	err := m.Begin(context.Background(), "en-US")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermission)
	assert.Empty(t, eng.starts)
	assert.False(t, m.AutoRestart())

	eng.preflightErr = nil
	require.NoError(t, m.Begin(context.Background(), "en-US"))
	assert.True(t, m.Capturing())
}

func TestPermissionErrorIsTerminal(t *testing.T) {
	m, eng, events := newTestManager(t)
	require.NoError(t, m.Begin(context.Background(), "en-US"))

	eng.emit(Event{Kind: Error, Err: ErrPermission})
	assert.Equal(t, Terminal, m.HandleError(next(t, events)))
	assert.False(t, m.Capturing())
	assert.ErrorIs(t, m.Resume(), ErrPermission)
	assert.NoError(t, m.SetVisible(true))
	assert.False(t, m.Capturing())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Recoverable, Classify(ErrNoSpeech))
	assert.Equal(t, Recoverable, Classify(ErrAborted))
	assert.Equal(t, Terminal, Classify(errors.Join(errors.New("device"), ErrPermission)))
	assert.Equal(t, Reportable, Classify(errors.New("network")))
}

func TestSetLanguageRestartsCapture(t *testing.T) {
	m, eng, _ := newTestManager(t)
	require.NoError(t, m.Begin(context.Background(), "en-US"))

	require.NoError(t, m.SetLanguage("hi-IN"))
	assert.Equal(t, []string{"en-US", "hi-IN"}, eng.starts)
	assert.Equal(t, 1, eng.stops)
}
