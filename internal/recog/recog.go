// Package recog wraps a continuous speech-recognition engine with the
// start/stop/pause rules of a listening session.
package recog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type EventKind int

const (
	Result EventKind = iota
	End
	Error
	RestartDue
)

func (k EventKind) String() string {
	switch k {
	case Result:
		return "result"
	case End:
		return "end"
	case Error:
		return "error"
	case RestartDue:
		return "restart_due"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is what engines (and the restart timer) feed into the session loop.
// Gen identifies the capture run that produced it.
type Event struct {
	Kind       EventKind
	Transcript string
	Err        error
	Gen        uint64
}

var (
	ErrPermission = errors.New("microphone permission denied")
	ErrNoSpeech   = errors.New("no speech detected")
	ErrAborted    = errors.New("recognition aborted")
)

type ErrorClass int

const (
	// Recoverable errors are ignored; the session continues.
	Recoverable ErrorClass = iota
	// Terminal errors end the session and disable auto-restart.
	Terminal
	// Reportable errors are shown to the user but keep the session alive.
	Reportable
)

func Classify(err error) ErrorClass {
	switch {
	case errors.Is(err, ErrPermission):
		return Terminal
	case errors.Is(err, ErrNoSpeech), errors.Is(err, ErrAborted):
		return Recoverable
	}
	return Reportable
}

// Engine is a continuous recognizer. Start launches capture and returns
// immediately; results, errors and natural termination are reported through
// emit. After Stop returns the engine must not emit End for that run.
type Engine interface {
	Preflight(ctx context.Context) error
	Start(lang string, emit func(Event)) error
	Stop()
}

const DefaultRestartDelay = 300 * time.Millisecond

// Manager is not safe for concurrent use; call it only from the goroutine
// that drains the event channel.
type Manager struct {
	engine Engine
	events chan<- Event
	quit   chan struct{}
	delay  time.Duration
	log    *slog.Logger

	lang              string
	listenWhilePaused bool
	wanted            bool
	autoRestart       bool
	visible           bool
	denied            bool
	preflighted       bool
	capturing         bool

	gen   uint64
	timer *time.Timer
}

func NewManager(engine Engine, events chan<- Event, delay time.Duration, log *slog.Logger) *Manager {
	if delay <= 0 {
		delay = DefaultRestartDelay
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		engine:            engine,
		events:            events,
		quit:              make(chan struct{}),
		delay:             delay,
		log:               log,
		lang:              "en-US",
		visible:           true,
		listenWhilePaused: true,
	}
}

func (m *Manager) Capturing() bool { return m.capturing }

func (m *Manager) AutoRestart() bool { return m.autoRestart }

// Begin runs the permission preflight (first start, or after a denial) and
// starts capture.
func (m *Manager) Begin(ctx context.Context, lang string) error {
	if !m.preflighted || m.denied {
		if err := m.engine.Preflight(ctx); err != nil {
			m.deny()
			return fmt.Errorf("preflight: %w", err)
		}
		m.preflighted = true
		m.denied = false
	}

	m.lang = lang
	m.wanted = true
	m.autoRestart = m.visible
	return m.start()
}

// Pause ends the current capture run, dropping whatever it had not yet
// finalized. With listen-while-paused on (the default) a fresh run starts
// right away so the resume phrase can still be heard.
func (m *Manager) Pause() error {
	m.stopCapture()
	if !m.listenWhilePaused {
		m.wanted = false
		return nil
	}
	return m.start()
}

// SetListenWhilePaused picks whether Pause keeps a capture run open.
func (m *Manager) SetListenWhilePaused(on bool) { m.listenWhilePaused = on }

func (m *Manager) Resume() error {
	if m.denied {
		return ErrPermission
	}
	m.wanted = true
	return m.start()
}

func (m *Manager) Halt() {
	m.wanted = false
	m.stopCapture()
}

// SetLanguage restarts a running capture so the engine picks the new
// language up.
func (m *Manager) SetLanguage(lang string) error {
	m.lang = lang
	if !m.capturing {
		return nil
	}
	m.stopCapture()
	return m.start()
}

// SetVisible applies page visibility: hidden stops capture and disables
// auto-restart, visible brings capture back if the session still wants it.
func (m *Manager) SetVisible(visible bool) error {
	m.visible = visible
	if !visible {
		m.autoRestart = false
		m.stopCapture()
		return nil
	}
	if m.denied {
		return nil
	}
	m.autoRestart = true
	return m.start()
}

// Current reports whether ev belongs to the active capture run.
func (m *Manager) Current(ev Event) bool {
	return ev.Gen == m.gen
}

// HandleEnd schedules a debounced restart after natural termination.
func (m *Manager) HandleEnd(ev Event) {
	if !m.Current(ev) {
		return
	}
	m.capturing = false
	if !m.shouldRestart() {
		m.log.Debug("Recognition ended, not restarting", "wanted", m.wanted, "auto", m.autoRestart, "visible", m.visible)
		return
	}

	gen := m.gen
	m.stopTimer()
	m.timer = time.AfterFunc(m.delay, func() {
		m.post(Event{Kind: RestartDue, Gen: gen})
	})
}

// HandleRestartDue re-checks the restart conditions when the debounce
// timer fires.
func (m *Manager) HandleRestartDue(ev Event) error {
	if !m.Current(ev) || m.capturing || !m.shouldRestart() {
		return nil
	}
	return m.start()
}

// HandleError classifies an engine error. Terminal errors stop capture and
// block restarts until the next Begin.
func (m *Manager) HandleError(ev Event) ErrorClass {
	class := Classify(ev.Err)
	if class == Terminal {
		m.deny()
	}
	return class
}

// Close stops capture and unblocks any engine goroutine stuck on emit.
func (m *Manager) Close() {
	m.Halt()
	select {
	case <-m.quit:
	default:
		close(m.quit)
	}
}

func (m *Manager) shouldRestart() bool {
	return m.wanted && m.autoRestart && m.visible && !m.denied
}

func (m *Manager) deny() {
	m.denied = true
	m.wanted = false
	m.autoRestart = false
	m.stopCapture()
}

func (m *Manager) start() error {
	if m.capturing || !m.wanted || !m.visible {
		return nil
	}

	m.gen++
	gen := m.gen
	emit := func(ev Event) {
		ev.Gen = gen
		m.post(ev)
	}
	if err := m.engine.Start(m.lang, emit); err != nil {
		return fmt.Errorf("start recognition: %w", err)
	}
	m.capturing = true
	m.log.Debug("Recognition started", "lang", m.lang, "gen", gen)
	return nil
}

func (m *Manager) stopCapture() {
	m.stopTimer()
	m.gen++
	if !m.capturing {
		return
	}
	m.engine.Stop()
	m.capturing = false
	m.log.Debug("Recognition stopped")
}

func (m *Manager) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Manager) post(ev Event) {
	select {
	case m.events <- ev:
	case <-m.quit:
	}
}
