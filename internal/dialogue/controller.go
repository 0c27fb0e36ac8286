// Package dialogue runs the listening session: it turns recognition events
// and UI commands into state transitions, speech and UI updates.
package dialogue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"newsvox/internal/ai"
	"newsvox/internal/i18n"
	"newsvox/internal/news"
	"newsvox/internal/nlu"
	"newsvox/internal/recog"
)

// Speaker is the voice output. Calls must not block.
type Speaker interface {
	SetLanguage(lang string)
	Speak(text string)
	SpeakSequence(items []string)
	Cancel()
}

// Notifier is the visual side of the session.
type Notifier interface {
	Toast(msg string)
	ShowArticles(set news.Set)
	ShowOutput(index int, text string)
	OpenLink(url string)
	SetMic(state MicState)
}

const (
	CueStart = "start"
	CueStop  = "stop"
)

type CuePlayer interface {
	Play(cue string)
}

// languageSetter is implemented by gateways that localize their results.
type languageSetter interface {
	SetLanguage(lang string)
}

var ErrStopped = errors.New("dialogue stopped")

type Deps struct {
	Engine   recog.Engine
	Speaker  Speaker
	News     news.Gateway
	AI       ai.Generator
	Notifier Notifier
	Cues     CuePlayer
	Vocab    nlu.Vocabulary
	Catalog  i18n.Catalog
	Log      *slog.Logger
}

type Options struct {
	Language          string
	RestartDelay      time.Duration
	ListenWhilePaused bool
	RequestTimeout    time.Duration
}

func DefaultOptions() Options {
	return Options{
		Language:          "en-US",
		RestartDelay:      recog.DefaultRestartDelay,
		ListenWhilePaused: true,
		RequestTimeout:    30 * time.Second,
	}
}

type fetchDone struct {
	seq      uint64
	category string
	query    string
	set      news.Set
	err      error
}

type aiDone struct {
	seq   uint64
	gen   uint64
	index int
	op    ai.Op
	text  string
	err   error
}

// Controller owns the Session and the current article set. Everything
// except Post runs on the goroutine that called Run.
type Controller struct {
	deps Deps
	opts Options
	log  *slog.Logger

	rec        *recog.Manager
	classifier *nlu.Classifier
	resolver   *nlu.Resolver

	session  Session
	articles news.Set

	// fetchSeq identifies the latest dispatched fetch; setGen the stored
	// article set; aiSeq the last Stop. Completions carrying an older value
	// are dropped.
	fetchSeq uint64
	setGen   uint64
	aiSeq    uint64

	recogEvents chan recog.Event
	commands    chan Command
	fetches     chan fetchDone
	answers     chan aiDone
	done        chan struct{}
}

func NewController(deps Deps, opts Options) *Controller {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Catalog == nil {
		deps.Catalog = i18n.DefaultCatalog()
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Speaker == nil {
		deps.Speaker = nopSpeaker{}
	}
	if deps.Cues == nil {
		deps.Cues = nopCues{}
	}
	if opts.Language == "" {
		opts.Language = "en-US"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultOptions().RequestTimeout
	}

	c := &Controller{
		deps:        deps,
		opts:        opts,
		log:         deps.Log,
		classifier:  nlu.NewClassifier(deps.Vocab),
		resolver:    nlu.NewResolver(deps.Vocab),
		session:     Session{LanguageKey: opts.Language},
		articles:    news.Set{},
		recogEvents: make(chan recog.Event, 32),
		commands:    make(chan Command, 16),
		fetches:     make(chan fetchDone, 4),
		answers:     make(chan aiDone, 4),
		done:        make(chan struct{}),
	}
	c.rec = recog.NewManager(deps.Engine, c.recogEvents, opts.RestartDelay, deps.Log.With("component", "recog"))
	c.rec.SetListenWhilePaused(opts.ListenWhilePaused)

	c.applyLanguage(opts.Language)
	return c
}

// Post queues a command for the session goroutine.
func (c *Controller) Post(ctx context.Context, cmd Command) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}

	select {
	case c.commands <- cmd:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events strictly one at a time until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer c.shutdown()

	c.log.Info("Session loop running", "lang", c.session.LanguageKey)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.recogEvents:
			c.handleRecognition(ctx, ev)
		case cmd := <-c.commands:
			c.handleCommand(ctx, cmd)
		case r := <-c.fetches:
			c.applyFetch(r)
		case r := <-c.answers:
			c.applyAnswer(r)
		}
	}
}

func (c *Controller) shutdown() {
	close(c.done)
	c.rec.Close()
	c.deps.Speaker.Cancel()
	c.log.Info("Session loop stopped")
}

func (c *Controller) status() Status {
	return Status{
		Session:   c.session,
		Mic:       c.session.Mic(),
		Articles:  len(c.articles),
		Capturing: c.rec.Capturing(),
	}
}

func (c *Controller) text(key string, args ...any) string {
	return c.deps.Catalog.Text(c.session.LanguageKey, key, args...)
}

func (c *Controller) say(key string, args ...any) {
	c.deps.Speaker.Speak(c.text(key, args...))
}

func (c *Controller) applyLanguage(lang string) {
	c.session.LanguageKey = lang
	c.deps.Speaker.SetLanguage(lang)
	if ls, ok := c.deps.News.(languageSetter); ok {
		ls.SetLanguage(lang)
	}
}

type nopNotifier struct{}

func (nopNotifier) Toast(string)           {}
func (nopNotifier) ShowArticles(news.Set)  {}
func (nopNotifier) ShowOutput(int, string) {}
func (nopNotifier) OpenLink(string)        {}
func (nopNotifier) SetMic(MicState)        {}

type nopSpeaker struct{}

func (nopSpeaker) SetLanguage(string)     {}
func (nopSpeaker) Speak(string)           {}
func (nopSpeaker) SpeakSequence([]string) {}
func (nopSpeaker) Cancel()                {}

type nopCues struct{}

func (nopCues) Play(string) {}
