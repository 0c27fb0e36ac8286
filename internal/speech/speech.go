// Package speech serializes spoken feedback so utterances never overlap.
package speech

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"newsvox/internal/i18n"
)

// Voice is one synthetic voice offered by a Synth.
type Voice struct {
	Name string
	Lang string
}

// Utterance is a single piece of text handed to the synthesizer.
type Utterance struct {
	Text  string
	Lang  string
	Voice *Voice
}

// Synth is a speech engine. Speak blocks until playback finishes or ctx is
// cancelled, in which case playback must stop promptly.
type Synth interface {
	Voices() []Voice
	Speak(ctx context.Context, u Utterance) error
}

const DefaultGap = 600 * time.Millisecond

type job struct {
	ctx   context.Context
	items []string
	lang  string
	voice *Voice
}

// Sequencer owns one worker goroutine. Every Speak or SpeakSequence call
// cancels whatever is playing or queued before enqueuing its own text.
type Sequencer struct {
	synth Synth
	gap   time.Duration
	log   *slog.Logger

	mu     sync.Mutex
	lang   string
	voice  *Voice
	cancel context.CancelFunc

	jobs chan job
	done chan struct{}
}

func NewSequencer(synth Synth, gap time.Duration, log *slog.Logger) *Sequencer {
	if gap <= 0 {
		gap = DefaultGap
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Sequencer{
		synth: synth,
		gap:   gap,
		log:   log,
		lang:  "en-US",
		jobs:  make(chan job, 1),
		done:  make(chan struct{}),
	}
	if synth != nil {
		s.voice = matchVoice(synth.Voices(), s.lang)
		go s.run()
	}

	return s
}

// SetLanguage changes the tag for later utterances and re-resolves the
// voice.
func (s *Sequencer) SetLanguage(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lang = lang
	if s.synth != nil {
		s.voice = matchVoice(s.synth.Voices(), lang)
	}
}

func (s *Sequencer) Voice() *Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voice
}

// Speak never blocks the caller.
func (s *Sequencer) Speak(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.enqueue([]string{text})
}

// SpeakSequence reads items one after another with the configured gap
// between them. A later Speak, SpeakSequence or Cancel interrupts it.
func (s *Sequencer) SpeakSequence(items []string) {
	if len(items) == 0 {
		return
	}
	s.enqueue(append([]string(nil), items...))
}

// Cancel silences current speech and drops anything queued.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Close stops the worker. The Sequencer is unusable afterwards.
func (s *Sequencer) Close() {
	s.Cancel()
	if s.synth == nil {
		return
	}
	s.mu.Lock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.mu.Unlock()
}

func (s *Sequencer) enqueue(items []string) {
	if s.synth == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return
	default:
	}

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	j := job{ctx: ctx, items: items, lang: s.lang, voice: s.voice}

	// The slot holds at most one pending job; a newer one replaces it.
	select {
	case <-s.jobs:
	default:
	}
	s.jobs <- j
}

func (s *Sequencer) run() {
	for {
		select {
		case <-s.done:
			return
		case j := <-s.jobs:
			s.play(j)
		}
	}
}

func (s *Sequencer) play(j job) {
	for i, text := range j.items {
		if i > 0 {
			t := time.NewTimer(s.gap)
			select {
			case <-j.ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
		if j.ctx.Err() != nil {
			return
		}

		err := s.synth.Speak(j.ctx, Utterance{Text: text, Lang: j.lang, Voice: j.voice})
		if err != nil && j.ctx.Err() == nil {
			s.log.Warn("Speech failed", "err", err)
		}
	}
}

// matchVoice picks the first voice whose language shares lang's prefix.
func matchVoice(voices []Voice, lang string) *Voice {
	prefix := i18n.Base(lang)
	for i := range voices {
		if strings.HasPrefix(strings.ToLower(voices[i].Lang), prefix) {
			v := voices[i]
			return &v
		}
	}
	return nil
}
