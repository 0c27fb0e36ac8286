package audio

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"

	"newsvox/internal/i18n"
	"newsvox/internal/recog"
	"newsvox/pkg/audioconv"
	"newsvox/pkg/stt"
)

// Source yields one utterance worth of 16 kHz mono PCM per call.
type Source interface {
	Preflight() error
	Segment(stop <-chan struct{}, vad VAD) ([]float32, error)
}

type Transcriber interface {
	TranscribePCM(ctx context.Context, pcm16k []float32, opt stt.Options) (stt.Result, error)
}

// CaptureEngine is a continuous recognizer: each run captures utterances
// from its Source and transcribes them until the source goes idle.
type CaptureEngine struct {
	src     Source
	tr      Transcriber
	vad     VAD
	threads int
	log     *slog.Logger

	mu     sync.Mutex
	stop   chan struct{}
	cancel context.CancelFunc
}

var _ recog.Engine = (*CaptureEngine)(nil)

func NewCaptureEngine(src Source, tr Transcriber, vad VAD, threads int, log *slog.Logger) *CaptureEngine {
	if log == nil {
		log = slog.Default()
	}
	return &CaptureEngine{src: src, tr: tr, vad: vad, threads: threads, log: log}
}

func (e *CaptureEngine) Preflight(context.Context) error {
	return e.src.Preflight()
}

func (e *CaptureEngine) Start(lang string, emit func(recog.Event)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan struct{})
	e.stop, e.cancel = stop, cancel

	send := func(ev recog.Event) {
		if ctx.Err() == nil {
			emit(ev)
		}
	}

	go e.run(ctx, stop, i18n.Base(lang), send)
	return nil
}

func (e *CaptureEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *CaptureEngine) stopLocked() {
	if e.stop == nil {
		return
	}
	close(e.stop)
	e.cancel()
	e.stop, e.cancel = nil, nil
}

func (e *CaptureEngine) run(ctx context.Context, stop <-chan struct{}, lang string, send func(recog.Event)) {
	for {
		pcm, err := e.src.Segment(stop, e.vad)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			send(recog.Event{Kind: recog.Error, Err: err})
			send(recog.Event{Kind: recog.End})
			return
		}

		e.log.Debug("Captured segment", "samples", len(pcm))

		res, err := e.tr.TranscribePCM(ctx, pcm, stt.Options{Language: lang, Threads: e.threads})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			send(recog.Event{Kind: recog.Error, Err: err})
			continue
		}

		text := strings.TrimSpace(res.Text)
		if text == "" {
			continue
		}
		send(recog.Event{Kind: recog.Result, Transcript: text})
	}
}

// FileSource replays recorded utterances, one file per segment, and then
// stays silent. It stands in for the microphone on machines without one.
type FileSource struct {
	mu    sync.Mutex
	files []string
	next  int
}

var _ Source = (*FileSource)(nil)

func NewFileSource(files []string) *FileSource {
	return &FileSource{files: append([]string(nil), files...)}
}

func (f *FileSource) Preflight() error {
	if len(f.files) == 0 {
		return errors.New("no replay files configured")
	}
	for _, path := range f.files {
		if _, err := os.Stat(path); err != nil {
			return err
		}
	}
	return nil
}

func (f *FileSource) Segment(stop <-chan struct{}, vad VAD) ([]float32, error) {
	f.mu.Lock()
	if f.next >= len(f.files) {
		f.mu.Unlock()
		<-stop
		return nil, recog.ErrAborted
	}
	path := f.files[f.next]
	f.next++
	f.mu.Unlock()

	opt := audioconv.Options{}
	if vad.MaxUtterance > 0 {
		opt.MaxSamples = int(vad.MaxUtterance.Seconds() * SampleRate)
	}
	return audioconv.ConvertFileToPCM16k(context.Background(), path, opt)
}
