// Package audio captures microphone input and turns it into recognition
// events, and ducks other playback while the daemon speaks.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"newsvox/internal/recog"
)

const (
	SampleRate = 16000
	frameSize  = 320 // 20ms
)

// VAD holds the energy-based endpointing knobs.
type VAD struct {
	SilenceRMS   float64
	Silence      time.Duration
	MaxUtterance time.Duration
	// IdleTimeout ends a capture run when nobody speaks; 0 waits forever.
	IdleTimeout time.Duration
}

func DefaultVAD() VAD {
	return VAD{
		SilenceRMS:   0.015,
		Silence:      600 * time.Millisecond,
		MaxUtterance: 10 * time.Second,
		IdleTimeout:  8 * time.Second,
	}
}

// Recorder reads the default input device. Only one segment is captured at
// a time.
type Recorder struct {
	mu sync.Mutex
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Preflight checks that an input device exists and can be opened.
func (r *Recorder) Preflight() error {
	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return fmt.Errorf("%w: %v", recog.ErrPermission, err)
	}
	if dev.MaxInputChannels < 1 {
		return fmt.Errorf("%w: %s has no input channels", recog.ErrPermission, dev.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	buf := make([]float32, frameSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", recog.ErrPermission, dev.Name, err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("%w: start %s: %v", recog.ErrPermission, dev.Name, err)
	}
	return stream.Stop()
}

// Segment records one utterance. It returns recog.ErrNoSpeech when the
// idle timeout passes without speech and recog.ErrAborted when stop closes.
func (r *Recorder) Segment(stop <-chan struct{}, vad VAD) ([]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	seg := newSegmenter(vad, time.Second*frameSize/SampleRate)
	for {
		select {
		case <-stop:
			return nil, recog.ErrAborted
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("read stream: %w", err)
		}

		done, err := seg.push(buf)
		if err != nil {
			return nil, err
		}
		if done {
			return seg.out, nil
		}
	}
}

// segmenter is the endpointing state machine behind Segment: leading
// silence counts toward the idle timeout, trailing silence ends the segment.
type segmenter struct {
	vad      VAD
	frameDur time.Duration

	speaking bool
	silent   time.Duration
	idle     time.Duration
	length   time.Duration
	out      []float32
}

func newSegmenter(vad VAD, frameDur time.Duration) *segmenter {
	return &segmenter{
		vad:      vad,
		frameDur: frameDur,
		out:      make([]float32, 0, SampleRate*3),
	}
}

func (s *segmenter) push(frame []float32) (bool, error) {
	loud := frameRMS(frame) > s.vad.SilenceRMS

	if !s.speaking && !loud {
		s.idle += s.frameDur
		if s.vad.IdleTimeout > 0 && s.idle >= s.vad.IdleTimeout {
			return false, recog.ErrNoSpeech
		}
		return false, nil
	}

	s.speaking = true
	s.out = append(s.out, frame...)
	s.length += s.frameDur

	if loud {
		s.silent = 0
	} else {
		s.silent += s.frameDur
		if s.silent >= s.vad.Silence {
			return true, nil
		}
	}

	return s.vad.MaxUtterance > 0 && s.length >= s.vad.MaxUtterance, nil
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
