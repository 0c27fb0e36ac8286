// Package notify holds the non-speech outputs of the daemon: cue sounds,
// desktop notifications, log rendering and the UI bus adapter.
package notify

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

const cueRate = beep.SampleRate(44100)

// Cues plays short mp3 sounds by name. Cue files are optional: a missing
// one is skipped silently.
type Cues struct {
	log     *slog.Logger
	buffers map[string]*beep.Buffer

	initOnce sync.Once
	initErr  error
}

func LoadCues(paths map[string]string, log *slog.Logger) (*Cues, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Cues{log: log, buffers: make(map[string]*beep.Buffer, len(paths))}

	for name, path := range paths {
		if path == "" {
			continue
		}
		buf, err := loadCue(path)
		if os.IsNotExist(err) {
			log.Debug("Cue file missing", "cue", name, "path", path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cue %s: %w", name, err)
		}
		c.buffers[name] = buf
	}
	return c, nil
}

func loadCue(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()

	out := beep.Format{SampleRate: cueRate, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(out)
	buf.Append(beep.Resample(4, format.SampleRate, cueRate, streamer))
	return buf, nil
}

// Play starts the cue and returns immediately.
func (c *Cues) Play(cue string) {
	buf, ok := c.buffers[cue]
	if !ok {
		return
	}

	c.initOnce.Do(func() {
		c.initErr = speaker.Init(cueRate, cueRate.N(time.Second/10))
	})
	if c.initErr != nil {
		c.log.Warn("Audio output unavailable", "err", c.initErr)
		return
	}

	speaker.Play(buf.Streamer(0, buf.Len()))
}

// Has reports whether cue was loaded.
func (c *Cues) Has(cue string) bool {
	_, ok := c.buffers[cue]
	return ok
}
