package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const maxVolume = 150

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

// SinkInput is one playback stream known to the sound server.
type SinkInput struct {
	ID      int
	Volume  int
	AppName string
}

type Mixer interface {
	SinkInputs(ctx context.Context) ([]SinkInput, error)
	SetVolume(ctx context.Context, id, percent int) error
}

// Pactl drives PulseAudio/PipeWire through the pactl tool.
type Pactl struct{}

func (Pactl) SinkInputs(ctx context.Context) ([]SinkInput, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}
	return ParseSinkInputs(string(out)), nil
}

func (Pactl) SetVolume(ctx context.Context, id, percent int) error {
	arg := fmt.Sprintf("%d%%", clampVolume(percent))
	return exec.CommandContext(ctx, "pactl", "set-sink-input-volume", strconv.Itoa(id), arg).Run()
}

// ParseSinkInputs reads `pactl list sink-inputs` output. Blocks without a
// volume or an application name are skipped.
func ParseSinkInputs(text string) []SinkInput {
	parts := strings.Split(text, "Sink Input #")
	var res []SinkInput

	for _, block := range parts[1:] {
		header, body, ok := strings.Cut(block, "\n")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(header))
		if err != nil {
			continue
		}

		s := SinkInput{ID: id}
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)

			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); m != nil {
					s.Volume, _ = strconv.Atoi(m[1])
				}
			}

			// application.name = "Firefox"
			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				_, rest, _ := strings.Cut(line, `"`)
				s.AppName, _, _ = strings.Cut(rest, `"`)
			}
		}

		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}

	return res
}

type DuckConfig struct {
	// Self lists application names that are never ducked.
	Self []string
	// Factor scales the volume of other streams; Floor is the lowest
	// percentage they are taken to.
	Factor float64
	Floor  int
	Fade   time.Duration
}

// Ducker lowers other playback while the daemon speaks and restores it
// afterwards.
type Ducker struct {
	mixer Mixer
	cfg   DuckConfig

	mu     sync.Mutex
	active bool
	saved  map[int]int
}

func NewDucker(mixer Mixer, cfg DuckConfig) *Ducker {
	if mixer == nil {
		mixer = Pactl{}
	}
	cfg.Floor = clampVolume(cfg.Floor)
	if cfg.Factor <= 0 || cfg.Factor > 1 {
		cfg.Factor = 0.3
	}
	return &Ducker{mixer: mixer, cfg: cfg, saved: map[int]int{}}
}

type fade struct {
	id       int
	from, to int
}

func (d *Ducker) Duck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := d.mixer.SinkInputs(ctx)
	if err != nil {
		return err
	}

	d.saved = map[int]int{}
	var fades []fade
	for _, s := range d.others(streams) {
		to := int(math.Round(float64(s.Volume) * d.cfg.Factor))
		if to < d.cfg.Floor {
			to = d.cfg.Floor
		}
		d.saved[s.ID] = s.Volume
		fades = append(fades, fade{id: s.ID, from: s.Volume, to: clampVolume(to)})
	}

	if err := d.fade(ctx, fades); err != nil {
		return err
	}
	d.active = true
	return nil
}

// Restore fades ducked streams back. Streams that appeared after Duck are
// left alone.
func (d *Ducker) Restore(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	streams, err := d.mixer.SinkInputs(ctx)
	if err != nil {
		return err
	}

	var fades []fade
	for _, s := range d.others(streams) {
		if orig, ok := d.saved[s.ID]; ok {
			fades = append(fades, fade{id: s.ID, from: s.Volume, to: orig})
		}
	}

	if err := d.fade(ctx, fades); err != nil {
		return err
	}
	d.saved = map[int]int{}
	d.active = false
	return nil
}

func (d *Ducker) others(streams []SinkInput) []SinkInput {
	out := streams[:0:0]
	for _, s := range streams {
		self := false
		for _, name := range d.cfg.Self {
			if s.AppName == name {
				self = true
				break
			}
		}
		if !self {
			out = append(out, s)
		}
	}
	return out
}

func (d *Ducker) fade(ctx context.Context, fades []fade) error {
	if len(fades) == 0 {
		return nil
	}

	const minStep = 10 * time.Millisecond

	steps := int(d.cfg.Fade / minStep)
	if steps < 1 {
		steps = 1
	}
	stepDur := d.cfg.Fade / time.Duration(steps)

	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frac := float64(i) / float64(steps)
		for _, f := range fades {
			v := int(math.Round(float64(f.from) + float64(f.to-f.from)*frac))
			if err := d.mixer.SetVolume(ctx, f.id, v); err != nil {
				return fmt.Errorf("set volume id=%d: %w", f.id, err)
			}
		}

		if i < steps && stepDur > 0 {
			time.Sleep(stepDur)
		}
	}
	return nil
}

func clampVolume(v int) int {
	return max(0, min(v, maxVolume))
}
