package audioconv

import "math"

// clip is decoded, interleaved PCM scaled to [-1, 1].
type clip struct {
	samples  []float32
	channels int
	rate     int
}

func (c clip) frames() int {
	return len(c.samples) / c.channels
}

// mono averages the channels of frame i.
func (c clip) mono(i int) float32 {
	if c.channels == 1 {
		return c.samples[i]
	}
	var sum float32
	for _, v := range c.samples[i*c.channels : (i+1)*c.channels] {
		sum += v
	}
	return sum / float32(c.channels)
}

// normalize scales signed integer samples of the given bit depth to
// [-1, 1].
func normalize[T int | int16](data []T, bits int) []float32 {
	full := float64(int64(1) << (bits - 1))
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(math.Max(-1, math.Min(float64(v)/full, 1)))
	}
	return out
}

// finish downmixes c and resamples it to TargetRate by linear
// interpolation in one pass, stopping at opt.MaxSamples.
func finish(c clip, opt Options) []float32 {
	if c.channels <= 0 {
		c.channels = 1
	}
	n := c.frames()
	if n == 0 {
		return nil
	}

	step := float64(c.rate) / TargetRate
	size := n
	if c.rate != TargetRate {
		size = int(math.Ceil(float64(n) / step))
	}
	if opt.MaxSamples > 0 && size > opt.MaxSamples {
		size = opt.MaxSamples
	}

	out := make([]float32, size)
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= n-1 {
			out[i] = c.mono(n - 1)
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = c.mono(j)*(1-frac) + c.mono(j+1)*frac
	}
	return out
}
