package audioconv

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, path string, rate, channels int, samples []int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           samples,
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func TestConvertWAVResamplesAndDownmixes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")

	// 0.1s of stereo at 32 kHz, left at half scale, right silent.
	samples := make([]int, 2*3200)
	for i := 0; i < len(samples); i += 2 {
		samples[i] = 16384
	}
	writeWAV(t, path, 32000, 2, samples)

	pcm, err := ConvertFileToPCM16k(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Len(t, pcm, 1600)
	assert.InDelta(t, 0.25, pcm[10], 0.001)
}

func TestConvertSniffsWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.wav")
	writeWAV(t, src, 16000, 1, make([]int, 800))

	raw, err := os.ReadFile(src)
	require.NoError(t, err)
	dst := filepath.Join(dir, "clip.bin")
	require.NoError(t, os.WriteFile(dst, raw, 0o600))

	pcm, err := ConvertFileToPCM16k(context.Background(), dst, Options{MaxSamples: 500})
	require.NoError(t, err)
	assert.Len(t, pcm, 500)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("hello world")), ".txt", Options{})
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestFinish(t *testing.T) {
	stereo := clip{samples: []float32{1, 0, 0, 0}, channels: 2, rate: TargetRate}
	assert.Equal(t, []float32{0.5, 0}, finish(stereo, Options{}))

	assert.Len(t, finish(clip{samples: make([]float32, 480), channels: 1, rate: 48000}, Options{}), 160)
	assert.Len(t, finish(clip{samples: make([]float32, 480), channels: 1, rate: 48000}, Options{MaxSamples: 100}), 100)
	assert.Nil(t, finish(clip{rate: 8000}, Options{}))

	// 8 kHz doubles, interpolating between neighbours.
	up := finish(clip{samples: []float32{0, 1}, channels: 1, rate: 8000}, Options{})
	assert.Equal(t, []float32{0, 0.5, 1, 1}, up)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []float32{-1, 0, 0.5}, normalize([]int16{-32768, 0, 16384}, 16))
	assert.Equal(t, []float32{1}, normalize([]int{1 << 24}, 24))
}
