// Package audioconv decodes wav, mp3 and ogg (vorbis or opus) files into
// 16 kHz mono float32 PCM, the input whisper expects.
package audioconv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const TargetRate = 16000

type Options struct {
	MaxSamples int
}

type decodeFunc func(r io.ReadSeeker) (clip, error)

type format struct {
	name     string
	exts     []string
	magic    string
	decoders []decodeFunc
}

var formats = []format{
	{name: "wav", exts: []string{".wav"}, magic: "RIFF", decoders: []decodeFunc{decodeWAV}},
	{name: "mp3", exts: []string{".mp3"}, magic: "ID3", decoders: []decodeFunc{decodeMP3}},
	{name: "ogg", exts: []string{".ogg", ".oga", ".opus"}, magic: "OggS", decoders: []decodeFunc{decodeOggVorbis, decodeOggOpus}},
}

var ErrUnsupported = errors.New("unsupported audio format")

func ConvertFileToPCM16k(_ context.Context, path string, opt Options) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f, filepath.Ext(path), opt)
}

// Decode picks a format by extension, falling back to sniffing the first
// bytes, and resamples the result to TargetRate.
func Decode(r io.ReadSeeker, ext string, opt Options) ([]float32, error) {
	fm, err := pick(r, strings.ToLower(ext))
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, dec := range fm.decoders {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		c, err := dec(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return finish(c, opt), nil
	}
	return nil, fmt.Errorf("decode %s: %w", fm.name, errors.Join(errs...))
}

func pick(r io.ReadSeeker, ext string) (format, error) {
	for _, fm := range formats {
		for _, e := range fm.exts {
			if e == ext {
				return fm, nil
			}
		}
	}

	magic, _ := bufio.NewReader(r).Peek(4)
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return format{}, err
	}
	for _, fm := range formats {
		if strings.HasPrefix(string(magic), fm.magic) {
			return fm, nil
		}
	}
	return format{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
}
