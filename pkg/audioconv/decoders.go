package audioconv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

func decodeWAV(r io.ReadSeeker) (clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return clip{}, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return clip{}, err
	}
	if pb == nil || len(pb.Data) == 0 {
		return clip{}, errors.New("empty wav")
	}

	bits := int(dec.BitDepth)
	if bits == 0 {
		bits = 16
	}
	c := clip{samples: normalize(pb.Data, bits), channels: 1, rate: 44100}
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			c.channels = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			c.rate = pb.Format.SampleRate
		}
	}
	return c, nil
}

func decodeMP3(r io.ReadSeeker) (clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return clip{}, err
	}
	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return clip{}, err
	}
	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(bytes.NewReader(raw.Bytes()), binary.LittleEndian, &ints); err != nil {
		return clip{}, err
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	// go-mp3 always yields interleaved stereo.
	return clip{samples: normalize(ints, 16), channels: 2, rate: rate}, nil
}

func decodeOggVorbis(r io.ReadSeeker) (clip, error) {
	pcm, f, err := oggvorbis.ReadAll(r)
	if err != nil {
		return clip{}, err
	}
	if f == nil || f.Channels <= 0 || f.SampleRate <= 0 {
		return clip{}, errors.New("invalid ogg/vorbis stream")
	}
	return clip{samples: pcm, channels: f.Channels, rate: f.SampleRate}, nil
}

func decodeOggOpus(r io.ReadSeeker) (clip, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return clip{}, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	// int16 at 48 kHz, about half a second per read.
	var (
		ints []int16
		buf  = make([]int16, 48_000*ch/2)
	)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			ints = append(ints, buf[:n*ch]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return clip{}, err
		}
	}
	if len(ints) == 0 {
		return clip{}, errors.New("empty opus stream")
	}
	return clip{samples: normalize(ints, 16), channels: ch, rate: 48000}, nil
}
