// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer decoders to audio.Source.
package pcm

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audtrim/utils"
)

// Reader is the subset of the go-audio wav and aiff decoders used by Source.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source streams a known number of interleaved samples out of a Reader.
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	bitDepth   int
	unsigned   bool
	frames     int64
	remaining  int64 // samples, not frames
	intBuf     *goaudio.IntBuffer
}

// Options describe the stream behind a Reader.
type Options struct {
	SampleRate int
	Channels   int
	BitDepth   int
	// Frames in the stream. Any trailing partial frame is not read.
	Frames int64
	// Unsigned is set for 8-bit WAV, whose samples are offset by 128.
	Unsigned bool
}

func New(dec Reader, opts Options) *Source {
	return &Source{
		dec:        dec,
		sampleRate: opts.SampleRate,
		channels:   opts.Channels,
		bitDepth:   opts.BitDepth,
		unsigned:   opts.Unsigned && opts.BitDepth == 8,
		frames:     opts.Frames,
		remaining:  opts.Frames * int64(opts.Channels),
	}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Frames() int64   { return s.frames }
func (s *Source) Close() error    { return nil }
func (s *Source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.remaining <= 0 {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	want := int(min(int64(len(dst)), s.remaining))
	if s.intBuf == nil || cap(s.intBuf.Data) < want {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, want),
			Format: &goaudio.Format{NumChannels: s.channels, SampleRate: s.sampleRate},
		}
	}
	s.intBuf.Data = s.intBuf.Data[:want]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		s.remaining = 0
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("reading pcm: %w", err)
		}
		// stream shorter than its header claims
		return 0, io.EOF
	}

	if s.unsigned {
		for i := range n {
			s.intBuf.Data[i] -= 128
		}
	}
	utils.IntToFloat32(dst, s.intBuf.Data[:n], s.bitDepth)
	s.remaining -= int64(n)

	if s.remaining <= 0 || err == io.EOF {
		s.remaining = 0
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("reading pcm: %w", err)
	}

	return n, nil
}
