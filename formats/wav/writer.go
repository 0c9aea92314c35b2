// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/utils"
)

// Writer streams interleaved PCM into a WAV container. The RIFF and data
// chunk sizes are patched on Close, so the destination must be seekable.
type Writer struct {
	enc      *gowav.Encoder
	buf      *goaudio.IntBuffer
	bitDepth int
	channels int
	rate     int
	samples  int64
	closed   bool
}

// NewWriter writes the header immediately, so a Writer closed without any
// samples still leaves a valid, empty WAV file behind.
func NewWriter(w io.WriteSeeker, sampleRate, bitDepth, channels int) (*Writer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, ErrInvalidFormat
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrInvalidFormat, bitDepth)
	}

	wr := &Writer{
		enc:      gowav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM),
		bitDepth: bitDepth,
		channels: channels,
		rate:     sampleRate,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}

	if err := wr.enc.Write(wr.buf); err != nil {
		return nil, fmt.Errorf("writing wav header: %w", err)
	}

	return wr, nil
}

// WriteSamples appends normalized float samples, clamping anything outside [-1,1].
func (w *Writer) WriteSamples(samples []float32) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(samples) == 0 {
		return nil
	}

	w.grow(len(samples))
	if w.bitDepth == 16 {
		utils.Float32ToInt(w.buf.Data, samples)
	} else {
		scale := utils.FullScale(w.bitDepth) - 1
		for i, s := range samples {
			w.buf.Data[i] = int(max(-1, min(1, s)) * scale)
		}
	}

	return w.flush()
}

// WriteInt16 appends raw 16-bit samples. Other bit depths are rescaled.
func (w *Writer) WriteInt16(samples []int16) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(samples) == 0 {
		return nil
	}

	w.grow(len(samples))
	shift := w.bitDepth - 16
	for i, s := range samples {
		switch {
		case shift > 0:
			w.buf.Data[i] = int(s) << shift
		case shift < 0:
			w.buf.Data[i] = int(s) >> -shift
		default:
			w.buf.Data[i] = int(s)
		}
	}

	return w.flush()
}

func (w *Writer) grow(n int) {
	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]
}

func (w *Writer) flush() error {
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	w.samples += int64(len(w.buf.Data))

	return nil
}

// Frames written so far.
func (w *Writer) Frames() int64 { return w.samples / int64(w.channels) }

// Duration of the audio written so far.
func (w *Writer) Duration() time.Duration {
	return audio.FramesToDuration(w.Frames(), w.rate)
}

// Close patches the chunk sizes. It does not close the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}

	return nil
}
