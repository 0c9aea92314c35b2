// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Window restricts a source to the frames inside [start, end).
// Frames before start are read and discarded in bounded chunks, so the
// wrapped source is never loaded into memory as a whole.
type Window struct {
	src      Source
	channels int

	skip      int64 // frames still to discard
	remaining int64 // frames still to deliver
	total     int64

	scratch []float32
	eof     bool
}

// NewWindow restricts src to the time range [start, end).
// The range is converted to frames at the source rate, rounding down.
func NewWindow(src Source, start, end time.Duration) (*Window, error) {
	if src.SampleRate() <= 0 {
		return nil, ErrInvalidRate
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		return nil, fmt.Errorf("%w: %v > %v", ErrInvalidRange, start, end)
	}

	first := DurationToFrames(start, src.SampleRate())
	last := DurationToFrames(end, src.SampleRate())

	if sized, ok := src.(Sized); ok {
		last = min(last, sized.Frames())
		first = min(first, last)
	}

	channels := src.Channels()

	return &Window{
		src:       src,
		channels:  channels,
		skip:      first,
		remaining: last - first,
		total:     last - first,
		scratch:   make([]float32, 1024*channels),
	}, nil
}

func (w *Window) SampleRate() int { return w.src.SampleRate() }
func (w *Window) Channels() int   { return w.channels }
func (w *Window) BufSize() int    { return w.src.BufSize() }

// Frames is the length of the window once start and end were resolved.
func (w *Window) Frames() int64 { return w.total }

func (w *Window) Close() error {
	if err := w.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (w *Window) discard() error {
	for w.skip > 0 && !w.eof {
		frames := min(w.skip, int64(len(w.scratch)/w.channels))
		n, err := w.src.ReadSamples(w.scratch[:frames*int64(w.channels)])
		w.skip -= int64(n / w.channels)

		if errors.Is(err, io.EOF) {
			w.eof = true
		} else if err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

func (w *Window) ReadSamples(dst []float32) (int, error) {
	if len(dst)%w.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if err := w.discard(); err != nil {
		return 0, err
	}

	if w.remaining <= 0 || w.eof {
		return 0, io.EOF
	}

	frames := min(int64(len(dst)/w.channels), w.remaining)
	n, err := w.src.ReadSamples(dst[:frames*int64(w.channels)])
	n -= n % w.channels
	w.remaining -= int64(n / w.channels)

	if errors.Is(err, io.EOF) {
		w.eof = true
	} else if err != nil {
		return n, fmt.Errorf("%w", err)
	}

	if w.remaining <= 0 || w.eof {
		return n, io.EOF
	}

	return n, nil
}
