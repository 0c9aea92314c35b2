// SPDX-License-Identifier: EPL-2.0

// Package container abstracts reading a track of a PCM container over a
// time range and writing a new container from buffers.
package container

import (
	"time"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/preset"
	"github.com/ik5/audtrim/selection"
)

// Status of a Reader. A reader starts in Reading and moves to one of the
// terminal states exactly once.
type Status int

const (
	Unknown Status = iota
	Reading
	Completed
	Failed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Reading:
		return "reading"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Format of an output container.
type Format string

const WAV Format = "wav"

// Buffer is a run of interleaved samples starting at PTS within the read range.
type Buffer struct {
	Samples    []float32
	Channels   int
	SampleRate int
	PTS        time.Duration
}

func (b *Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

func (b *Buffer) Duration() time.Duration {
	return audio.FramesToDuration(int64(b.Frames()), b.SampleRate)
}

// Reader yields buffers of one track until Next reports false, after which
// Status is terminal.
type Reader interface {
	Next() (*Buffer, bool)
	Status() Status
	Err() error
	// Duration of the range being read.
	Duration() time.Duration
	// Cancel stops reading. Status becomes Cancelled unless already terminal.
	Cancel()
	Close() error
}

// Writer builds one output container from appended buffers.
type Writer interface {
	AddInput(settings preset.Settings) error
	StartWriting() error
	Append(buf *Buffer) error
	// MarkFinished tells the writer no more buffers follow.
	MarkFinished()
	// EndSession trims the output to end at d.
	EndSession(d time.Duration)
	Finalize() error
	// Cancel discards everything written so far.
	Cancel() error
}

// Opener creates readers and writers. Output settings for a reader convert
// the track on the fly; the zero Settings passes it through unchanged.
type Opener interface {
	OpenReader(path string, track int, rng selection.TimeRange, output preset.Settings) (Reader, error)
	OpenWriter(path string, format Format) (Writer, error)
}
