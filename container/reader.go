// SPDX-License-Identifier: EPL-2.0

package container

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ik5/audtrim/audio"
)

type fileReader struct {
	src          audio.Source
	file         io.Closer
	duration     time.Duration
	bufferFrames int

	mu      sync.Mutex
	status  Status
	err     error
	pos     int64 // frames delivered
	drained bool
	closed  bool
}

func newFileReader(src audio.Source, file io.Closer, duration time.Duration, bufferFrames int) *fileReader {
	return &fileReader{
		src:          src,
		file:         file,
		duration:     duration,
		bufferFrames: bufferFrames,
		status:       Reading,
	}
}

func (r *fileReader) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status
}

func (r *fileReader) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

func (r *fileReader) Duration() time.Duration { return r.duration }

// finish moves the reader to a terminal status. Later calls are ignored.
// Callers hold mu.
func (r *fileReader) finish(s Status, err error) {
	if r.status != Reading {
		return
	}
	r.status = s
	r.err = err
}

// Next returns a newly allocated buffer each call, so buffers may be handed
// to another goroutine. The status stays Reading while the last buffer is
// returned and turns terminal on the following call.
func (r *fileReader) Next() (*Buffer, bool) {
	r.mu.Lock()
	if r.status != Reading {
		r.mu.Unlock()
		return nil, false
	}
	if r.drained {
		r.finish(Completed, nil)
		r.mu.Unlock()
		return nil, false
	}
	r.mu.Unlock()

	channels := r.src.Channels()
	samples := make([]float32, r.bufferFrames*channels)

	n, err := r.src.ReadSamples(samples)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != Reading {
		return nil, false
	}

	eof := errors.Is(err, io.EOF)
	if err != nil && !eof {
		r.finish(Failed, fmt.Errorf("reading samples: %w", err))
		return nil, false
	}
	// an empty read without an error also ends the stream
	if n == 0 {
		r.finish(Completed, nil)
		return nil, false
	}
	r.drained = eof

	buf := &Buffer{
		Samples:    samples[:n-n%channels],
		Channels:   channels,
		SampleRate: r.src.SampleRate(),
		PTS:        audio.FramesToDuration(r.pos, r.src.SampleRate()),
	}
	r.pos += int64(buf.Frames())

	return buf, true
}

func (r *fileReader) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.finish(Cancelled, nil)
}

func (r *fileReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.finish(Cancelled, nil)

	srcErr := r.src.Close()
	fileErr := r.file.Close()
	if err := errors.Join(srcErr, fileErr); err != nil {
		return fmt.Errorf("closing reader: %w", err)
	}

	return nil
}
