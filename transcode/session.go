// SPDX-License-Identifier: EPL-2.0

package transcode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/audtrim/container"
	"github.com/ik5/audtrim/selection"
)

// State of a Session. It only moves forward.
type State int

const (
	Idle State = iota
	Reading
	Finished
	Failed
)

func (s State) String() string {
	switch s {
	case Reading:
		return "reading"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Result is the single outcome of a Session. Err is nil exactly when State
// is Finished.
type Result struct {
	State  State
	Output string
	// Duration the output was ended at. Zero on failure.
	Duration time.Duration
	Err      error
}

func (r Result) Finished() bool { return r.State == Finished }

// Session is one export in flight. It owns its reader and writer.
type Session struct {
	Source string
	Output string
	Range  selection.TimeRange

	reader  container.Reader
	writer  container.Writer
	pending int
	logger  *zap.SugaredLogger
	release func()

	done chan Result

	mu     sync.Mutex
	state  State
	result Result
}

// Done yields the Result once and is then closed.
func (s *Session) Done() <-chan Result { return s.done }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Wait blocks until the session ends or ctx is done. It may be called
// after the Result was already taken from Done.
func (s *Session) Wait(ctx context.Context) (Result, error) {
	select {
	case r, ok := <-s.done:
		if !ok {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.result, nil
		}
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// pump moves reader buffers into out until the reader stops reading or
// stop is closed. The buffer is only forwarded while the reader still
// reports Reading.
func (s *Session) pump(ctx context.Context, out chan<- *container.Buffer, stop <-chan struct{}) {
	defer close(out)

	for s.reader.Status() == container.Reading {
		buf, ok := s.reader.Next()
		if !ok || buf == nil || s.reader.Status() != container.Reading {
			return
		}

		select {
		case out <- buf:
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) run(ctx context.Context) {
	buffers := make(chan *container.Buffer, s.pending)
	stop := make(chan struct{})
	go s.pump(ctx, buffers, stop)

	var (
		appendErr error
		cancelled bool
		appended  int
	)

consume:
	for {
		select {
		case buf, ok := <-buffers:
			if !ok {
				break consume
			}
			// The next buffer is taken only after this append returned.
			if err := s.writer.Append(buf); err != nil {
				appendErr = err
				break consume
			}
			appended++
		case <-ctx.Done():
			cancelled = true
			break consume
		}
	}

	if appendErr != nil || cancelled {
		s.abort(buffers, stop, appended, appendErr, ctx.Err())
		return
	}
	defer s.reader.Close()

	status := s.reader.Status()
	s.logger.Debugw("pull loop ended", "readerStatus", status.String(), "buffers", appended)

	switch {
	case status == container.Reading && ctx.Err() != nil:
		s.fail(&TranscodeFailure{Status: container.Cancelled, Err: ctx.Err()})
	case status == container.Completed:
		s.finish()
	case status == container.Failed:
		s.fail(&TranscodeFailure{Status: status, Err: s.reader.Err()})
	default:
		s.fail(&TranscodeFailure{Status: status, Err: fmt.Errorf("%w: %s", ErrUnexpectedStatus, status)})
	}
}

// abort ends the session without waiting for the producer, which may be
// blocked inside a read. The reader is closed once the producer returns.
func (s *Session) abort(buffers <-chan *container.Buffer, stop chan struct{}, appended int, appendErr, ctxErr error) {
	close(stop)
	s.reader.Cancel()
	status := s.reader.Status()

	go func() {
		for range buffers {
			// wait for the producer to exit before closing the reader
		}
		if err := s.reader.Close(); err != nil {
			s.logger.Warnw("closing reader failed", "error", err)
		}
	}()

	s.logger.Debugw("pull loop aborted", "readerStatus", status.String(), "buffers", appended)

	if appendErr != nil {
		s.fail(&TranscodeFailure{Status: status, Err: fmt.Errorf("appending buffer: %w", appendErr)})
		return
	}
	s.fail(&TranscodeFailure{Status: container.Cancelled, Err: ctxErr})
}

func (s *Session) finish() {
	end := s.reader.Duration()

	s.writer.MarkFinished()
	s.writer.EndSession(end)
	if err := s.writer.Finalize(); err != nil {
		s.fail(&TranscodeFailure{Status: container.Completed, Err: fmt.Errorf("finalizing: %w", err)})
		return
	}

	s.logger.Infow("export finished", "duration", end.String())
	s.deliver(Result{State: Finished, Output: s.Output, Duration: end})
}

// fail discards the partial output before reporting.
func (s *Session) fail(err error) {
	if cerr := s.writer.Cancel(); cerr != nil {
		s.logger.Warnw("cancelling writer failed", "error", cerr)
	}

	s.logger.Errorw("export failed", "error", err)
	s.deliver(Result{State: Failed, Output: s.Output, Err: err})
}

func (s *Session) deliver(r Result) {
	s.mu.Lock()
	s.state = r.State
	s.result = r
	s.mu.Unlock()

	s.release()
	s.done <- r
	close(s.done)
}
