// SPDX-License-Identifier: EPL-2.0

package transcode

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audtrim/container"
	"github.com/ik5/audtrim/preset"
	"github.com/ik5/audtrim/selection"
)

// fakeReader yields count buffers, then settles on final. A non-nil gate
// makes every Next wait for a value on it or for Cancel.
type fakeReader struct {
	count    int
	final    container.Status
	err      error
	gate     chan struct{}
	duration time.Duration
	writer   *fakeWriter

	mu        sync.Mutex
	status    container.Status
	served    int
	closed    bool
	cancelled chan struct{}
	maxAhead  int
}

func newFakeReader(count int, final container.Status, err error) *fakeReader {
	return &fakeReader{
		count:     count,
		final:     final,
		err:       err,
		status:    container.Reading,
		duration:  time.Duration(count) * 100 * time.Millisecond,
		cancelled: make(chan struct{}),
	}
}

func (r *fakeReader) Next() (*container.Buffer, bool) {
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-r.cancelled:
			return nil, false
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != container.Reading {
		return nil, false
	}
	if r.served >= r.count {
		if r.final != container.Reading {
			r.status = r.final
		}
		return nil, false
	}

	r.served++
	if r.writer != nil {
		r.maxAhead = max(r.maxAhead, r.served-int(r.writer.appended.Load()))
	}

	return &container.Buffer{
		Samples:    make([]float32, 1200),
		Channels:   1,
		SampleRate: 12000,
		PTS:        time.Duration(r.served-1) * 100 * time.Millisecond,
	}, true
}

func (r *fakeReader) Status() container.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status
}

func (r *fakeReader) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == container.Failed {
		return r.err
	}
	return nil
}

func (r *fakeReader) Duration() time.Duration { return r.duration }

func (r *fakeReader) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == container.Reading {
		r.status = container.Cancelled
		close(r.cancelled)
	}
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	return nil
}

func (r *fakeReader) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

type fakeWriter struct {
	failAppendAt int // 1-based; 0 never fails
	addInputErr  error
	delay        time.Duration

	appended  atomic.Int32
	inflight  atomic.Int32
	reentered atomic.Bool

	mu        sync.Mutex
	settings  preset.Settings
	started   bool
	finished  bool
	ended     time.Duration
	finalized bool
	cancelled bool
}

func (w *fakeWriter) AddInput(s preset.Settings) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.settings = s
	return w.addInputErr
}

func (w *fakeWriter) StartWriting() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.started = true
	return nil
}

var errDiskFull = errors.New("disk full")

func (w *fakeWriter) Append(*container.Buffer) error {
	if w.inflight.Add(1) > 1 {
		w.reentered.Store(true)
	}
	defer w.inflight.Add(-1)

	if w.delay > 0 {
		time.Sleep(w.delay)
	}
	if w.failAppendAt > 0 && int(w.appended.Load())+1 == w.failAppendAt {
		return errDiskFull
	}
	w.appended.Add(1)

	return nil
}

func (w *fakeWriter) MarkFinished() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.finished = true
}

func (w *fakeWriter) EndSession(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ended = d
}

func (w *fakeWriter) Finalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.finalized = true
	return nil
}

func (w *fakeWriter) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cancelled = true
	return nil
}

func (w *fakeWriter) snapshot() (finalized, cancelled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.finalized, w.cancelled
}

type fakeOpener struct {
	reader    *fakeReader
	writer    *fakeWriter
	readerErr error
	writerErr error

	mu          sync.Mutex
	readerPath  string
	writerPath  string
	readerRange selection.TimeRange
	output      preset.Settings
}

func (o *fakeOpener) OpenReader(path string, track int, rng selection.TimeRange, output preset.Settings) (container.Reader, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.readerErr != nil {
		return nil, o.readerErr
	}
	if track != 0 {
		return nil, container.ErrNoSuchTrack
	}
	o.readerPath, o.readerRange, o.output = path, rng, output

	return o.reader, nil
}

func (o *fakeOpener) OpenWriter(path string, format container.Format) (container.Writer, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.writerErr != nil {
		return nil, o.writerErr
	}
	o.writerPath = path

	return o.writer, nil
}
