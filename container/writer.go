// SPDX-License-Identifier: EPL-2.0

package container

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/preset"
)

type writerState int

const (
	writerIdle writerState = iota
	writerWriting
	writerFinished
	writerDone
	writerCancelled
)

// fileWriter streams into a temporary WAV file. The most recent buffer is
// held back until the next Append or Finalize, so EndSession can trim the
// tail. Only that held buffer can be shortened.
type fileWriter struct {
	path   string
	tmp    *os.File
	logger *zap.SugaredLogger

	mu      sync.Mutex
	state   writerState
	input   *preset.Settings
	enc     *wav.Writer
	pending *Buffer
	written int64 // frames flushed to enc
	end     time.Duration
	hasEnd  bool
}

func (w *fileWriter) AddInput(settings preset.Settings) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != writerIdle || w.input != nil {
		return fmt.Errorf("%w: input already added", ErrWriterState)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrFormatMismatch, err)
	}
	w.input = &settings

	return nil
}

func (w *fileWriter) StartWriting() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != writerIdle || w.input == nil {
		return fmt.Errorf("%w: start requires exactly one input", ErrWriterState)
	}

	enc, err := wav.NewWriter(w.tmp, w.input.SampleRate, w.input.BitDepth, w.input.Channels)
	if err != nil {
		return fmt.Errorf("starting %s: %w", w.path, err)
	}
	w.enc = enc
	w.state = writerWriting
	w.logger.Debugw("writer started", "sampleRate", w.input.SampleRate, "channels", w.input.Channels)

	return nil
}

func (w *fileWriter) Append(buf *Buffer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != writerWriting {
		return fmt.Errorf("%w: append outside writing", ErrWriterState)
	}
	if buf.Channels != w.input.Channels || buf.SampleRate != w.input.SampleRate {
		return fmt.Errorf("%w: got %d Hz / %d ch, want %d Hz / %d ch", ErrFormatMismatch,
			buf.SampleRate, buf.Channels, w.input.SampleRate, w.input.Channels)
	}

	if err := w.flushPending(-1); err != nil {
		return err
	}
	w.pending = buf

	return nil
}

// flushPending writes the held buffer, limited to frames when frames >= 0.
func (w *fileWriter) flushPending(frames int) error {
	if w.pending == nil {
		return nil
	}
	buf := w.pending
	w.pending = nil

	n := buf.Frames()
	if frames >= 0 {
		n = min(n, frames)
	}
	if n <= 0 {
		return nil
	}

	if err := w.enc.WriteSamples(buf.Samples[:n*buf.Channels]); err != nil {
		return fmt.Errorf("appending to %s: %w", w.path, err)
	}
	w.written += int64(n)

	return nil
}

func (w *fileWriter) MarkFinished() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == writerWriting {
		w.state = writerFinished
	}
}

func (w *fileWriter) EndSession(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.end = max(d, 0)
	w.hasEnd = true
}

func (w *fileWriter) Finalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != writerWriting && w.state != writerFinished {
		return fmt.Errorf("%w: finalize outside writing", ErrWriterState)
	}

	limit := -1
	if w.hasEnd {
		limit = int(max(audio.DurationToFrames(w.end, w.input.SampleRate)-w.written, 0))
	}

	err := w.flushPending(limit)
	if err == nil {
		err = w.enc.Close()
	}
	if err == nil {
		err = w.tmp.Close()
	}
	if err == nil {
		err = os.Rename(w.tmp.Name(), w.path)
	}
	if err != nil {
		w.discard()
		return fmt.Errorf("finalizing %s: %w", w.path, err)
	}

	w.state = writerDone
	w.logger.Debugw("writer finalized", "frames", w.written,
		"duration", audio.FramesToDuration(w.written, w.input.SampleRate).String())

	return nil
}

func (w *fileWriter) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case writerCancelled:
		return nil
	case writerDone:
		return fmt.Errorf("%w: already finalized", ErrWriterState)
	}

	if err := w.discard(); err != nil {
		return fmt.Errorf("cancelling %s: %w", w.path, err)
	}
	w.logger.Debugw("writer cancelled", "frames", w.written)

	return nil
}

// discard closes and removes the temporary file. Callers hold mu.
func (w *fileWriter) discard() error {
	w.state = writerCancelled
	w.pending = nil

	closeErr := w.tmp.Close()
	if errors.Is(closeErr, os.ErrClosed) {
		closeErr = nil
	}
	removeErr := os.Remove(w.tmp.Name())
	if errors.Is(removeErr, os.ErrNotExist) {
		removeErr = nil
	}

	return errors.Join(closeErr, removeErr)
}
