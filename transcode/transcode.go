// SPDX-License-Identifier: EPL-2.0

// Package transcode streams a time range of a recording into a new PCM WAV
// file. A producer goroutine pulls buffers from a container.Reader into a
// bounded queue and the session appends them to a container.Writer, one at a
// time. Every export ends with exactly one Result.
package transcode

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ik5/audtrim/container"
	"github.com/ik5/audtrim/preset"
	"github.com/ik5/audtrim/selection"
)

// DefaultPending is how many read-ahead buffers may wait for the writer.
const DefaultPending = 2

// EditedSuffix is appended to the source name of an export.
const EditedSuffix = "-edited"

// EditedPath derives the export destination: the source path without its
// extension, suffixed with "-edited.wav".
func EditedPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + EditedSuffix + ".wav"
}

type Request struct {
	Source string
	// Output defaults to EditedPath(Source).
	Output string
	Range  selection.TimeRange
	Preset preset.Preset
}

type Transcoder struct {
	opener  container.Opener
	pending int
	logger  *zap.SugaredLogger

	mu     sync.Mutex
	active map[string]struct{}
}

// Option configures a Transcoder during construction.
type Option func(*Transcoder)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(t *Transcoder) { t.logger = l }
}

// WithPending sets the read-ahead queue capacity.
func WithPending(n int) Option {
	return func(t *Transcoder) {
		if n > 0 {
			t.pending = n
		}
	}
}

func New(opener container.Opener, opts ...Option) *Transcoder {
	t := &Transcoder{
		opener:  opener,
		pending: DefaultPending,
		logger:  zap.NewNop().Sugar(),
		active:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Export opens the source and the destination and starts streaming in the
// background. Setup problems are returned as *OpenFailure before anything
// runs. Cancelling ctx stops the session and discards the partial output.
func (t *Transcoder) Export(ctx context.Context, req Request) (*Session, error) {
	key := filepath.Clean(req.Source)
	if !t.acquire(key) {
		return nil, ErrSessionActive
	}

	output := req.Output
	if output == "" {
		output = EditedPath(req.Source)
	}
	settings := req.Preset.ExportSettings()
	logger := t.logger.With("source", req.Source, "output", output, "preset", req.Preset.String())

	reader, err := t.opener.OpenReader(req.Source, 0, req.Range, settings)
	if err != nil {
		t.release(key)
		logger.Errorw("opening reader failed", "error", err)
		return nil, &OpenFailure{Op: "open reader", Path: req.Source, Err: err}
	}

	writer, err := t.opener.OpenWriter(output, container.WAV)
	if err != nil {
		reader.Close()
		t.release(key)
		logger.Errorw("opening writer failed", "error", err)
		return nil, &OpenFailure{Op: "open writer", Path: output, Err: err}
	}

	abort := func(op string, err error) (*Session, error) {
		_ = writer.Cancel()
		reader.Close()
		t.release(key)
		logger.Errorw(op+" failed", "error", err)
		return nil, &OpenFailure{Op: op, Path: output, Err: err}
	}
	if err := writer.AddInput(settings); err != nil {
		return abort("add input", err)
	}
	if err := writer.StartWriting(); err != nil {
		return abort("start writing", err)
	}

	s := &Session{
		Source:  req.Source,
		Output:  output,
		Range:   req.Range,
		reader:  reader,
		writer:  writer,
		pending: t.pending,
		logger:  logger,
		release: func() { t.release(key) },
		done:    make(chan Result, 1),
		state:   Reading,
	}
	logger.Debugw("export started", "start", req.Range.Start.String(), "end", req.Range.End.String())

	go s.run(ctx)

	return s, nil
}

// Active reports whether an export of src is in flight.
func (t *Transcoder) Active(src string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.active[filepath.Clean(src)]
	return ok
}

func (t *Transcoder) acquire(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.active[key]; ok {
		return false
	}
	t.active[key] = struct{}{}

	return true
}

func (t *Transcoder) release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.active, key)
}
