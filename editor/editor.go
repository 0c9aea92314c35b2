// SPDX-License-Identifier: EPL-2.0

// Package editor holds the state of one recording being trimmed: its power
// trace, the bands laid out for a view, the pixel selection over them and
// the export in flight.
package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/audtrim/band"
	"github.com/ik5/audtrim/container"
	"github.com/ik5/audtrim/preset"
	"github.com/ik5/audtrim/selection"
	"github.com/ik5/audtrim/timecode"
	"github.com/ik5/audtrim/transcode"
)

var ErrExportInFlight = errors.New("export already in flight")

// Editor is safe for concurrent use.
type Editor struct {
	recording  string
	duration   time.Duration
	trace      []float32
	transcoder *transcode.Transcoder
	logger     *zap.SugaredLogger

	mu      sync.Mutex
	preset  preset.Preset
	bands   band.Result
	sel     *selection.Selection
	session *transcode.Session
}

// Option configures an Editor during construction.
type Option func(*Editor)

func WithPreset(p preset.Preset) Option {
	return func(e *Editor) { e.preset = p }
}

// WithTranscoder shares a Transcoder between editors, so one source is only
// ever exported once at a time.
func WithTranscoder(t *transcode.Transcoder) Option {
	return func(e *Editor) { e.transcoder = t }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Editor) { e.logger = l }
}

// New copies trace. Until Layout is called the selection spans the whole
// recording.
func New(recording string, trace []float32, duration time.Duration, opts ...Option) *Editor {
	e := &Editor{
		recording: recording,
		duration:  max(duration, 0),
		trace:     append([]float32(nil), trace...),
		preset:    preset.Medium,
		logger:    zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.transcoder == nil {
		e.transcoder = transcode.New(container.NewFiles(container.WithLogger(e.logger)),
			transcode.WithLogger(e.logger))
	}

	return e
}

func (e *Editor) Recording() string { return e.recording }

func (e *Editor) Duration() time.Duration { return e.duration }

func (e *Editor) Preset() preset.Preset {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.preset
}

func (e *Editor) SetPreset(p preset.Preset) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.preset = p
}

// Layout reduces the trace for a view viewWidth pixels wide and resets the
// selection to the canvas the bands occupy.
func (e *Editor) Layout(viewWidth float64) (band.Result, selection.Canvas) {
	res := band.Reduce(e.trace, int(viewWidth))
	canvas := selection.CenteredCanvas(viewWidth, float64(res.CanvasWidth))

	e.mu.Lock()
	e.bands = res
	e.sel = selection.New(canvas)
	e.mu.Unlock()

	e.logger.Debugw("layout", "viewWidth", viewWidth, "bands", len(res.Bands), "levels", res.Levels)

	return res, canvas
}

// Bands is the result of the last Layout.
func (e *Editor) Bands() band.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.bands
}

// Selection returns the current rectangle and canvas. ok is false before
// the first Layout.
func (e *Editor) Selection() (rect selection.Rect, canvas selection.Canvas, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sel == nil {
		return selection.Rect{}, selection.Canvas{}, false
	}
	return e.sel.Rect, e.sel.Canvas, true
}

// EdgeAt picks the edge a drag starting at x moves.
func (e *Editor) EdgeAt(x float64) selection.Edge {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sel == nil {
		return selection.Left
	}
	return e.sel.EdgeAt(x)
}

// Drag moves one selection edge. It reports whether the selection changed.
func (e *Editor) Drag(edge selection.Edge, deltaX float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sel == nil {
		return false
	}
	return e.sel.Drag(edge, deltaX)
}

func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sel != nil {
		e.sel.Reset()
	}
}

// SelectedRange keeps sub-second precision.
func (e *Editor) SelectedRange() selection.TimeRange {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sel == nil {
		return selection.Full(e.duration)
	}
	return e.sel.Range(e.duration)
}

// DisplayRange is the selected range as "HH : MM : SS - HH : MM : SS".
func (e *Editor) DisplayRange() string {
	return timecode.FormatRange(e.SelectedRange())
}

// Export starts streaming the selected range into the edited file with the
// current preset. The returned channel yields exactly one Result.
func (e *Editor) Export(ctx context.Context) (<-chan transcode.Result, error) {
	rng := e.SelectedRange()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil && e.session.State() == transcode.Reading {
		return nil, ErrExportInFlight
	}

	s, err := e.transcoder.Export(ctx, transcode.Request{
		Source: e.recording,
		Range:  rng,
		Preset: e.preset,
	})
	if err != nil {
		return nil, err
	}
	e.session = s

	e.logger.Infow("export requested", "recording", e.recording, "range", timecode.FormatRange(rng))

	return s.Done(), nil
}

// Exporting reports whether an export started by this editor is running.
func (e *Editor) Exporting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.session != nil && e.session.State() == transcode.Reading
}
