// SPDX-License-Identifier: EPL-2.0

// Package selection maps a pixel selection over the band canvas to a time
// range in the recording, and applies edge drags to that selection.
package selection

import (
	"math"
	"time"
)

// TimeRange is a window into a recording with 0 <= Start <= End.
type TimeRange struct {
	Start time.Duration
	End   time.Duration
}

// Full covers a whole recording.
func Full(duration time.Duration) TimeRange {
	return TimeRange{End: max(duration, 0)}
}

func (r TimeRange) Length() time.Duration { return r.End - r.Start }

func (r TimeRange) Bounds() (time.Duration, time.Duration) { return r.Start, r.End }

// Floor truncates both ends to whole seconds, as shown to the user.
func (r TimeRange) Floor() TimeRange {
	return TimeRange{Start: r.Start.Truncate(time.Second), End: r.End.Truncate(time.Second)}
}

// Clamp restricts r to [0, duration] without inverting it.
func (r TimeRange) Clamp(duration time.Duration) TimeRange {
	duration = max(duration, 0)
	start := min(max(r.Start, 0), duration)

	return TimeRange{Start: start, End: min(max(r.End, start), duration)}
}

// Canvas is the horizontal extent of the band area in view coordinates.
type Canvas struct {
	Start float64
	Width float64
}

// CenteredCanvas places a canvas of canvasWidth in the middle of a view.
func CenteredCanvas(viewWidth, canvasWidth float64) Canvas {
	return Canvas{Start: viewWidth/2 - canvasWidth/2, Width: canvasWidth}
}

func (c Canvas) End() float64 { return c.Start + c.Width }

// Rect is the selection covering the whole canvas.
func (c Canvas) Rect() Rect { return Rect{X: c.Start, Width: c.Width} }

// Rect is a horizontal selection in the same coordinates as its Canvas.
type Rect struct {
	X     float64
	Width float64
}

func (r Rect) End() float64 { return r.X + r.Width }

func (r Rect) Mid() float64 { return r.X + r.Width/2 }

// Map converts rect into a time range using duration/canvas.Width seconds
// per pixel. Sub-second precision is kept. A zero-width canvas or zero
// duration maps to the empty range.
func Map(rect Rect, canvas Canvas, duration time.Duration) TimeRange {
	if canvas.Width <= 0 || duration <= 0 {
		return TimeRange{}
	}

	scale := float64(duration) / canvas.Width
	start := time.Duration((rect.X - canvas.Start) * scale)
	end := time.Duration((rect.End() - canvas.Start) * scale)

	return TimeRange{Start: start, End: end}.Clamp(duration)
}

// Reset is the selection of the whole canvas and its range.
func Reset(canvas Canvas, duration time.Duration) (Rect, TimeRange) {
	return canvas.Rect(), Full(duration)
}

type Edge int

const (
	Left Edge = iota
	Right
)

func (e Edge) String() string {
	if e == Right {
		return "right"
	}
	return "left"
}

// MinWidth is the narrowest selection a drag may produce, exclusive.
const MinWidth = 10.0

// Selection is the editable rectangle over a canvas.
type Selection struct {
	Canvas Canvas
	Rect   Rect
}

func New(canvas Canvas) *Selection {
	return &Selection{Canvas: canvas, Rect: canvas.Rect()}
}

func (s *Selection) Reset() { s.Rect = s.Canvas.Rect() }

// EdgeAt picks the edge a drag starting at x should move.
func (s *Selection) EdgeAt(x float64) Edge {
	if x > s.Rect.Mid() {
		return Right
	}
	return Left
}

// Drag moves one edge by deltaX pixels. The result is snapped outward to whole
// pixels and clipped to the canvas. Drags that would leave the selection
// MinWidth or narrower are ignored and report false.
func (s *Selection) Drag(edge Edge, deltaX float64) bool {
	r := s.Rect
	if edge == Left {
		r.X += deltaX
		r.Width -= deltaX
	} else {
		r.Width += deltaX
	}

	r = integral(r)
	if r.Width <= MinWidth {
		return false
	}

	s.Rect = intersect(r, s.Canvas)
	return true
}

// Range maps the current rectangle over a recording of duration.
func (s *Selection) Range(duration time.Duration) TimeRange {
	return Map(s.Rect, s.Canvas, duration)
}

func integral(r Rect) Rect {
	x := math.Floor(r.X)
	end := math.Ceil(r.End())

	return Rect{X: x, Width: end - x}
}

func intersect(r Rect, c Canvas) Rect {
	x := max(r.X, c.Start)
	end := min(r.End(), c.End())
	if end < x {
		return Rect{X: x}
	}

	return Rect{X: x, Width: end - x}
}
