// SPDX-License-Identifier: EPL-2.0

// Package band reduces a power trace of any length into at most a canvas
// width of averaged bands, together with the range needed to scale them.
package band

// Empty traces keep this normalization so an idle display has a sane scale.
const (
	DefaultMinimum float32 = 0
	DefaultMaximum float32 = 160
)

// Range shifts negative readings to non-negative and bounds the result.
type Range struct {
	Minimum float32
	Maximum float32
	Offset  float32
}

// Scale maps a band value onto a drawable height. When the range is flat
// the value is only shifted.
func (r Range) Scale(value, height float32) float32 {
	span := r.Maximum - r.Minimum
	if span == 0 {
		return value + r.Offset
	}

	return (value + r.Offset) * height / span
}

type Result struct {
	Bands []float32
	// CanvasWidth is the width bands should be laid out on. It shrinks to the
	// sample count when there are fewer samples than pixels.
	CanvasWidth int
	// Levels is the number of samples averaged into each band.
	Levels int
	Range  Range
}

// Consumed is the number of trace samples that contributed to a band.
func (r Result) Consumed() int { return len(r.Bands) * r.Levels }

// Reduce never mutates samples and returns a freshly allocated result.
func Reduce(samples []float32, width int) Result {
	res := Result{Range: normalize(samples)}

	n := len(samples)
	if width <= 0 || n == 0 {
		return res
	}

	if n < width {
		res.Bands = append([]float32(nil), samples...)
		res.CanvasWidth = n
		res.Levels = 1

		return res
	}

	w := Width(n, width)
	levels := n / w

	res.Bands = make([]float32, w)
	for i := range w {
		var sum float64
		for _, v := range samples[i*levels : (i+1)*levels] {
			sum += float64(v)
		}
		res.Bands[i] = float32(sum / float64(levels))
	}
	res.CanvasWidth = w
	res.Levels = levels

	return res
}

// Width walks down from width while it divides n evenly. Every n is
// divisible by 1, so the walk stops there and one band covers the trace.
func Width(n, width int) int {
	w := width
	for w > 1 && n%w == 0 {
		w--
	}

	return max(w, 1)
}

func normalize(samples []float32) Range {
	if len(samples) == 0 {
		return Range{Minimum: DefaultMinimum, Maximum: DefaultMaximum}
	}

	lo, hi := samples[0], samples[0]
	for _, v := range samples[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	offset := max(0, -lo)

	return Range{
		Minimum: max(0, lo),
		Maximum: hi + offset,
		Offset:  offset,
	}
}
