// SPDX-License-Identifier: EPL-2.0

package band

import (
	"math"
	"slices"
	"testing"
)

func TestReduce_FewerSamplesThanWidth(t *testing.T) {
	t.Parallel()

	samples := []float32{1, 2, 3, 4, 5}
	res := Reduce(samples, 10)

	if !slices.Equal(res.Bands, samples) {
		t.Errorf("Bands = %v, want %v", res.Bands, samples)
	}
	if res.CanvasWidth != 5 {
		t.Errorf("CanvasWidth = %d, want 5", res.CanvasWidth)
	}
	if res.Levels != 1 {
		t.Errorf("Levels = %d, want 1", res.Levels)
	}
}

func TestReduce_ConstantTrace(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 100)
	for i := range samples {
		samples[i] = 10
	}

	res := Reduce(samples, 30)
	if len(res.Bands) != 30 || res.CanvasWidth != 30 {
		t.Fatalf("got %d bands on width %d, want 30", len(res.Bands), res.CanvasWidth)
	}
	if res.Levels != 3 {
		t.Errorf("Levels = %d, want 3", res.Levels)
	}
	if res.Consumed() != 90 {
		t.Errorf("Consumed = %d, want 90", res.Consumed())
	}
	for i, b := range res.Bands {
		if b != 10 {
			t.Errorf("band %d = %v, want 10", i, b)
		}
	}
}

func TestWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, width, want int
	}{
		{100, 30, 30},
		{120, 30, 29},
		{60, 6, 1},  // divisible by 6..1
		{64, 2, 1},  // power of two
		{64, 1, 1},
		{12, 4, 1},  // 4, 3, 2 all divide 12
		{13, 4, 4},
		{7, 7, 6},
	}

	for _, tt := range tests {
		got := Width(tt.n, tt.width)
		if got != tt.want {
			t.Errorf("Width(%d, %d) = %d, want %d", tt.n, tt.width, got, tt.want)
		}
		if got < 1 || got > tt.width {
			t.Errorf("Width(%d, %d) = %d out of [1, %d]", tt.n, tt.width, got, tt.width)
		}
	}
}

func TestReduce_Properties(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 200; n += 7 {
		for _, width := range []int{1, 2, 3, 10, 30, 64, 300} {
			samples := make([]float32, n)
			for i := range samples {
				samples[i] = float32(i%13) - 6
			}
			orig := slices.Clone(samples)

			res := Reduce(samples, width)

			if len(res.Bands) > width {
				t.Fatalf("N=%d W=%d: %d bands exceed width", n, width, len(res.Bands))
			}
			if n < width && len(res.Bands) != n {
				t.Fatalf("N=%d W=%d: %d bands, want %d", n, width, len(res.Bands), n)
			}
			if res.Consumed() > n {
				t.Fatalf("N=%d W=%d: consumed %d", n, width, res.Consumed())
			}
			if !slices.Equal(samples, orig) {
				t.Fatalf("N=%d W=%d: input mutated", n, width)
			}

			// each band is the mean of its run
			for i, b := range res.Bands {
				var sum float64
				for _, v := range samples[i*res.Levels : (i+1)*res.Levels] {
					sum += float64(v)
				}
				want := sum / float64(res.Levels)
				if math.Abs(float64(b)-want) > 1e-5 {
					t.Fatalf("N=%d W=%d band %d = %v, want %v", n, width, i, b, want)
				}
			}

			again := Reduce(samples, width)
			if !slices.Equal(again.Bands, res.Bands) || again.Range != res.Range {
				t.Fatalf("N=%d W=%d: recompute differs", n, width)
			}
		}
	}
}

func TestReduce_Degenerate(t *testing.T) {
	t.Parallel()

	res := Reduce(nil, 100)
	if len(res.Bands) != 0 || res.CanvasWidth != 0 {
		t.Errorf("empty trace: %+v", res)
	}
	if res.Range.Minimum != DefaultMinimum || res.Range.Maximum != DefaultMaximum || res.Range.Offset != 0 {
		t.Errorf("empty trace range = %+v", res.Range)
	}

	res = Reduce([]float32{1, 2, 3}, 0)
	if len(res.Bands) != 0 {
		t.Errorf("zero width: %d bands", len(res.Bands))
	}
}

func TestRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		samples []float32
		want    Range
	}{
		{"negative dB", []float32{-60, -20, -40}, Range{Minimum: 0, Maximum: 40, Offset: 60}},
		{"positive", []float32{2, 8, 5}, Range{Minimum: 2, Maximum: 8, Offset: 0}},
		{"straddling", []float32{-1, 3}, Range{Minimum: 0, Maximum: 4, Offset: 1}},
	}

	for _, tt := range tests {
		got := Reduce(tt.samples, 10).Range
		if got != tt.want {
			t.Errorf("%s: Range = %+v, want %+v", tt.name, got, tt.want)
		}
		if got.Maximum < got.Minimum || got.Minimum < 0 {
			t.Errorf("%s: invariant broken: %+v", tt.name, got)
		}
	}
}

func TestRange_Scale(t *testing.T) {
	t.Parallel()

	r := Range{Minimum: 0, Maximum: 40, Offset: 60}
	if got := r.Scale(-40, 100); got != 50 {
		t.Errorf("Scale(-40, 100) = %v, want 50", got)
	}

	flat := Range{Minimum: 5, Maximum: 5}
	if got := flat.Scale(5, 100); got != 5 {
		t.Errorf("flat Scale = %v, want 5", got)
	}
}

func BenchmarkReduce(b *testing.B) {
	// an hour of 250ms ticks
	samples := make([]float32, 14400)
	for i := range samples {
		samples[i] = float32(i%97) - 160
	}

	for b.Loop() {
		_ = Reduce(samples, 800)
	}
}
