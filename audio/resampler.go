// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audtrim/utils"
)

// resampleChunkFrames is how many source frames are pulled per upstream read.
const resampleChunkFrames = 1024

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames advanced per output frame
	channels int

	// Sliding window of 4 frames around the output position:
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2.
	// real marks frames that came from the source rather than edge padding.
	frames [4][]float32
	real   [4]bool
	primed bool

	// Position between frames[1] and frames[2], in source frames
	pos float64

	srcBuf  []float32
	pending []float32
	srcEOF  bool

	// One-pole low-pass state, used when downsampling
	useFilter    bool
	filterAlpha  float32
	filterPrimed bool
	lowpass      []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:       src,
		dstRate:   dstRate,
		ratio:     ratio,
		channels:  channels,
		srcBuf:    make([]float32, resampleChunkFrames*channels),
		useFilter: ratio > 1.0,
		lowpass:   make([]float32, channels),
	}
	if r.useFilter {
		// Simplified filter, cutoff near the destination Nyquist frequency
		r.filterAlpha = 0.5
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Frames estimates the output length when the wrapped source is Sized.
func (r *Resampler) Frames() int64 {
	sized, ok := r.src.(Sized)
	if !ok || r.ratio <= 0 {
		return 0
	}

	return int64(float64(sized.Frames()) / r.ratio)
}

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// pull copies the next source frame into dst. It reports false once the source is drained.
func (r *Resampler) pull(dst []float32) (bool, error) {
	for len(r.pending) < r.channels {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.srcBuf)
		r.pending = r.srcBuf[:n-n%r.channels]

		if errors.Is(err, io.EOF) {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	copy(dst, r.pending[:r.channels])
	r.pending = r.pending[r.channels:]

	if r.useFilter {
		if !r.filterPrimed {
			// Seed with the first frame to avoid a warm-up transient
			copy(r.lowpass, dst)
			r.filterPrimed = true
		}
		for c := range dst {
			dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.lowpass[c]
			r.lowpass[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.pull(r.frames[1])
	if err != nil || !ok {
		return err
	}
	copy(r.frames[0], r.frames[1])
	r.real[1] = true

	for i := 2; i < len(r.frames); i++ {
		ok, err = r.pull(r.frames[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.frames[i], r.frames[i-1])
		}
		r.real[i] = ok
	}

	return nil
}

// advance slides the window one source frame forward.
func (r *Resampler) advance() error {
	r.frames[0], r.frames[1], r.frames[2], r.frames[3] = r.frames[1], r.frames[2], r.frames[3], r.frames[0]
	r.real[0], r.real[1], r.real[2] = r.real[1], r.real[2], r.real[3]

	ok, err := r.pull(r.frames[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.frames[3], r.frames[2])
	}
	r.real[3] = ok

	return nil
}

// ReadSamples produces dst samples at the destination rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	framesNeeded := len(dst) / r.channels
	written := 0
	exhausted := false

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		// Output positions never pass the last real source frame
		if !r.real[2] {
			exhausted = true
			break
		}

		out := dst[written*r.channels : (written+1)*r.channels]
		utils.CubicInterpolateFrame(out, r.frames[0], r.frames[1], r.frames[2], r.frames[3], float32(r.pos))

		written++
		r.pos += r.ratio
	}

	if exhausted {
		return written * r.channels, io.EOF
	}

	return written * r.channels, nil
}
