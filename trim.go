// SPDX-License-Identifier: EPL-2.0

package audtrim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/capture"
	"github.com/ik5/audtrim/container"
	"github.com/ik5/audtrim/preset"
	"github.com/ik5/audtrim/selection"
	"github.com/ik5/audtrim/transcode"
)

// EditedPath is where TrimFile writes the export of src.
func EditedPath(src string) string { return transcode.EditedPath(src) }

// TrimFile exports rng of src to EditedPath(src) at preset p and waits for
// the session to end. The returned error is the Result's error, or ctx's if
// waiting was abandoned.
//
// Example:
//
//	res, err := audtrim.TrimFile(ctx, "take.wav", selection.TimeRange{Start: time.Second, End: 3 * time.Second}, preset.Medium)
//	if err != nil {
//	    return err
//	}
//	fmt.Println("wrote", res.Output)
func TrimFile(ctx context.Context, src string, rng selection.TimeRange, p preset.Preset, opts ...transcode.Option) (transcode.Result, error) {
	t := transcode.New(container.NewFiles(), opts...)

	s, err := t.Export(ctx, transcode.Request{Source: src, Range: rng, Preset: p})
	if err != nil {
		return transcode.Result{State: transcode.Failed, Err: err}, err
	}

	res, err := s.Wait(ctx)
	if err != nil {
		return res, err
	}

	return res, res.Err
}

// PowerTrace reads src to the end and returns the peak power of each
// interval-long block in dBFS, the same readings a live sampler would take.
// The last block may be shorter.
func PowerTrace(src audio.Source, interval time.Duration) ([]float32, error) {
	if interval <= 0 {
		interval = capture.DefaultInterval
	}

	frames := max(audio.DurationToFrames(interval, src.SampleRate()), 1)
	block := make([]float32, int(frames)*src.Channels())

	var trace []float32
	for {
		n, err := readFull(src, block)
		if n > 0 {
			trace = append(trace, capture.PeakPower(block[:n]))
		}
		if errors.Is(err, io.EOF) {
			return trace, nil
		}
		if err != nil {
			return trace, fmt.Errorf("%w", err)
		}
	}
}

// readFull fills dst unless the source ends first.
func readFull(src audio.Source, dst []float32) (int, error) {
	total := 0
	for total < len(dst) {
		n, err := src.ReadSamples(dst[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.EOF
		}
	}

	return total, nil
}

// PowerTraceFile decodes a WAV or AIFF file and returns its power trace and
// duration.
func PowerTraceFile(path string, interval time.Duration) ([]float32, time.Duration, error) {
	dec, format, ok := container.DefaultRegistry().Lookup(path)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", container.ErrUnsupportedContainer, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	duration, _ := audio.Duration(src)
	trace, err := PowerTrace(src, interval)

	return trace, duration, err
}
