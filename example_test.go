// SPDX-License-Identifier: EPL-2.0

package audtrim_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ik5/audtrim"
	"github.com/ik5/audtrim/band"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/preset"
	"github.com/ik5/audtrim/selection"
	"github.com/ik5/audtrim/timecode"
)

// writeTone records two seconds of a 24kHz tone into dir.
func writeTone(dir string) (string, error) {
	path := filepath.Join(dir, "take.wav")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w, err := wav.NewWriter(f, 24000, 16, 1)
	if err != nil {
		return "", err
	}
	samples := make([]float32, 48000)
	for i := range samples {
		samples[i] = 0.25
		if i%48 < 24 {
			samples[i] = -0.25
		}
	}
	if err := w.WriteSamples(samples); err != nil {
		return "", err
	}

	return path, w.Close()
}

func Example_trimFile() {
	dir, err := os.MkdirTemp("", "audtrim")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	path, err := writeTone(dir)
	if err != nil {
		fmt.Println(err)
		return
	}

	rng := selection.TimeRange{Start: 500 * time.Millisecond, End: 1500 * time.Millisecond}
	res, err := audtrim.TrimFile(context.Background(), path, rng, preset.Low)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(filepath.Base(res.Output), res.State, res.Duration)
	// Output: take-edited.wav finished 1s
}

func Example_powerTrace() {
	dir, err := os.MkdirTemp("", "audtrim")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	path, err := writeTone(dir)
	if err != nil {
		fmt.Println(err)
		return
	}

	trace, duration, err := audtrim.PowerTraceFile(path, 500*time.Millisecond)
	if err != nil {
		fmt.Println(err)
		return
	}

	res := band.Reduce(trace, 320)
	fmt.Println(timecode.Format(duration), len(trace), "readings,", len(res.Bands), "bands")
	fmt.Printf("%.1f dBFS\n", res.Bands[0])
	// Output:
	// 00 : 00 : 02 4 readings, 4 bands
	// -12.0 dBFS
}
