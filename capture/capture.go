// SPDX-License-Identifier: EPL-2.0

// Package capture records audio to disk while exposing a periodic power
// reading. FileDevice simulates a microphone by replaying an audio.Source;
// Sampler collects its readings into a power trace.
package capture

import (
	"errors"
	"time"
)

var ErrSamplerStarted = errors.New("sampler already started")

// Device is a capture device as seen by the recording session.
type Device interface {
	// StartRecording reports whether recording could begin.
	StartRecording() bool
	Stop()
	// CurrentTime is the length of audio recorded so far.
	CurrentTime() time.Duration
	// Sample returns the latest peak power in dBFS and when it was taken.
	Sample() (power float32, at time.Duration)
	// Path of the file being recorded.
	Path() string
}

// RecordingName names a recording after its start time,
// "Recording on dd-MM-yy HHmmss.wav".
func RecordingName(t time.Time) string {
	return "Recording on " + t.Format("02-01-06 150405") + ".wav"
}
