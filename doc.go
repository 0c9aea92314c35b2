// SPDX-License-Identifier: EPL-2.0

// Package audtrim records audio, reduces its loudness into display bands and
// exports a selected time range as a new PCM WAV file.
//
// # Pipeline
//
// A recording is sampled every 250ms into a power trace (dBFS). The band
// package reduces the trace to at most one band per pixel of a canvas, the
// selection package maps a pixel rectangle on that canvas back to a time
// range, and the transcode package streams that range of the recording into
// "<name>-edited.wav" at one of three presets:
//
//	low     12000 Hz, mono, 16-bit
//	medium  24000 Hz, mono, 16-bit
//	high    48000 Hz, mono, 16-bit
//
// # Quick Start
//
// TrimFile runs one export and waits for it:
//
//	rng := selection.TimeRange{Start: 2 * time.Second, End: 5 * time.Second}
//	res, err := audtrim.TrimFile(ctx, "take.wav", rng, preset.High)
//
// PowerTraceFile builds the trace of an existing file, the same way the
// capture sampler does while recording:
//
//	trace, duration, err := audtrim.PowerTraceFile("take.wav", capture.DefaultInterval)
//	bands := band.Reduce(trace, 320)
//
// The editor package ties these together for an interactive session, and
// cmd/audtrim exposes them on the command line.
//
// # Containers
//
// Sources may be PCM WAV (8, 16, 24 or 32-bit) or uncompressed AIFF. Exports
// are always interleaved little-endian integer PCM WAV.
package audtrim
