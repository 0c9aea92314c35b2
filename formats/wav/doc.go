// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV containers on top of github.com/go-audio/wav.
//
// The Decoder accepts integer PCM at 8, 16, 24 or 32 bits and exposes it as an
// audio.Source of normalized float32 samples. The source also implements
// audio.Sized, so callers can learn the duration before reading.
//
//	f, _ := os.Open("take.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// Writer streams samples into a seekable destination. The header is emitted
// on creation and the chunk sizes are patched on Close:
//
//	w, err := wav.NewWriter(f, 24000, 16, 1)
//	_ = w.WriteSamples(buf)
//	_ = w.Close()
package wav
