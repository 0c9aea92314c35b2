// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 or 32 bits is supported, with any channel count
// and sample rate. The returned audio.Source also implements audio.Sized,
// using the frame count from the COMM chunk.
//
//	f, _ := os.Open("take.aif")
//	src, err := aiff.Decoder{}.Decode(f)
package aiff
