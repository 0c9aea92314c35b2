// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"os"
	"testing"
)

// WAV16 builds a canonical 44-byte-header PCM 16-bit WAV file in memory.
// It is written independently of formats/wav so decoder tests do not
// validate the package against itself.
func WAV16(sampleRate, channels int, samples []int16) []byte {
	buf := new(bytes.Buffer)

	blockAlign := uint16(channels * 2)
	dataSize := uint32(len(samples) * 2)

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate)*uint32(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)
	_ = binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

// Tone returns frames*channels samples of a square wave alternating every period frames.
func Tone(frames, channels, period int, amplitude int16) []int16 {
	out := make([]int16, frames*channels)
	for f := range frames {
		v := amplitude
		if period > 0 && (f/period)%2 == 1 {
			v = -amplitude
		}
		for c := range channels {
			out[f*channels+c] = v
		}
	}

	return out
}

// WriteWAVFile writes a 16-bit WAV fixture to path and fails the test on error.
func WriteWAVFile(tb testing.TB, path string, sampleRate, channels int, samples []int16) {
	tb.Helper()

	if err := os.WriteFile(path, WAV16(sampleRate, channels, samples), 0o644); err != nil {
		tb.Fatalf("writing fixture %s: %v", path, err)
	}
}
