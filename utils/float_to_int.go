// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a normalized sample in [-1, 1] to 16-bit PCM.
// Values outside the range are clamped.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 on both sides keeps the conversion symmetric
	return int16(x * 32767.0)
}

// Float32ToInt converts a batch of normalized samples into dst as 16-bit values
// widened to int, the representation go-audio buffers use.
// dst must be at least len(src) long; the number of converted samples is returned.
func Float32ToInt(dst []int, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = int(Float32ToInt16(src[i]))
	}

	return n
}
