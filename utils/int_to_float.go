// SPDX-License-Identifier: EPL-2.0

package utils

// FullScale returns the magnitude of the most negative value for a PCM bit depth.
// Unknown depths fall back to 16-bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// IntToFloat32 normalizes integer PCM samples of the given bit depth into dst.
// The number of converted samples is returned.
func IntToFloat32(dst []float32, src []int, bitDepth int) int {
	scale := 1 / FullScale(bitDepth)
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float32(src[i]) * scale
	}

	return n
}
