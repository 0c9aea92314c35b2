// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"strings"

	"github.com/ik5/audtrim/band"
)

var levels = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws one block character per band, scaled by the result's range.
func Sparkline(res band.Result) string {
	var sb strings.Builder
	for _, v := range res.Bands {
		h := min(max(res.Range.Scale(v, 1), 0), 1)
		sb.WriteRune(levels[int(h*float32(len(levels)-1)+0.5)])
	}

	return sb.String()
}

// RenderBands is Sparkline in the band style.
func RenderBands(res band.Result) string {
	return BandStyle.Render(Sparkline(res))
}

// Marker draws a selection bar under a sparkline laid out on canvas width:
// '─' outside the selection, '━' inside.
func Marker(width, from, to int) string {
	var sb strings.Builder
	for i := range width {
		if i >= from && i < to {
			sb.WriteRune('━')
		} else {
			sb.WriteRune('─')
		}
	}

	return sb.String()
}
