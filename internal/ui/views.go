// SPDX-License-Identifier: EPL-2.0

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/audtrim/band"
	"github.com/ik5/audtrim/internal/cli"
	"github.com/ik5/audtrim/timecode"
)

// meterFloor is the quietest level the meter bar shows.
const meterFloor = -60.0

func renderRecordingView(m Model) string {
	var sb strings.Builder

	sb.WriteString(renderHeader(m))
	sb.WriteString("\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#D75F00")).
		Padding(0, 1)

	width := max(m.Width-6, 10)

	var content strings.Builder
	rec := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D70000")).Render("● REC")
	if m.Stopped || m.Ended {
		rec = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("■ STOP")
	}
	content.WriteString(fmt.Sprintf("%s  %s\n", rec, timecode.Format(m.Elapsed)))
	content.WriteString(renderMeter(m.Power, width-12))
	content.WriteString("\n")
	content.WriteString(cli.RenderBands(band.Reduce(m.Trace, width)))

	sb.WriteString(box.Render(content.String()))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("q / enter: stop recording"))
	sb.WriteString("\n")

	return sb.String()
}

func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#D75F00")).
		Render("audtrim")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render(fmt.Sprintf("%s (%s)", m.Path, m.Preset))

	return title + " " + subtitle
}

// renderMeter renders the current level as a bar from meterFloor to 0 dBFS
func renderMeter(power float32, width int) string {
	width = max(width, 1)
	level := min(max((float64(power)-meterFloor)/-meterFloor, 0), 1)
	filled := int(level * float64(width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	return fmt.Sprintf("%s %6.1f dB", bar, power)
}
