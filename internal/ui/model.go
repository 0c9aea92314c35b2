// SPDX-License-Identifier: EPL-2.0

// Package ui provides the Bubbletea view shown while recording
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ik5/audtrim/capture"
)

// Model is the Bubbletea model for the recording view
type Model struct {
	Path   string
	Preset string

	// Trace mirrors the sampler's readings for display only
	Trace   []float32
	Power   float32
	Elapsed time.Duration

	// Stopped is set when the user ended the recording
	Stopped bool
	// Ended is set when the sampler closed its channel
	Ended bool

	ticks <-chan capture.Tick

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a recording view fed by ticks
func NewModel(path, preset string, ticks <-chan capture.Tick) Model {
	return Model{
		Path:   path,
		Preset: preset,
		Power:  capture.MinPower,
		ticks:  ticks,
		Width:  80,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForTick(m.ticks)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "enter", " ":
			m.Stopped = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		m.Trace = append(m.Trace, msg.Power)
		m.Power = msg.Power
		m.Elapsed = msg.At
		return m, waitForTick(m.ticks)

	case ticksClosedMsg:
		m.Ended = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	return renderRecordingView(m)
}

// waitForTick waits for the next sampler reading
func waitForTick(ticks <-chan capture.Tick) tea.Cmd {
	return func() tea.Msg {
		tick, ok := <-ticks
		if !ok {
			return ticksClosedMsg{}
		}
		return TickMsg(tick)
	}
}
