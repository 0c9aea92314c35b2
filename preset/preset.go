// SPDX-License-Identifier: EPL-2.0

// Package preset defines the three fixed PCM quality levels used for
// recording and export. Only the sample rate differs between them.
package preset

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPreset = errors.New("unknown preset")

type Preset int

const (
	Low Preset = iota
	Medium
	High
)

// All presets in ascending quality.
var All = []Preset{Low, Medium, High}

// Format identifies the sample encoding handed to a container writer.
type Format string

const LinearPCM Format = "lpcm"

// Settings describe a PCM stream. The zero Format means the container default.
type Settings struct {
	Format         Format
	SampleRate     int
	Channels       int
	BitDepth       int
	BigEndian      bool
	Float          bool
	NonInterleaved bool
}

func (p Preset) SampleRate() int {
	switch p {
	case Low:
		return 12000
	case Medium:
		return 24000
	default:
		return 48000
	}
}

// Settings used while recording: 16-bit mono little-endian integer PCM.
func (p Preset) Settings() Settings {
	return Settings{
		SampleRate: p.SampleRate(),
		Channels:   1,
		BitDepth:   16,
	}
}

// ExportSettings re-wraps the recording parameters for a WAV writer, with
// the non-interleaved flag explicitly off.
func (p Preset) ExportSettings() Settings {
	s := p.Settings()
	s.Format = LinearPCM
	s.NonInterleaved = false

	return s
}

func (p Preset) String() string {
	switch p {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("preset(%d)", int(p))
	}
}

// Parse accepts the preset name in any case.
func Parse(s string) (Preset, error) {
	for _, p := range All {
		if strings.EqualFold(strings.TrimSpace(s), p.String()) {
			return p, nil
		}
	}

	return Low, fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

func (p Preset) MarshalText() ([]byte, error) {
	if p < Low || p > High {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPreset, int(p))
	}

	return []byte(p.String()), nil
}

func (p *Preset) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = v

	return nil
}

// Validate reports whether s can be written as a PCM WAV stream.
func (s Settings) Validate() error {
	switch {
	case s.Format != "" && s.Format != LinearPCM:
		return fmt.Errorf("unsupported format %q", s.Format)
	case s.SampleRate <= 0:
		return fmt.Errorf("invalid sample rate %d", s.SampleRate)
	case s.Channels <= 0:
		return fmt.Errorf("invalid channel count %d", s.Channels)
	case s.BitDepth != 16 && s.BitDepth != 24 && s.BitDepth != 32:
		return fmt.Errorf("unsupported bit depth %d", s.BitDepth)
	case s.BigEndian, s.Float, s.NonInterleaved:
		return errors.New("only interleaved little-endian integer PCM is supported")
	}

	return nil
}
