// SPDX-License-Identifier: EPL-2.0

package preset

import (
	"errors"
	"testing"
)

func TestPreset_Settings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		preset Preset
		rate   int
		name   string
	}{
		{Low, 12000, "low"},
		{Medium, 24000, "medium"},
		{High, 48000, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := tt.preset.Settings()
			if s.SampleRate != tt.rate || s.Channels != 1 || s.BitDepth != 16 {
				t.Errorf("Settings() = %+v", s)
			}
			if s.BigEndian || s.Float {
				t.Errorf("Settings() must be little-endian integer: %+v", s)
			}
			if tt.preset.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.preset.String(), tt.name)
			}

			e := tt.preset.ExportSettings()
			if e.Format != LinearPCM || e.NonInterleaved || e.SampleRate != tt.rate {
				t.Errorf("ExportSettings() = %+v", e)
			}
			if err := e.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Preset
		wantErr bool
	}{
		{"low", Low, false},
		{"Medium", Medium, false},
		{" HIGH ", High, false},
		{"ultra", Low, true},
		{"", Low, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownPreset) {
			t.Errorf("Parse(%q) error = %v, want ErrUnknownPreset", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPreset_TextRoundTrip(t *testing.T) {
	t.Parallel()

	for _, p := range All {
		text, err := p.MarshalText()
		if err != nil {
			t.Fatal(err)
		}

		var got Preset
		if err := got.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if got != p {
			t.Errorf("round trip %v -> %q -> %v", p, text, got)
		}
	}

	if _, err := Preset(7).MarshalText(); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("MarshalText(7) error = %v", err)
	}
}

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	base := Medium.ExportSettings()
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"big endian", func(s *Settings) { s.BigEndian = true }},
		{"float", func(s *Settings) { s.Float = true }},
		{"non interleaved", func(s *Settings) { s.NonInterleaved = true }},
		{"8 bit", func(s *Settings) { s.BitDepth = 8 }},
		{"no channels", func(s *Settings) { s.Channels = 0 }},
		{"no rate", func(s *Settings) { s.SampleRate = 0 }},
		{"other format", func(s *Settings) { s.Format = "aac" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := base
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Errorf("Validate(%+v) = nil, want error", s)
			}
		})
	}
}
