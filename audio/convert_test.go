// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"testing"

	"github.com/ik5/audtrim/internal/audiotest"
)

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		rate, channels   int
		wantRate, wantCh int
		wantType         string
	}{
		{"passthrough", 0, 0, 48000, 2, "mock"},
		{"same format", 48000, 2, 48000, 2, "mock"},
		{"mono only", 0, 1, 48000, 1, "mixer"},
		{"rate only", 12000, 0, 12000, 2, "resampler"},
		{"both", 24000, 1, 24000, 1, "resampler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSilentSource(48000, 2, 480)
			got, err := Convert(src, tt.rate, tt.channels)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if got.SampleRate() != tt.wantRate || got.Channels() != tt.wantCh {
				t.Errorf("format = %d Hz / %d ch, want %d / %d", got.SampleRate(), got.Channels(), tt.wantRate, tt.wantCh)
			}

			var kind string
			switch got.(type) {
			case *MonoMixer:
				kind = "mixer"
			case *Resampler:
				kind = "resampler"
			default:
				kind = "mock"
			}
			if kind != tt.wantType {
				t.Errorf("outermost stage = %s, want %s", kind, tt.wantType)
			}
		})
	}
}

func TestConvert_Upmix(t *testing.T) {
	t.Parallel()

	_, err := Convert(audiotest.NewSilentSource(8000, 1, 10), 0, 2)
	if !errors.Is(err, ErrUnsupportedMix) {
		t.Errorf("err = %v, want ErrUnsupportedMix", err)
	}
}
