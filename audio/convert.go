// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Convert chains a MonoMixer and a Resampler in front of src as needed to
// reach sampleRate and channels. Zero values keep the source's own format.
func Convert(src Source, sampleRate, channels int) (Source, error) {
	chain := src

	switch {
	case channels <= 0, channels == chain.Channels():
	case channels == 1:
		chain = NewMonoMixer(chain)
	default:
		return nil, fmt.Errorf("%w: %d channels to %d", ErrUnsupportedMix, chain.Channels(), channels)
	}

	if sampleRate > 0 && sampleRate != chain.SampleRate() {
		chain = NewResampler(chain, sampleRate)
	}

	return chain, nil
}
