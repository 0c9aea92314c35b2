// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidRange   = errors.New("window end precedes its start")
	ErrInvalidRate    = errors.New("sample rate must be positive")
	ErrUnsupportedMix = errors.New("only mixing down to mono is supported")
)
