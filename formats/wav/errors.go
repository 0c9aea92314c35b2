// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedEncoding  = errors.New("only integer PCM with 8, 16, 24 or 32 bits is supported")
	ErrUnsupportedWavChunks = errors.New("WAV file has no data chunk")
	ErrInvalidFormat        = errors.New("invalid WAV output format")
	ErrWriterClosed         = errors.New("WAV writer already closed")
)
