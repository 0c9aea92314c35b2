// SPDX-License-Identifier: EPL-2.0

package container

import "errors"

var (
	ErrNoSuchTrack          = errors.New("no such track")
	ErrUnsupportedContainer = errors.New("unsupported container")
	ErrWriterState          = errors.New("writer is not in a state that allows this call")
	ErrFormatMismatch       = errors.New("buffer format does not match the writer input")
)
