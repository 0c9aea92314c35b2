// SPDX-License-Identifier: EPL-2.0

package transcode

import (
	"errors"
	"fmt"

	"github.com/ik5/audtrim/container"
)

var (
	// ErrUnexpectedStatus marks a reader that stopped yielding buffers while
	// still claiming to read. It indicates a broken container.Reader.
	ErrUnexpectedStatus = errors.New("reader stopped in an unexpected status")

	// ErrSessionActive is returned when an export of the same source is in flight.
	ErrSessionActive = errors.New("an export of this source is already running")
)

// OpenFailure reports a reader or writer that could not be set up. Nothing
// was written when it is returned.
type OpenFailure struct {
	Op   string
	Path string
	Err  error
}

func (e *OpenFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpenFailure) Unwrap() error { return e.Err }

// TranscodeFailure reports an export that failed after streaming started.
// Status is the reader status when the session gave up.
type TranscodeFailure struct {
	Status container.Status
	Err    error
}

func (e *TranscodeFailure) Error() string {
	return fmt.Sprintf("transcode failed (reader %s): %v", e.Status, e.Err)
}

func (e *TranscodeFailure) Unwrap() error { return e.Err }
