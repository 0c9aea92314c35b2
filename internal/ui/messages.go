// SPDX-License-Identifier: EPL-2.0

package ui

import "github.com/ik5/audtrim/capture"

// TickMsg is one power reading from the sampler
type TickMsg capture.Tick

// ticksClosedMsg signals that the sampler stopped
type ticksClosedMsg struct{}
