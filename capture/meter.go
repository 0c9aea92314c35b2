// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"math"
	"sync"
)

// MinPower is the reading for silence, in dBFS.
const MinPower float32 = -160

// PeakPower returns the peak of samples in dBFS, never below MinPower.
func PeakPower(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		peak = max(peak, float32(math.Abs(float64(s))))
	}
	if peak <= 0 {
		return MinPower
	}

	return max(float32(20*math.Log10(float64(peak))), MinPower)
}

// Meter holds the peak power of the most recent block it observed.
type Meter struct {
	mu    sync.Mutex
	power float32
	set   bool
}

func (m *Meter) Observe(samples []float32) {
	p := PeakPower(samples)

	m.mu.Lock()
	m.power, m.set = p, true
	m.mu.Unlock()
}

// Power is MinPower until the first block was observed.
func (m *Meter) Power() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.set {
		return MinPower
	}
	return m.power
}

func (m *Meter) Reset() {
	m.mu.Lock()
	m.set = false
	m.mu.Unlock()
}
