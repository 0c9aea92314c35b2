// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"context"
	"slices"
	"sync"
	"time"
)

// DefaultInterval matches the cadence of the recording view.
const DefaultInterval = 250 * time.Millisecond

// Tick is one power reading handed to the consumer.
type Tick struct {
	Index int
	Power float32
	At    time.Duration
}

// Sampler polls a Device at a fixed interval and owns the power trace it
// builds. Only its own goroutine appends to the trace.
type Sampler struct {
	dev      Device
	interval time.Duration
	ticks    chan Tick

	mu      sync.Mutex
	trace   []float32
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSampler polls dev every interval. Ticks are buffered; when the consumer
// falls behind, ticks are dropped but the trace keeps every reading.
func NewSampler(dev Device, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Sampler{
		dev:      dev,
		interval: interval,
		ticks:    make(chan Tick, 64),
		done:     make(chan struct{}),
	}
}

// Ticks is closed after Stop.
func (s *Sampler) Ticks() <-chan Tick { return s.ticks }

func (s *Sampler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrSamplerStarted
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)

	return nil
}

func (s *Sampler) loop(ctx context.Context) {
	defer close(s.done)
	defer close(s.ticks)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

func (s *Sampler) sample() {
	power, at := s.dev.Sample()

	s.mu.Lock()
	s.trace = append(s.trace, power)
	tick := Tick{Index: len(s.trace) - 1, Power: power, At: at}
	s.mu.Unlock()

	select {
	case s.ticks <- tick:
	default:
	}
}

// Trace returns a copy of the readings so far.
func (s *Sampler) Trace() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.trace)
}

// Stop ends polling and returns the final trace.
func (s *Sampler) Stop() []float32 {
	s.mu.Lock()
	if !s.started {
		s.started = true
		close(s.ticks)
		close(s.done)
	}
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-s.done

	return s.Trace()
}
