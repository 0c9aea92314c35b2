// SPDX-License-Identifier: EPL-2.0

package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/preset"
)

// DefaultBlock is how much audio FileDevice moves per step.
const DefaultBlock = 50 * time.Millisecond

// FileDevice records a Source into a WAV file using the preset's recording
// settings. In real-time mode each block is paced by the wall clock, so
// CurrentTime advances like a live input.
type FileDevice struct {
	src      audio.Source
	settings preset.Settings
	dir      string
	realtime bool
	block    time.Duration
	now      func() time.Time
	logger   *zap.SugaredLogger

	meter Meter

	mu        sync.Mutex
	recording bool
	started   bool
	path      string
	frames    int64
	err       error
	stop      chan struct{}
	done      chan struct{}
}

// DeviceOption configures a FileDevice during construction.
type DeviceOption func(*FileDevice)

// WithRealtime paces recording by the wall clock.
func WithRealtime(on bool) DeviceOption {
	return func(d *FileDevice) { d.realtime = on }
}

func WithBlock(block time.Duration) DeviceOption {
	return func(d *FileDevice) {
		if block > 0 {
			d.block = block
		}
	}
}

// WithClock replaces time.Now for naming recordings.
func WithClock(now func() time.Time) DeviceOption {
	return func(d *FileDevice) { d.now = now }
}

func WithDeviceLogger(l *zap.SugaredLogger) DeviceOption {
	return func(d *FileDevice) { d.logger = l }
}

func NewFileDevice(src audio.Source, p preset.Preset, dir string, opts ...DeviceOption) *FileDevice {
	d := &FileDevice{
		src:      src,
		settings: p.Settings(),
		dir:      dir,
		block:    DefaultBlock,
		now:      time.Now,
		logger:   zap.NewNop().Sugar(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// StartRecording creates the output file and starts pulling the source.
// A FileDevice records once; later calls report false.
func (d *FileDevice) StartRecording() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		d.logger.Warnw("recording already started", "path", d.path)
		return false
	}

	if err := d.start(); err != nil {
		d.err = err
		d.logger.Errorw("starting recording failed", "error", err)
		return false
	}

	return true
}

// start runs with mu held.
func (d *FileDevice) start() error {
	chain, err := audio.Convert(d.src, d.settings.SampleRate, d.settings.Channels)
	if err != nil {
		return fmt.Errorf("converting input: %w", err)
	}

	path := filepath.Join(d.dir, RecordingName(d.now()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating recording: %w", err)
	}

	w, err := wav.NewWriter(f, d.settings.SampleRate, d.settings.BitDepth, d.settings.Channels)
	if err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("creating recording: %w", err)
	}

	d.started, d.recording = true, true
	d.path = path
	d.stop = make(chan struct{})
	d.logger.Infow("recording started", "path", path, "sampleRate", d.settings.SampleRate)

	go d.loop(chain, f, w)

	return nil
}

func (d *FileDevice) loop(src audio.Source, f *os.File, w *wav.Writer) {
	defer close(d.done)

	frames := max(int(audio.DurationToFrames(d.block, src.SampleRate())), 1)
	buf := make([]float32, frames*src.Channels())

	var tick <-chan time.Time
	if d.realtime {
		ticker := time.NewTicker(d.block)
		defer ticker.Stop()
		tick = ticker.C
	}

	err := d.pump(src, w, buf, tick)

	closeErr := errors.Join(w.Close(), f.Close())
	if err == nil {
		err = closeErr
	}
	d.meter.Reset()

	d.mu.Lock()
	d.recording = false
	d.err = err
	d.mu.Unlock()

	if err != nil {
		d.logger.Errorw("recording failed", "path", d.path, "error", err)
		return
	}
	d.logger.Infow("recording stopped", "path", d.path, "duration", d.CurrentTime().String())
}

func (d *FileDevice) pump(src audio.Source, w *wav.Writer, buf []float32, tick <-chan time.Time) error {
	for {
		select {
		case <-d.stop:
			return nil
		default:
		}

		n, err := src.ReadSamples(buf)
		if n > 0 {
			if werr := w.WriteSamples(buf[:n]); werr != nil {
				return werr
			}
			d.meter.Observe(buf[:n])

			d.mu.Lock()
			d.frames = w.Frames()
			d.mu.Unlock()
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if tick != nil {
			select {
			case <-tick:
			case <-d.stop:
				return nil
			}
		}
	}
}

// Stop ends the recording and waits until the file is complete. It is safe
// to call more than once, and after the source ran out.
func (d *FileDevice) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	if d.recording {
		select {
		case <-d.stop:
		default:
			close(d.stop)
		}
	}
	d.mu.Unlock()

	<-d.done
}

// Done is closed once recording ended, either by Stop or by the source running out.
func (d *FileDevice) Done() <-chan struct{} { return d.done }

func (d *FileDevice) Recording() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.recording
}

func (d *FileDevice) CurrentTime() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	return audio.FramesToDuration(d.frames, d.settings.SampleRate)
}

func (d *FileDevice) Sample() (float32, time.Duration) {
	return d.meter.Power(), d.CurrentTime()
}

func (d *FileDevice) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.path
}

// Err reports why recording could not start or stopped early.
func (d *FileDevice) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.err
}
