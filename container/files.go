// SPDX-License-Identifier: EPL-2.0

package container

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/formats/aiff"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/preset"
	"github.com/ik5/audtrim/selection"
)

const DefaultBufferFrames = 4096

// Files opens containers on the local file system. Decoders are chosen by
// file extension; output is always written as WAV.
type Files struct {
	registry     *audio.Registry
	bufferFrames int
	logger       *zap.SugaredLogger
}

// Option configures Files during construction.
type Option func(*Files)

// WithRegistry replaces the default decoder registry.
func WithRegistry(r *audio.Registry) Option {
	return func(f *Files) { f.registry = r }
}

// WithBufferFrames sets how many frames each reader buffer carries.
func WithBufferFrames(n int) Option {
	return func(f *Files) {
		if n > 0 {
			f.bufferFrames = n
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Files) { f.logger = l }
}

// DefaultRegistry knows the uncompressed PCM containers this package reads.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	return reg
}

func NewFiles(opts ...Option) *Files {
	f := &Files{
		registry:     DefaultRegistry(),
		bufferFrames: DefaultBufferFrames,
		logger:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// OpenReader decodes path and restricts it to rng. PCM containers carry a
// single audio track, so only track 0 exists.
func (f *Files) OpenReader(path string, track int, rng selection.TimeRange, output preset.Settings) (Reader, error) {
	if track != 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchTrack, track)
	}

	dec, format, ok := f.registry.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContainer, filepath.Ext(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	src, err := dec.Decode(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("decoding %s as %s: %w", path, format, err)
	}

	win, err := audio.NewWindow(src, rng.Start, rng.End)
	if err != nil {
		src.Close()
		file.Close()
		return nil, fmt.Errorf("restricting %s to %v-%v: %w", path, rng.Start, rng.End, err)
	}

	chain, err := audio.Convert(win, output.SampleRate, output.Channels)
	if err != nil {
		win.Close()
		file.Close()
		return nil, fmt.Errorf("%w: %w", ErrFormatMismatch, err)
	}

	f.logger.Debugw("reader opened",
		"path", path,
		"format", format,
		"sampleRate", src.SampleRate(),
		"channels", src.Channels(),
		"frames", win.Frames(),
	)

	return newFileReader(chain, file, audio.FramesToDuration(win.Frames(), win.SampleRate()), f.bufferFrames), nil
}

// OpenWriter reserves a temporary file next to path. It is renamed into
// place by Finalize and removed by Cancel.
func (f *Files) OpenWriter(path string, format Format) (Writer, error) {
	if format != WAV {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContainer, format)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating output for %s: %w", path, err)
	}

	return &fileWriter{
		path:   path,
		tmp:    tmp,
		logger: f.logger.With("path", path),
	}, nil
}
