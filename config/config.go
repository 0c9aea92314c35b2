// SPDX-License-Identifier: EPL-2.0

// Package config loads the audtrim YAML configuration. Every field has a
// default, so a missing file or a partial one is valid.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ik5/audtrim/capture"
	"github.com/ik5/audtrim/container"
	"github.com/ik5/audtrim/preset"
	"github.com/ik5/audtrim/transcode"
)

var (
	ErrInvalidLevel        = errors.New("invalid log level")
	ErrInvalidWidth        = errors.New("canvas width must be positive")
	ErrInvalidInterval     = errors.New("capture interval must be positive")
	ErrInvalidBufferFrames = errors.New("export buffer frames must be positive")
	ErrInvalidPending      = errors.New("export pending buffers must be positive")
)

// FileName is looked up under the user's config directory.
const FileName = "config.yaml"

// DefaultCanvasWidth is the band view width used outside a terminal.
const DefaultCanvasWidth = 320

type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

type Canvas struct {
	Width int `yaml:"width"`
}

type Capture struct {
	Interval  time.Duration `yaml:"interval"`
	Realtime  bool          `yaml:"realtime"`
	Directory string        `yaml:"directory"`
	Preset    preset.Preset `yaml:"preset"`
}

type Export struct {
	Preset       preset.Preset `yaml:"preset"`
	BufferFrames int           `yaml:"buffer_frames"`
	Pending      int           `yaml:"pending"`
}

type Config struct {
	Log     Log     `yaml:"log"`
	Canvas  Canvas  `yaml:"canvas"`
	Capture Capture `yaml:"capture"`
	Export  Export  `yaml:"export"`
}

func Default() Config {
	return Config{
		Log:    Log{Level: "info"},
		Canvas: Canvas{Width: DefaultCanvasWidth},
		Capture: Capture{
			Interval:  capture.DefaultInterval,
			Realtime:  true,
			Directory: ".",
			Preset:    preset.Medium,
		},
		Export: Export{
			Preset:       preset.Medium,
			BufferFrames: container.DefaultBufferFrames,
			Pending:      transcode.DefaultPending,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/audtrim/config.yaml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}

	return filepath.Join(dir, "audtrim", FileName), nil
}

// Load reads path over the defaults. A missing or empty file yields
// Default(). Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	return decode(f, cfg)
}

// Parse reads a configuration from r over the defaults.
func Parse(r io.Reader) (Config, error) {
	return decode(r, Default())
}

func decode(r io.Reader, cfg Config) (Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Log.Level)
	}

	switch {
	case c.Canvas.Width <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidWidth, c.Canvas.Width)
	case c.Capture.Interval <= 0:
		return fmt.Errorf("%w: %s", ErrInvalidInterval, c.Capture.Interval)
	case c.Export.BufferFrames <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidBufferFrames, c.Export.BufferFrames)
	case c.Export.Pending <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidPending, c.Export.Pending)
	}

	return nil
}

// Logger builds a console logger at the configured level. Debug level also
// turns on development mode.
func (l Log) Logger() (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, l.Level)
	}

	zc := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Encoding = "console"
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return logger.Sugar(), nil
}
