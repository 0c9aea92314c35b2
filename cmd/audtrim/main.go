// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/ik5/audtrim/config"
	"github.com/ik5/audtrim/internal/cli"
)

var (
	version = "0.1.0"
)

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" type:"path" help:"Path to YAML config file (default: user config dir)."`
	LogLevel string `name:"log-level" enum:",debug,info,warn,error" default:"" help:"Override the configured log level."`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Record  RecordCmd  `cmd:"" help:"Record an input into a new WAV file while showing its level."`
	Bands   BandsCmd   `cmd:"" help:"Print the band view of a recording."`
	Select  SelectCmd  `cmd:"" help:"Drag the selection edges over the band view and print the time range."`
	Trim    TrimCmd    `cmd:"" help:"Export a time range of a recording to <name>-edited.wav."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// runtime is handed to every command's Run
type runtime struct {
	ctx    context.Context
	cfg    config.Config
	logger *zap.SugaredLogger
	out    io.Writer
}

func main() {
	cliArgs := &CLI{}
	kctx := kong.Parse(cliArgs,
		kong.Name("audtrim"),
		kong.Description("Record, inspect and trim PCM audio."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"version": version,
		},
	)

	rt, err := newRuntime(cliArgs.Globals)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	defer rt.logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rt.ctx = ctx

	if err := kctx.Run(rt); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func newRuntime(g Globals) (*runtime, error) {
	path := g.Config
	if path == "" {
		p, err := config.DefaultPath()
		if err == nil {
			path = p
		}
	}

	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}

	logger, err := cfg.Log.Logger()
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, out: os.Stdout}, nil
}
