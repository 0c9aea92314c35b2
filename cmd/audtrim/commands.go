// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ik5/audtrim"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/band"
	"github.com/ik5/audtrim/capture"
	"github.com/ik5/audtrim/container"
	"github.com/ik5/audtrim/editor"
	"github.com/ik5/audtrim/internal/cli"
	"github.com/ik5/audtrim/internal/ui"
	"github.com/ik5/audtrim/preset"
	"github.com/ik5/audtrim/selection"
	"github.com/ik5/audtrim/timecode"
	"github.com/ik5/audtrim/transcode"
)

// presetFlag resolves an optional --preset value against a configured default.
func presetFlag(flag string, fallback preset.Preset) (preset.Preset, error) {
	if flag == "" {
		return fallback, nil
	}
	return preset.Parse(flag)
}

func (rt *runtime) transcoder() *transcode.Transcoder {
	files := container.NewFiles(
		container.WithBufferFrames(rt.cfg.Export.BufferFrames),
		container.WithLogger(rt.logger.With("component", "container")),
	)

	return transcode.New(files,
		transcode.WithPending(rt.cfg.Export.Pending),
		transcode.WithLogger(rt.logger.With("component", "transcode")),
	)
}

// waitExport prints the outcome of one export.
func (rt *runtime) waitExport(done <-chan transcode.Result) error {
	select {
	case res := <-done:
		if !res.Finished() {
			return res.Err
		}
		cli.PrintDone(rt.out, res.Output)
		cli.PrintField(rt.out, "Length", timecode.Format(res.Duration))
		return nil
	case <-rt.ctx.Done():
		// the session sees the same context and discards its output
		res := <-done
		return errors.Join(rt.ctx.Err(), res.Err)
	}
}

func probe(path string) (time.Duration, error) {
	dec, format, ok := container.DefaultRegistry().Lookup(path)
	if !ok {
		return 0, fmt.Errorf("%w: %q", container.ErrUnsupportedContainer, format)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	d, _ := audio.Duration(src)

	return d, nil
}

type RecordCmd struct {
	Input  string `arg:"" type:"existingfile" help:"WAV or AIFF file replayed as the microphone."`
	Dir    string `short:"d" type:"path" help:"Directory for the recording (default from config)."`
	Preset string `short:"p" enum:",low,medium,high" default:"" help:"Recording preset (low, medium, high)."`
	Fast   bool   `help:"Read the input as fast as possible instead of in real time."`
	Plain  bool   `help:"Do not start the interactive view."`
}

func (c *RecordCmd) Run(rt *runtime) error {
	p, err := presetFlag(c.Preset, rt.cfg.Capture.Preset)
	if err != nil {
		return err
	}
	dir := c.Dir
	if dir == "" {
		dir = rt.cfg.Capture.Directory
	}

	dec, format, ok := container.DefaultRegistry().Lookup(c.Input)
	if !ok {
		return fmt.Errorf("%w: %q", container.ErrUnsupportedContainer, format)
	}
	f, err := os.Open(c.Input)
	if err != nil {
		return err
	}
	defer f.Close()
	src, err := dec.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", c.Input, err)
	}
	defer src.Close()

	logger := rt.logger
	if !c.Plain {
		// the view owns the terminal while it runs
		logger = zap.NewNop().Sugar()
	}

	realtime := rt.cfg.Capture.Realtime && !c.Fast
	dev := capture.NewFileDevice(src, p, dir,
		capture.WithRealtime(realtime),
		capture.WithDeviceLogger(logger.With("component", "capture")),
	)
	if !dev.StartRecording() {
		return dev.Err()
	}

	sampler := capture.NewSampler(dev, rt.cfg.Capture.Interval)
	if err := sampler.Start(rt.ctx); err != nil {
		dev.Stop()
		return err
	}

	if c.Plain {
		select {
		case <-dev.Done():
		case <-rt.ctx.Done():
		}
	} else {
		go func() {
			<-dev.Done()
			sampler.Stop()
		}()
		model := ui.NewModel(dev.Path(), p.String(), sampler.Ticks())
		if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(rt.ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			logger.Errorw("view failed", "error", err)
		}
	}

	dev.Stop()
	trace := sampler.Stop()
	if err := dev.Err(); err != nil {
		return err
	}
	if !realtime {
		// a fast recording outruns the sampler
		if trace, _, err = audtrim.PowerTraceFile(dev.Path(), rt.cfg.Capture.Interval); err != nil {
			return err
		}
	}

	fmt.Fprintln(rt.out, cli.TitleStyle.Render("Recording saved"))
	cli.PrintField(rt.out, "File", dev.Path())
	cli.PrintField(rt.out, "Length", timecode.Format(dev.CurrentTime()))
	cli.PrintField(rt.out, "Readings", len(trace))
	fmt.Fprintln(rt.out, cli.RenderBands(band.Reduce(trace, rt.cfg.Canvas.Width)))

	return nil
}

type BandsCmd struct {
	File  string `arg:"" type:"existingfile" help:"Recording to reduce."`
	Width int    `short:"w" help:"Canvas width in columns (default from config)."`
}

func (c *BandsCmd) Run(rt *runtime) error {
	width := c.Width
	if width <= 0 {
		width = rt.cfg.Canvas.Width
	}

	trace, duration, err := audtrim.PowerTraceFile(c.File, rt.cfg.Capture.Interval)
	if err != nil {
		return err
	}
	res := band.Reduce(trace, width)

	cli.PrintField(rt.out, "Length", timecode.Format(duration))
	cli.PrintField(rt.out, "Readings", len(trace))
	cli.PrintField(rt.out, "Bands", len(res.Bands))
	cli.PrintField(rt.out, "Levels", res.Levels)
	cli.PrintField(rt.out, "Range", fmt.Sprintf("%.1f to %.1f (offset %.1f)", res.Range.Minimum, res.Range.Maximum, res.Range.Offset))
	fmt.Fprintln(rt.out, cli.RenderBands(res))

	return nil
}

type SelectCmd struct {
	File   string  `arg:"" type:"existingfile" help:"Recording to select from."`
	Width  int     `short:"w" help:"Canvas width in columns (default from config)."`
	Left   float64 `help:"Pixels to drag the left edge by (positive moves right)."`
	Right  float64 `help:"Pixels to drag the right edge by (negative moves left)."`
	Export bool    `short:"e" help:"Export the selection to <name>-edited.wav."`
	Preset string  `short:"p" enum:",low,medium,high" default:"" help:"Export preset (low, medium, high)."`
}

func (c *SelectCmd) Run(rt *runtime) error {
	width := c.Width
	if width <= 0 {
		width = rt.cfg.Canvas.Width
	}
	p, err := presetFlag(c.Preset, rt.cfg.Export.Preset)
	if err != nil {
		return err
	}

	trace, duration, err := audtrim.PowerTraceFile(c.File, rt.cfg.Capture.Interval)
	if err != nil {
		return err
	}

	ed := editor.New(c.File, trace, duration,
		editor.WithPreset(p),
		editor.WithTranscoder(rt.transcoder()),
		editor.WithLogger(rt.logger.With("component", "editor")),
	)
	_, canvas := ed.Layout(float64(width))

	if c.Left != 0 && !ed.Drag(selection.Left, c.Left) {
		rt.logger.Warnw("left drag ignored", "pixels", c.Left, "minWidth", selection.MinWidth)
	}
	if c.Right != 0 && !ed.Drag(selection.Right, c.Right) {
		rt.logger.Warnw("right drag ignored", "pixels", c.Right, "minWidth", selection.MinWidth)
	}

	res := ed.Bands()
	rect, _, _ := ed.Selection()
	from := int(rect.X - canvas.Start)
	fmt.Fprintln(rt.out, cli.RenderBands(res))
	fmt.Fprintln(rt.out, cli.Marker(res.CanvasWidth, from, from+int(rect.Width)))

	rng := ed.SelectedRange()
	cli.PrintField(rt.out, "Selection", ed.DisplayRange())
	cli.PrintField(rt.out, "Exact", fmt.Sprintf("%v - %v", rng.Start, rng.End))

	if !c.Export {
		return nil
	}

	done, err := ed.Export(rt.ctx)
	if err != nil {
		return err
	}

	return rt.waitExport(done)
}

type TrimCmd struct {
	File   string        `arg:"" type:"existingfile" help:"Recording to trim."`
	Start  time.Duration `short:"s" help:"Start of the range (e.g. 1.5s)."`
	End    time.Duration `short:"e" help:"End of the range (default: end of the recording)."`
	Preset string        `short:"p" enum:",low,medium,high" default:"" help:"Export preset (low, medium, high)."`
	Output string        `short:"o" type:"path" help:"Output file (default: <name>-edited.wav)."`
}

func (c *TrimCmd) Run(rt *runtime) error {
	p, err := presetFlag(c.Preset, rt.cfg.Export.Preset)
	if err != nil {
		return err
	}

	duration, err := probe(c.File)
	if err != nil {
		return err
	}
	end := c.End
	if end == 0 {
		end = duration
	}
	rng := selection.TimeRange{Start: c.Start, End: end}.Clamp(duration)

	s, err := rt.transcoder().Export(rt.ctx, transcode.Request{
		Source: c.File,
		Output: c.Output,
		Range:  rng,
		Preset: p,
	})
	if err != nil {
		return err
	}

	cli.PrintField(rt.out, "Range", timecode.FormatRange(rng))
	cli.PrintField(rt.out, "Preset", fmt.Sprintf("%s (%d Hz)", p, p.SampleRate()))

	return rt.waitExport(s.Done())
}

type VersionCmd struct{}

func (c *VersionCmd) Run(rt *runtime) error {
	cli.PrintVersion(rt.out, version)
	return nil
}
