package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"

	"github.com/tejashwikalptaru/govis/internal/adapter/audio/analyser"
	"github.com/tejashwikalptaru/govis/internal/adapter/audio/player"
	"github.com/tejashwikalptaru/govis/internal/adapter/canvas/raster"
	"github.com/tejashwikalptaru/govis/internal/adapter/frame"
	"github.com/tejashwikalptaru/govis/internal/domain"
	"github.com/tejashwikalptaru/govis/internal/logger"
	"github.com/tejashwikalptaru/govis/internal/visualizer"
	"github.com/tejashwikalptaru/govis/internal/visualizer/modules"
)

// RenderOptions configures an offline render.
type RenderOptions struct {
	// File is the audio input. Empty renders silence.
	File string
	// Module is the module name.
	Module string
	// Frames is the number of frames to write. Zero renders the whole file.
	Frames int
	// FPS is the simulated frame rate.
	FPS int
	// Width and Height are the image size in pixels.
	Width, Height int
	// OutDir receives frame_00000.png and so on.
	OutDir string

	FFTSize  int
	Analyzer bool
	ShowFPS  bool
	Settings modules.Settings
	Tuning   AnalyzerTuning
}

// DefaultRenderOptions returns a 60 fps render of the circular module.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Module:   string(modules.TypeCircular),
		FPS:      60,
		Width:    1024,
		Height:   640,
		OutDir:   "frames",
		FFTSize:  analyser.DefaultFFTSize,
		Settings: modules.DefaultSettings(),
	}
}

func (o RenderOptions) validate() error {
	var errs []error
	if o.FPS <= 0 {
		errs = append(errs, domain.NewValidationError("fps", o.FPS, "must be positive"))
	}
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, domain.NewValidationError("size", fmt.Sprintf("%dx%d", o.Width, o.Height), "must be positive"))
	}
	if o.Frames < 0 {
		errs = append(errs, domain.NewValidationError("frames", o.Frames, "must not be negative"))
	}
	if o.File == "" && o.Frames == 0 {
		errs = append(errs, domain.NewValidationError("frames", o.Frames, "required without an input file"))
	}
	if o.OutDir == "" {
		errs = append(errs, domain.NewValidationError("out", o.OutDir, "must not be empty"))
	}
	return errors.Join(errs...)
}

// Render drives the visualizer from a simulated clock and writes one PNG per
// frame. Each frame feeds 1/FPS seconds of audio to the analyser first. It
// returns the paths written, which are valid even when an error is returned.
func Render(ctx context.Context, log *slog.Logger, opts RenderOptions) ([]string, error) {
	if log == nil {
		log = logger.NewDiscardLogger()
	}
	log = log.With(slog.String("component", "render"))

	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid render options: %w", err)
	}

	a, err := analyser.NewAnalyser(opts.FFTSize)
	if err != nil {
		return nil, err
	}

	registry := modules.NewRegistry(opts.Settings)
	factory, err := registry.Factory(opts.Module)
	if err != nil {
		return nil, err
	}

	surface, err := raster.New(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	surface.SetLogger(log)

	var (
		in         io.Reader
		sampleRate = player.DefaultSampleRate
		frames     = opts.Frames
	)
	if opts.File != "" {
		stream, err := player.OpenStream(opts.File)
		if err != nil {
			return nil, err
		}
		defer func() { _ = stream.Close() }()
		in = stream
		sampleRate = stream.Track.SampleRate
		if frames == 0 {
			frames = int(math.Ceil(stream.Track.Duration.Seconds() * float64(opts.FPS)))
		}
		log.Info("rendering track", slog.String("track", stream.Track.DisplayName()), slog.Int("frames", frames))
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	scheduler := frame.NewManual()
	clock := frame.NewSimulatedClock(0)
	vis := visualizer.New(log, surface, a, scheduler)
	vis.SetClock(clock)
	vis.SetAnalyzerEnabled(opts.Analyzer)
	vis.SetFPSVisible(opts.ShowFPS)
	tuneAnalyzer(vis.Analyzer(), opts.Tuning)
	vis.UseModule(opts.Module, factory)
	vis.Start()
	defer vis.Stop()

	step := time.Second / time.Duration(opts.FPS)
	chunk := make([]byte, sampleRate/opts.FPS*2*2)
	written := make([]string, 0, frames)

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		if in == nil {
			clear(chunk)
		} else {
			n, err := io.ReadFull(in, chunk)
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
				// Silence after the end of the input
				clear(chunk[n:])
				in = nil
			case err != nil:
				return written, fmt.Errorf("failed to read audio: %w", err)
			}
		}
		a.WritePCM16(chunk, 2)

		clock.Advance(step)
		scheduler.Step()

		path := filepath.Join(opts.OutDir, fmt.Sprintf("frame_%05d.png", i))
		if err := gg.SavePNG(path, surface.Snapshot()); err != nil {
			return written, fmt.Errorf("failed to write frame %d: %w", i, err)
		}
		written = append(written, path)
	}

	log.Info("render complete", slog.Int("frames", len(written)), slog.String("dir", opts.OutDir))
	return written, nil
}
