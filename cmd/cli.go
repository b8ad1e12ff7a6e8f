package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/govis/internal/app"
	"github.com/tejashwikalptaru/govis/internal/config"
	"github.com/tejashwikalptaru/govis/internal/logger"
	"github.com/tejashwikalptaru/govis/internal/visualizer/modules"
)

// options holds the flags shared by every command.
type options struct {
	configPath string
	file       string
	module     string
	fftSize    int
	analyzer   bool
	noFPS      bool
	logLevel   string
}

// renderFlags holds the render command flags.
type renderFlags struct {
	frames int
	fps    int
	width  int
	height int
	out    string
}

// runner starts the window. Tests replace it.
type runner func(cfg app.Config) error

func runWindow(cfg app.Config) error {
	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Blocks until the window is closed
	application.Run()
	return nil
}

// loadConfig reads the config file and applies the flags that map onto it.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("fft-size") {
		cfg.Audio.FFTSize = o.fftSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newRootCommand(out io.Writer, run runner) *cobra.Command {
	info := app.GetVersionInfo()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "govis",
		Short:         "Audio-reactive visualizer",
		Version:       info.FullString(),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			cfg := app.FromFile(fc)
			cfg.File = opts.file
			cfg.Overrides = app.Overrides{
				Module:   opts.module,
				Analyzer: opts.analyzer,
				NoFPS:    opts.noFPS,
			}
			return run(cfg)
		},
	}
	rootCmd.SetOut(out)

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "",
		"Config file path (default ./"+config.DefaultFile+" when present)")
	flags.StringVarP(&opts.file, "file", "f", "",
		"Audio file to play on launch")
	flags.StringVarP(&opts.module, "module", "m", "",
		"Visualization module, see 'modules'")
	flags.IntVar(&opts.fftSize, "fft-size", config.Default().Audio.FFTSize,
		"Analyser FFT size, a power of two")
	flags.BoolVarP(&opts.analyzer, "analyzer", "a", false,
		"Show the analyzer overlay")
	flags.BoolVar(&opts.noFPS, "no-fps", false,
		"Hide the FPS counter")
	flags.StringVarP(&opts.logLevel, "log-level", "l", "info",
		"Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newRenderCommand(opts),
		newModulesCommand(),
		newVersionCommand(),
	)
	return rootCmd
}

func newRenderCommand(opts *options) *cobra.Command {
	rf := &renderFlags{}
	defaults := app.DefaultRenderOptions()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames of an audio file to PNG images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg := app.FromFile(fc)

			level, _ := logger.ParseLevel(fc.Log.Level)
			log := logger.NewLogger(logger.Config{Level: level, Format: fc.Log.Format})

			ro := app.RenderOptions{
				File:     opts.file,
				Module:   cfg.Module,
				Frames:   rf.frames,
				FPS:      rf.fps,
				Width:    rf.width,
				Height:   rf.height,
				OutDir:   rf.out,
				FFTSize:  cfg.FFTSize,
				Analyzer: cfg.ShowAnalyzer || opts.analyzer,
				ShowFPS:  cfg.ShowFPS && !opts.noFPS,
				Settings: cfg.Modules,
				Tuning:   cfg.Analyzer,
			}
			if opts.module != "" {
				ro.Module = opts.module
			}

			paths, err := app.Render(cmd.Context(), log, ro)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", len(paths), rf.out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&rf.frames, "frames", "n", 0,
		"Number of frames, 0 renders the whole file")
	cmd.Flags().IntVar(&rf.fps, "fps", defaults.FPS, "Frames per second")
	cmd.Flags().IntVar(&rf.width, "width", defaults.Width, "Image width in pixels")
	cmd.Flags().IntVar(&rf.height, "height", defaults.Height, "Image height in pixels")
	cmd.Flags().StringVarP(&rf.out, "out", "o", defaults.OutDir, "Output directory")
	return cmd
}

func newModulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the visualization modules",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range modules.NewRegistry(modules.DefaultSettings()).Types() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", m.Type, m.Name)
			}
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.GetVersionInfo().FullString())
		},
	}
}

func execute(ctx context.Context, args []string, out io.Writer, run runner) error {
	rootCmd := newRootCommand(out, run)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
