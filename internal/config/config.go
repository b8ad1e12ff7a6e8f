// Package config loads the GoVis YAML configuration: built-in defaults, then an
// optional file, then GOVIS_* environment overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tejashwikalptaru/govis/internal/domain"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "govis.yaml"

// Config is the root of govis.yaml.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Audio      AudioConfig      `yaml:"audio"`
	Window     WindowConfig     `yaml:"window"`
	Visualizer VisualizerConfig `yaml:"visualizer"`
	Circular   CircularConfig   `yaml:"circular"`
	Spectrum   SpectrumConfig   `yaml:"spectrum"`
	Analyzer   AnalyzerConfig   `yaml:"analyzer"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// AudioConfig tunes the spectrum analyser and the output device.
type AudioConfig struct {
	FFTSize     int     `yaml:"fft_size"`     // power of two in [32, 32768]
	Smoothing   float64 `yaml:"smoothing"`    // smoothing time constant in [0, 1]
	MinDecibels float64 `yaml:"min_decibels"` // maps to byte 0
	MaxDecibels float64 `yaml:"max_decibels"` // maps to byte 255
	SampleRate  int     `yaml:"sample_rate"`  // output rate in Hz, 0 follows the first track
}

// WindowConfig sizes the main window.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
}

// VisualizerConfig sets the state the frame loop starts in.
type VisualizerConfig struct {
	Module       string `yaml:"module"`
	ShowFPS      bool   `yaml:"show_fps"`
	ShowAnalyzer bool   `yaml:"show_analyzer"`
	Autostart    bool   `yaml:"autostart"`
	// Remember restores the last module and overlay flags on launch.
	Remember     bool   `yaml:"remember"`
}

// CircularConfig configures the circular bars module.
type CircularConfig struct {
	Amount         int     `yaml:"amount"`
	Inward         bool    `yaml:"inward"`
	TotalAngle     float64 `yaml:"total_angle"`
	AutoRotate     bool    `yaml:"auto_rotate"`
	PrimaryColor   string  `yaml:"primary_color"`
	SecondaryColor string  `yaml:"secondary_color"`
	Background     string  `yaml:"background"`
}

// SpectrumConfig configures the spectrum bars module.
type SpectrumConfig struct {
	Bars           int    `yaml:"bars"`
	PrimaryColor   string `yaml:"primary_color"`
	SecondaryColor string `yaml:"secondary_color"`
	CapColor       string `yaml:"cap_color"`
	Background     string `yaml:"background"`
}

// AnalyzerConfig tunes the analyzer overlay.
type AnalyzerConfig struct {
	BarWidth   float64 `yaml:"bar_width"`
	Spacing    float64 `yaml:"spacing"`
	Threshold  float64 `yaml:"threshold"`
	SampleRate float64 `yaml:"sample_rate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Audio: AudioConfig{
			FFTSize:     2048,
			Smoothing:   0.8,
			MinDecibels: -100,
			MaxDecibels: -30,
			SampleRate:  0,
		},
		Window: WindowConfig{Width: 1024, Height: 640},
		Visualizer: VisualizerConfig{
			Module:    "circular",
			ShowFPS:   true,
			Autostart: true,
			Remember:  true,
		},
		Circular: CircularConfig{
			Amount:         100,
			TotalAngle:     360,
			PrimaryColor:   "#ba88bf",
			SecondaryColor: "#ba88bf",
			Background:     "#001027",
		},
		Spectrum: SpectrumConfig{
			Bars:           64,
			PrimaryColor:   "#ba88bf",
			SecondaryColor: "#b8ff88",
			CapColor:       "#ffffff",
			Background:     "#001027",
		},
		Analyzer: AnalyzerConfig{
			BarWidth:   25,
			Spacing:    3,
			Threshold:  255,
			SampleRate: 44100,
		},
	}
}

// LoadConfig loads configuration from the YAML file at path. An empty path
// looks for DefaultFile in the working directory and falls back to the
// built-in defaults when it is absent. Environment overrides apply last.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every field with a constrained range. All failures are
// joined into the returned error as *domain.ValidationError values.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, field string, value any, msg string) {
		if !ok {
			errs = append(errs, domain.NewValidationError(field, value, msg))
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		check(false, "log.format", c.Log.Format, "must be text or json")
	}

	n := c.Audio.FFTSize
	check(n >= 32 && n <= 32768 && bits.OnesCount(uint(n)) == 1,
		"audio.fft_size", n, "must be a power of two between 32 and 32768")
	check(c.Audio.Smoothing >= 0 && c.Audio.Smoothing <= 1,
		"audio.smoothing", c.Audio.Smoothing, "must be within [0, 1]")
	check(c.Audio.MinDecibels < c.Audio.MaxDecibels,
		"audio.min_decibels", c.Audio.MinDecibels, "must be below audio.max_decibels")
	check(c.Audio.SampleRate >= 0, "audio.sample_rate", c.Audio.SampleRate, "must not be negative")

	check(c.Window.Width > 0, "window.width", c.Window.Width, "must be positive")
	check(c.Window.Height > 0, "window.height", c.Window.Height, "must be positive")

	check(c.Circular.Amount >= 0, "circular.amount", c.Circular.Amount, "must not be negative")
	check(c.Spectrum.Bars > 0, "spectrum.bars", c.Spectrum.Bars, "must be positive")

	check(c.Analyzer.BarWidth > 0, "analyzer.bar_width", c.Analyzer.BarWidth, "must be positive")
	check(c.Analyzer.Spacing >= 0, "analyzer.spacing", c.Analyzer.Spacing, "must not be negative")
	check(c.Analyzer.SampleRate > 0, "analyzer.sample_rate", c.Analyzer.SampleRate, "must be positive")

	return errors.Join(errs...)
}

func (c *Config) applyEnvOverrides() error {
	var errs []error
	str := func(key string, dst *string) {
		if val, ok := os.LookupEnv(key); ok {
			*dst = val
		}
	}
	integer := func(key string, dst *int) {
		if val, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if val, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("GOVIS_LOG_LEVEL", &c.Log.Level)
	str("GOVIS_LOG_FORMAT", &c.Log.Format)
	integer("GOVIS_FFT_SIZE", &c.Audio.FFTSize)
	integer("GOVIS_SAMPLE_RATE", &c.Audio.SampleRate)
	str("GOVIS_MODULE", &c.Visualizer.Module)
	boolean("GOVIS_SHOW_FPS", &c.Visualizer.ShowFPS)
	boolean("GOVIS_SHOW_ANALYZER", &c.Visualizer.ShowAnalyzer)
	boolean("GOVIS_FULLSCREEN", &c.Window.Fullscreen)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}
