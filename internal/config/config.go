// Package config holds runtime configuration: defaults, CLI flag binding,
// the optional YAML config file, and validation.
package config

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by the YAML file ([LoadFile]) and CLI flags ([BindFlags]) before
// being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args).
	InputDir  string
	OutputDir string

	// Discovery.
	MinSizeKB   int  // Default: 200. Files below this are treated as fake.
	DeleteSmall bool // Remove undersized files instead of only skipping them.

	// Workers.
	Threads        int  // Default: runtime.NumCPU(). Clamped to >= 1 by Validate.
	ThreadsClamped bool // Set by Validate when Threads was raised to 1.

	// Encoder settings.
	FFmpegPath  string // Default: "ffmpeg" (resolved on PATH).
	BitrateKbps int    // Fixed: 320 (constant bitrate).
	AudioCodec  string // Fixed: "libmp3lame".

	// Behavior flags.
	DryRun        bool
	Verify        bool          // Decode produced MP3 frames after each transcode.
	Watch         bool          // Keep watching the input tree after the batch.
	WatchDebounce time.Duration // Default: 2s.

	// Display and logging.
	Verbose    bool
	ColorMode  ColorMode // Default: "auto".
	LogFile    string    // Optional log file path.
	ReportFile string    // Optional YAML run report path.
	ConfigFile string    // Optional YAML config file.
	CheckOnly  bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		MinSizeKB:     200,
		DeleteSmall:   false,
		Threads:       runtime.NumCPU(),
		FFmpegPath:    "ffmpeg",
		BitrateKbps:   320,
		AudioCodec:    "libmp3lame",
		WatchDebounce: 2 * time.Second,
		ColorMode:     ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and numeric fields. A thread count below 1 is raised
// to 1 (ThreadsClamped records that it happened). When not in CheckOnly
// mode, both directory paths must be non-empty.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.MinSizeKB < 0 {
		return errors.New("min-size must not be negative")
	}
	if c.WatchDebounce < 0 {
		return errors.New("watch-debounce must not be negative")
	}
	if strings.TrimSpace(c.FFmpegPath) == "" {
		return errors.New("ffmpeg path must not be empty")
	}

	c.ThreadsClamped = false
	if c.Threads < 1 {
		c.Threads = 1
		c.ThreadsClamped = true
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("need exactly input_folder and output_folder")
	}
	return nil
}

// OutputInsideInput reports whether the resolved output directory is inside
// (or equal to) the resolved input directory. Both arguments must be
// absolute, symlink-resolved paths. Discovery prunes the output directory in
// that case so earlier results are not picked up as inputs.
func OutputInsideInput(inputAbs, outputAbs string) bool {
	sep := string(filepath.Separator)
	return outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep)
}

// ValidatePaths rejects an output directory equal to the input directory:
// copied MP3s would then land next to their sources.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if inputAbs == outputAbs {
		return errors.New("output folder must differ from input folder")
	}
	return nil
}
