package config

// This file binds CLI flags onto a Config. Flags are grouped into workers,
// discovery, encoding, behavior, display and utility. Negated flags
// (--no-color) are applied after parsing so Config defaults hold unless set.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// NegatedFlags holds boolean flags applied after parsing by [ApplyNegatedFlags].
type NegatedFlags struct {
	forceColor bool
	noColor    bool
}

// BindFlags registers every flag on fs, writing straight into cfg. The
// returned NegatedFlags must be passed to [ApplyNegatedFlags] once fs has
// been parsed.
func BindFlags(fs *pflag.FlagSet, cfg *Config) *NegatedFlags {
	n := &NegatedFlags{}
	defineWorkerFlags(fs, cfg)
	defineDiscoveryFlags(fs, cfg)
	defineEncodingFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, n)
	return n
}

// defineWorkerFlags registers -t/--threads.
func defineWorkerFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVarP(&cfg.Threads, "threads", "t", cfg.Threads, "Number of concurrent workers (default: number of CPUs)")
}

// defineDiscoveryFlags registers --min-size and --delete-small.
func defineDiscoveryFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.MinSizeKB, "min-size", cfg.MinSizeKB, "Minimum file size in KB; smaller files are treated as fake")
	fs.BoolVar(&cfg.DeleteSmall, "delete-small", false, "Delete small files that are likely fake")
}

// defineEncodingFlags registers --ffmpeg and --verify.
func defineEncodingFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg binary to run")
	fs.BoolVar(&cfg.Verify, "verify", false, "Decode each produced MP3 and fail the file if no frame decodes")
}

// defineBehaviorFlags registers dry-run, watch and the watch debounce.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Preview only; do not write, copy or delete")
	fs.BoolVarP(&cfg.Watch, "watch", "w", false, "Keep watching the input folder for new files after the batch")
	fs.DurationVar(&cfg.WatchDebounce, "watch-debounce", cfg.WatchDebounce, "Quiet period before a watch rescan")
}

// defineDisplayFlags registers colors, verbose, --check, --log, --report, --config.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, n *NegatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", false, "Run system diagnostics and exit")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
	fs.StringVar(&cfg.ReportFile, "report", "", "Write a YAML run report to file")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Read defaults from a YAML config file")
}

// ApplyNegatedFlags copies negated and override flag values into cfg.
func ApplyNegatedFlags(cfg *Config, n *NegatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// ApplyPositionalArgs sets InputDir and OutputDir from the two positional
// args. In CheckOnly mode positional args are ignored.
func ApplyPositionalArgs(cfg *Config, args []string) error {
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("need exactly input_folder and output_folder (got %d args)", len(args))
	}
	cfg.InputDir = NormalizeDirArg(args[0])
	cfg.OutputDir = NormalizeDirArg(args[1])
	return nil
}

// colorModeValue is a pflag.Value adapter for ColorMode, used by the YAML
// loader to share the same parsing rules as the CLI.
type colorModeValue struct{ p *ColorMode }

func (c *colorModeValue) String() string { return string(*c.p) }
func (c *colorModeValue) Type() string   { return "color" }
func (c *colorModeValue) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		*c.p = ColorAuto
	case "always":
		*c.p = ColorAlways
	case "never":
		*c.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
