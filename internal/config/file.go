package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file. Pointer fields distinguish
// "absent" from a zero value so only keys present in the file are applied.
type fileConfig struct {
	Threads       *int    `yaml:"threads"`
	MinSizeKB     *int    `yaml:"min_size_kb"`
	DeleteSmall   *bool   `yaml:"delete_small"`
	FFmpeg        *string `yaml:"ffmpeg"`
	Verify        *bool   `yaml:"verify"`
	Watch         *bool   `yaml:"watch"`
	WatchDebounce *string `yaml:"watch_debounce"`
	Verbose       *bool   `yaml:"verbose"`
	Color         *string `yaml:"color"`
	LogFile       *string `yaml:"log_file"`
	ReportFile    *string `yaml:"report_file"`
}

// LoadFile reads the YAML file at path and applies every key whose
// corresponding flag was not set on the command line. changed reports
// whether a flag (by long name) was given explicitly; nil means none were.
func LoadFile(path string, cfg *Config, changed func(flag string) bool) error {
	if changed == nil {
		changed = func(string) bool { return false }
	}

	resolved, err := resolveConfigPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Threads != nil && !changed("threads") {
		cfg.Threads = *fc.Threads
	}
	if fc.MinSizeKB != nil && !changed("min-size") {
		cfg.MinSizeKB = *fc.MinSizeKB
	}
	if fc.DeleteSmall != nil && !changed("delete-small") {
		cfg.DeleteSmall = *fc.DeleteSmall
	}
	if fc.FFmpeg != nil && !changed("ffmpeg") {
		cfg.FFmpegPath = strings.TrimSpace(*fc.FFmpeg)
	}
	if fc.Verify != nil && !changed("verify") {
		cfg.Verify = *fc.Verify
	}
	if fc.Watch != nil && !changed("watch") {
		cfg.Watch = *fc.Watch
	}
	if fc.WatchDebounce != nil && !changed("watch-debounce") {
		d, err := time.ParseDuration(strings.TrimSpace(*fc.WatchDebounce))
		if err != nil {
			return fmt.Errorf("config %s: watch_debounce: %w", path, err)
		}
		cfg.WatchDebounce = d
	}
	if fc.Verbose != nil && !changed("verbose") {
		cfg.Verbose = *fc.Verbose
	}
	if fc.Color != nil && !changed("color") && !changed("no-color") {
		if err := (&colorModeValue{&cfg.ColorMode}).Set(*fc.Color); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	if fc.LogFile != nil && !changed("log") {
		cfg.LogFile = strings.TrimSpace(*fc.LogFile)
	}
	if fc.ReportFile != nil && !changed("report") {
		cfg.ReportFile = strings.TrimSpace(*fc.ReportFile)
	}
	return nil
}

func resolveConfigPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return filepath.Abs(path)
}
