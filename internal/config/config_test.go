package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/music/library", "/music/library"},
		{"single trailing slash", "/music/library/", "/music/library"},
		{"multiple trailing slashes", "/music/library///", "/music/library"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MinSizeKB != 200 {
		t.Errorf("MinSizeKB = %d, want 200", cfg.MinSizeKB)
	}
	if cfg.Threads < 1 {
		t.Errorf("Threads = %d, want >= 1", cfg.Threads)
	}
	if cfg.BitrateKbps != 320 || cfg.AudioCodec != "libmp3lame" {
		t.Errorf("encoder = %d/%s, want 320/libmp3lame", cfg.BitrateKbps, cfg.AudioCodec)
	}
	if cfg.DeleteSmall {
		t.Error("DeleteSmall should default to false")
	}
}

func TestValidate_Threads(t *testing.T) {
	tests := []struct {
		name        string
		threads     int
		want        int
		wantClamped bool
	}{
		{"positive kept", 4, 4, false},
		{"one kept", 1, 1, false},
		{"zero clamped", 0, 1, true},
		{"negative clamped", -3, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			cfg.Threads = tt.threads
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if cfg.Threads != tt.want || cfg.ThreadsClamped != tt.wantClamped {
				t.Errorf("Threads=%d clamped=%v, want %d/%v", cfg.Threads, cfg.ThreadsClamped, tt.want, tt.wantClamped)
			}
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults in check mode", func(c *Config) { c.CheckOnly = true }, false},
		{"missing paths", func(c *Config) {}, true},
		{"paths set", func(c *Config) { c.InputDir, c.OutputDir = "in", "out" }, false},
		{"negative min size", func(c *Config) { c.CheckOnly = true; c.MinSizeKB = -1 }, true},
		{"zero min size", func(c *Config) { c.CheckOnly = true; c.MinSizeKB = 0 }, false},
		{"bad color", func(c *Config) { c.CheckOnly = true; c.ColorMode = "rainbow" }, true},
		{"empty ffmpeg", func(c *Config) { c.CheckOnly = true; c.FFmpegPath = " " }, true},
		{"negative debounce", func(c *Config) { c.CheckOnly = true; c.WatchDebounce = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOutputInsideInput(t *testing.T) {
	tests := []struct {
		name          string
		input, output string
		want          bool
	}{
		{"sibling", "/music/flac", "/music/mp3", false},
		{"nested", "/music", "/music/mp3", true},
		{"equal", "/music", "/music", true},
		{"prefix but not child", "/music", "/music-mp3", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputInsideInput(tt.input, tt.output); got != tt.want {
				t.Errorf("OutputInsideInput(%q, %q) = %v, want %v", tt.input, tt.output, got, tt.want)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.ValidatePaths("/music", "/music"); err == nil {
		t.Error("expected error for identical input and output")
	}
	if err := cfg.ValidatePaths("/music", "/music/mp3"); err != nil {
		t.Errorf("nested output should be allowed: %v", err)
	}
}

func TestBindFlags(t *testing.T) {
	cfg := DefaultConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	n := BindFlags(fs, &cfg)

	err := fs.Parse([]string{"--threads", "3", "--min-size", "64", "--delete-small", "--no-color", "-v", "in/", "out"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ApplyNegatedFlags(&cfg, n)
	if err := ApplyPositionalArgs(&cfg, fs.Args()); err != nil {
		t.Fatalf("ApplyPositionalArgs: %v", err)
	}

	if cfg.Threads != 3 || cfg.MinSizeKB != 64 || !cfg.DeleteSmall || !cfg.Verbose {
		t.Errorf("unexpected cfg: %+v", cfg)
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q, want never", cfg.ColorMode)
	}
	if cfg.InputDir != "in" || cfg.OutputDir != "out" {
		t.Errorf("paths = %q/%q", cfg.InputDir, cfg.OutputDir)
	}
}

func TestApplyPositionalArgs_WrongCount(t *testing.T) {
	cfg := DefaultConfig()
	if err := ApplyPositionalArgs(&cfg, []string{"only-one"}); err == nil {
		t.Error("expected error for one positional arg")
	}
	cfg.CheckOnly = true
	if err := ApplyPositionalArgs(&cfg, nil); err != nil {
		t.Errorf("check mode should ignore positional args: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "autotranscode.yaml")
	content := "threads: 6\nmin_size_kb: 128\ndelete_small: true\nffmpeg: /opt/ffmpeg/bin/ffmpeg\nwatch_debounce: 500ms\ncolor: never\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	changed := func(name string) bool { return name == "threads" }
	cfg.Threads = 2 // explicit flag value must win
	if err := LoadFile(path, &cfg, changed); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Threads != 2 {
		t.Errorf("Threads = %d, want explicit flag value 2", cfg.Threads)
	}
	if cfg.MinSizeKB != 128 || !cfg.DeleteSmall {
		t.Errorf("discovery settings not applied: %+v", cfg)
	}
	if cfg.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath = %q", cfg.FFmpegPath)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("WatchDebounce = %v", cfg.WatchDebounce)
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q", cfg.ColorMode)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()

	if err := LoadFile(filepath.Join(dir, "missing.yaml"), &cfg, nil); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("watch_debounce: soon\n"), 0o644)
	if err := LoadFile(bad, &cfg, nil); err == nil {
		t.Error("expected error for unparsable duration")
	}

	badColor := filepath.Join(dir, "color.yaml")
	os.WriteFile(badColor, []byte("color: sometimes\n"), 0o644)
	if err := LoadFile(badColor, &cfg, nil); err == nil {
		t.Error("expected error for invalid color")
	}
}
