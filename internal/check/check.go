// Package check provides the --check diagnostics for the external encoder:
// ffmpeg presence and version, libmp3lame availability, and a short test
// encode.
package check

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/backmassage/autotranscode/internal/config"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrFfmpegNotFound   = errors.New("ffmpeg not found")
	ErrLameUnavailable  = errors.New("ffmpeg has no libmp3lame encoder")
	ErrTestEncodeFailed = errors.New("MP3 test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// probeTimeout bounds every diagnostic ffmpeg call.
const probeTimeout = 30 * time.Second

// RunCheck prints the ffmpeg version and the outcome of [CheckDeps]. It
// reports whether every check passed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	if bin, err := exec.LookPath(cfg.FFmpegPath); err == nil {
		if v, err := Version(bin); err != nil {
			log.Warn("ffmpeg found but -version failed: %v", err)
		} else {
			log.Success("ffmpeg: %s", v)
		}
	}

	log.Info("Testing %s at %dk...", cfg.AudioCodec, cfg.BitrateKbps)
	err := CheckDeps(cfg)
	switch {
	case err == nil:
		log.Success("MP3 encoder %s available, test encode works", cfg.AudioCodec)
		return true
	case errors.Is(err, ErrFfmpegNotFound):
		log.Error("ffmpeg not found: %s", cfg.FFmpegPath)
	case errors.Is(err, ErrLameUnavailable):
		log.Error("MP3 encoder %s not listed by ffmpeg -encoders", cfg.AudioCodec)
	default:
		log.Error("Test encode failed")
	}
	return false
}

// CheckDeps verifies that ffmpeg resolves and can encode MP3 with the
// configured codec. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	bin, err := exec.LookPath(cfg.FFmpegPath)
	if err != nil {
		return ErrFfmpegNotFound
	}
	if !hasEncoder(bin, cfg.AudioCodec) {
		return ErrLameUnavailable
	}
	if !testEncode(bin, cfg) {
		return ErrTestEncodeFailed
	}
	return nil
}

// Version returns the first line of "ffmpeg -version".
func Version(bin string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, bin, "-version").Output()
	if err != nil {
		return "", err
	}
	return firstLine(string(out)), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	return s
}

// hasEncoder reports whether "ffmpeg -encoders" lists codec.
func hasEncoder(bin, codec string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, bin, "-hide_banner", "-encoders").Output()
	if err != nil {
		return false
	}
	return listsEncoder(string(out), codec)
}

// listsEncoder scans "ffmpeg -encoders" output, whose rows look like
// " A..... libmp3lame           libmp3lame MP3 (MPEG audio layer 3)".
func listsEncoder(out, codec string) bool {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == codec {
			return true
		}
	}
	return false
}

// testEncode runs a 0.1 s sine through the configured MP3 encoder.
func testEncode(bin string, cfg *config.Config) bool {
	return runSilent(bin, testEncodeArgs(cfg)...)
}

func testEncodeArgs(cfg *config.Config) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", cfg.AudioCodec, "-b:a", strconv.Itoa(cfg.BitrateKbps) + "k",
		"-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	return exec.CommandContext(ctx, name, args...).Run() == nil
}
