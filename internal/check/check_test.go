package check

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/autotranscode/internal/config"
)

func TestListsEncoder(t *testing.T) {
	out := `Encoders:
 V..... = Video
 ------
 A....D aac                  AAC (Advanced Audio Coding)
 A..... libmp3lame           libmp3lame MP3 (MPEG audio layer 3) (codec mp3)
 A..... flac                 FLAC (Free Lossless Audio Codec)
`
	tests := []struct {
		codec string
		want  bool
	}{
		{"libmp3lame", true},
		{"aac", true},
		{"libshine", false},
		{"MP3", false},
	}
	for _, tt := range tests {
		if got := listsEncoder(out, tt.codec); got != tt.want {
			t.Errorf("listsEncoder(%q) = %v, want %v", tt.codec, got, tt.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	in := "ffmpeg version 6.1.1 Copyright (c) 2000-2023\nbuilt with gcc\n"
	if got := firstLine(in); got != "ffmpeg version 6.1.1 Copyright (c) 2000-2023" {
		t.Errorf("firstLine = %q", got)
	}
}

func TestTestEncodeArgs(t *testing.T) {
	cfg := config.DefaultConfig()
	args := strings.Join(testEncodeArgs(&cfg), " ")
	if !strings.Contains(args, "-c:a libmp3lame -b:a 320k") {
		t.Errorf("args = %s", args)
	}
	if !strings.HasSuffix(args, "-f null -") {
		t.Errorf("test encode should discard output: %s", args)
	}
}

type recLogger struct{ errors []string }

func (r *recLogger) Info(string, ...interface{})    {}
func (r *recLogger) Success(string, ...interface{}) {}
func (r *recLogger) Warn(string, ...interface{})    {}
func (r *recLogger) Error(f string, _ ...interface{}) {
	r.errors = append(r.errors, f)
}

func TestCheckDeps_MissingBinary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegPath = filepath.Join(t.TempDir(), "no-such-ffmpeg")
	if err := CheckDeps(&cfg); !errors.Is(err, ErrFfmpegNotFound) {
		t.Errorf("CheckDeps = %v, want ErrFfmpegNotFound", err)
	}

	log := &recLogger{}
	if RunCheck(&cfg, log) {
		t.Error("RunCheck passed without ffmpeg")
	}
	if len(log.errors) != 1 || !strings.HasPrefix(log.errors[0], "ffmpeg not found") {
		t.Errorf("errors = %v, want one ffmpeg-not-found error", log.errors)
	}
}

func TestRunCheck_RealFFmpeg(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	cfg := config.DefaultConfig()
	err := CheckDeps(&cfg)
	if errors.Is(err, ErrLameUnavailable) {
		t.Skip("ffmpeg built without libmp3lame")
	}
	if err != nil {
		t.Fatalf("CheckDeps: %v", err)
	}
	if !RunCheck(&cfg, &recLogger{}) {
		t.Error("RunCheck failed although CheckDeps passed")
	}
}
