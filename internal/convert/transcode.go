package convert

import (
	"context"
	"os"
	"strings"

	"github.com/backmassage/autotranscode/internal/audiometa"
	"github.com/backmassage/autotranscode/internal/display"
	"github.com/backmassage/autotranscode/internal/ffmpeg"
	"github.com/backmassage/autotranscode/internal/media"
	"github.com/backmassage/autotranscode/internal/naming"
)

// Transcoder encodes FLAC files to MP3 through an external encoder.
type Transcoder struct {
	Encoder     ffmpeg.Encoder
	Namer       *naming.Namer
	Log         Logger
	BitrateKbps int
	DryRun      bool
	Verify      bool // decode the produced MP3 and fail on zero frames
	Verbose     bool
}

// Convert encodes f to "<stem>.mp3" (collision-resolved) inside outputDir.
// A non-zero encoder exit fails the file; the captured stderr is logged and
// any partial output is removed.
func (t *Transcoder) Convert(ctx context.Context, f media.File, outputDir string) Result {
	output := t.Namer.Claim(naming.MP3Name(f.Path, outputDir))

	if t.Verbose {
		t.Log.Debug(true, "Source %s: %s", f.Name(), audiometa.Describe(f.Path, f.Kind))
	}

	if t.DryRun {
		t.Log.Success("[DRY] Would transcode: %s -> %s", f.Path, output)
		return Result{File: f, Output: output, OK: true}
	}

	stderr, err := t.Encoder.Encode(ctx, f.Path, output, t.BitrateKbps)
	if err != nil {
		cause := ffmpeg.Classify(stderr, err)
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = err.Error()
		}
		t.Log.Error("Error transcoding %s (%s): %s", f.Path, cause, detail)
		t.discard(output)
		return failed(f, output, &EncodeError{Cause: cause, Stderr: stderr, Err: err})
	}

	if t.Verify {
		d, frames, verr := audiometa.MP3Duration(output)
		if verr != nil {
			t.Log.Error("Verification failed for %s: %v", output, verr)
			t.discard(output)
			return failed(f, output, verr)
		}
		t.Log.Debug(t.Verbose, "Verified %s: %d frames, %s", output, frames, display.FormatDuration(d))
	}

	var size int64
	if fi, err := os.Stat(output); err == nil {
		size = fi.Size()
	}
	t.Log.Success("Successfully transcoded: %s -> %s", f.Path, output)
	return Result{File: f, Output: output, OK: true, OutputSize: size}
}

func (t *Transcoder) discard(output string) {
	os.Remove(output)
	t.Namer.Release(output)
}

// EncodeError wraps a failed encoder run with its classified cause and the
// captured stderr.
type EncodeError struct {
	Cause  string
	Stderr string
	Err    error
}

func (e *EncodeError) Error() string { return e.Cause + ": " + e.Err.Error() }

func (e *EncodeError) Unwrap() error { return e.Err }
