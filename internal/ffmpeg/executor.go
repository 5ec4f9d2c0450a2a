package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
)

// Encoder encodes one audio file to MP3. On failure it returns the
// encoder's diagnostic output (may be empty) together with the error.
type Encoder interface {
	Encode(ctx context.Context, input, output string, bitrateKbps int) (stderr string, err error)
}

// FFmpeg runs an ffmpeg binary as the [Encoder].
type FFmpeg struct {
	Binary string  // Default: "ffmpeg", resolved on PATH.
	Opts   Options // Codec and loglevel.
}

// New returns an FFmpeg encoder for binary (empty means "ffmpeg").
func New(binary string, opts Options) *FFmpeg {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{Binary: binary, Opts: opts}
}

// Args returns the full argv (binary first) for one encode.
func (f *FFmpeg) Args(input, output string, bitrateKbps int) []string {
	return append([]string{f.Binary}, Build(input, output, bitrateKbps, f.Opts)...)
}

// Encode runs ffmpeg and waits for it. stdout is discarded; stderr is
// captured and returned with invalid UTF-8 replaced. A non-zero exit or a
// missing binary is reported as err. No timeout is applied: a hung encoder
// holds its worker until ctx is cancelled.
func (f *FFmpeg) Encode(ctx context.Context, input, output string, bitrateKbps int) (string, error) {
	args := Build(input, output, bitrateKbps, f.Opts)
	cmd := exec.CommandContext(ctx, f.Binary, args...)

	var stderrBuf bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	return strings.ToValidUTF8(stderrBuf.String(), "\uFFFD"), err
}
