package ffmpeg

import "strconv"

// Options holds the per-invocation settings that are not file paths.
type Options struct {
	Codec   string // Default: "libmp3lame".
	Verbose bool   // Raise ffmpeg's loglevel from error to info.
}

// Build constructs the ffmpeg argument slice (without the binary name) that
// encodes input's audio to output at bitrateKbps constant bitrate,
// overwriting output if it exists.
func Build(input, output string, bitrateKbps int, opts Options) []string {
	codec := opts.Codec
	if codec == "" {
		codec = "libmp3lame"
	}

	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin")

	// --- Input ---
	args = append(args, "-i", input)

	// --- Audio codec (constant bitrate) ---
	args = append(args,
		"-b:a", strconv.Itoa(bitrateKbps)+"k",
		"-c:a", codec,
	)

	// --- Overwrite, loglevel ---
	args = append(args, "-y")
	if opts.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Output ---
	args = append(args, output)
	return args
}
