package ffmpeg

import (
	"errors"
	"io/fs"
	"os/exec"
	"regexp"
)

// Pre-compiled regexes for classifying ffmpeg stderr output into a short
// failure cause. Checked in order by [Classify]; the first match wins.
var (
	reEncoderMissing = regexp.MustCompile(
		`(?i)Unknown encoder '?libmp3lame'?|Encoder .*not found|Unknown encoder`)

	reInvalidInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|` +
			`could not find codec parameters|` +
			`Header missing|` +
			`invalid (flac|frame) header|` +
			`Output file #0 does not contain any stream|` +
			`does not contain any stream`)

	reNoSuchFile = regexp.MustCompile(`(?i)No such file or directory`)

	rePermission = regexp.MustCompile(`(?i)Permission denied`)

	reDiskFull = regexp.MustCompile(`(?i)No space left on device`)
)

// Failure causes returned by [Classify].
const (
	CauseEncoderMissing = "MP3 encoder unavailable"
	CauseInvalidInput   = "invalid or corrupt input"
	CauseNoSuchFile     = "file not found"
	CausePermission     = "permission denied"
	CauseDiskFull       = "disk full"
	CauseToolMissing    = "ffmpeg not found"
	CauseUnknown        = "ffmpeg failed"
)

// Classify maps a failed run's stderr and error to a short cause. It never
// returns an empty string.
func Classify(stderr string, err error) string {
	if err != nil && isNotFound(err) {
		return CauseToolMissing
	}
	switch {
	case reEncoderMissing.MatchString(stderr):
		return CauseEncoderMissing
	case reDiskFull.MatchString(stderr):
		return CauseDiskFull
	case rePermission.MatchString(stderr):
		return CausePermission
	case reInvalidInput.MatchString(stderr):
		return CauseInvalidInput
	case reNoSuchFile.MatchString(stderr):
		return CauseNoSuchFile
	}
	return CauseUnknown
}

// isNotFound reports whether the process could not be started because the
// binary is not on PATH or its explicit path does not exist.
func isNotFound(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false
	}
	return errors.Is(err, fs.ErrNotExist)
}
