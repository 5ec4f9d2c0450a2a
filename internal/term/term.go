// Package term holds the process-wide color profile and the ANSI sequences
// derived from it. [Configure] runs once at startup; with the Ascii profile
// every sequence is empty, so concatenating them is a no-op.
package term

import (
	"os"

	"github.com/muesli/termenv"

	"github.com/backmassage/autotranscode/internal/config"
)

// Level colors and the reset sequence. Empty when colors are off.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	NC      = ""
)

var profile = termenv.Ascii

// Configure picks the color profile for mode and derives the level colors.
// Auto defers to termenv, which checks for a TTY, NO_COLOR, CLICOLOR_FORCE
// and TERM.
func Configure(mode config.ColorMode) {
	profile = resolve(mode)

	Red = bold(profile, "9")
	Green = bold(profile, "10")
	Yellow = bold(profile, "11")
	Blue = bold(profile, "12")
	Cyan = bold(profile, "14")
	Magenta = bold(profile, "13")
	NC = ""
	if profile != termenv.Ascii {
		NC = termenv.CSI + termenv.ResetSeq + "m"
	}
}

// Profile returns the active color profile.
func Profile() termenv.Profile { return profile }

func resolve(mode config.ColorMode) termenv.Profile {
	switch mode {
	case config.ColorNever:
		return termenv.Ascii
	case config.ColorAlways:
		// Forced output may go to a pipe, where termenv reports Ascii.
		if p := termenv.NewOutput(os.Stdout).EnvColorProfile(); p != termenv.Ascii {
			return p
		}
		return termenv.ANSI256
	default:
		return termenv.NewOutput(os.Stdout).EnvColorProfile()
	}
}

// bold returns the SGR sequence for bold text in the ANSI color c, or ""
// under the Ascii profile.
func bold(p termenv.Profile, c string) string {
	if p == termenv.Ascii {
		return ""
	}
	return termenv.CSI + "1;" + p.Color(c).Sequence(false) + "m"
}
