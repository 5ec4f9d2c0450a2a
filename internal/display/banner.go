package display

import (
	"fmt"
	"io"

	"github.com/backmassage/autotranscode/internal/term"
)

// PrintBanner prints the startup banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, ` ┌──────────────────────────────┐
 │  autotranscode   FLAC → MP3  │
 └──────────────────────────────┘`)
	fmt.Fprintln(w, term.NC)
}
