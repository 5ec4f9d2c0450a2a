// Command autotranscode converts a folder tree of FLAC and MP3 files into a
// flat folder of 320 kbps MP3s.
package main

import (
	"fmt"
	"os"

	"github.com/backmassage/autotranscode/internal/cli"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	cmd := cli.NewRootCmd(cli.Build{Version: version, Commit: commit})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "autotranscode: %v\n", err)
		os.Exit(1)
	}
}
