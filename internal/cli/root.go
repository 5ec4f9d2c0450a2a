// Package cli wires the cobra command: flag and config-file loading, path
// validation, and the batch (plus optional watch) run.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/autotranscode/internal/config"
)

// Build identifies the binary. Values are injected by main from -ldflags.
type Build struct {
	Version string
	Commit  string
}

// NewRootCmd returns the autotranscode command with every flag bound to a
// fresh default Config.
func NewRootCmd(build Build) *cobra.Command {
	cfg := config.DefaultConfig()
	var negated *config.NegatedFlags

	cmd := &cobra.Command{
		Use:   "autotranscode [flags] <input_folder> <output_folder>",
		Short: "Convert a folder of FLAC and MP3 files into a folder of 320k MP3s",
		Long: "autotranscode walks input_folder recursively, transcodes every FLAC file to a\n" +
			"320 kbps MP3 with ffmpeg (libmp3lame), copies every MP3 file unchanged, and\n" +
			"writes all results flat into output_folder. Files below --min-size are treated\n" +
			"as fakes and skipped, or deleted with --delete-small.",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.Flags().Changed, &cfg, negated, args, build)
		},
	}

	cmd.Version = build.Version
	cmd.SetVersionTemplate(fmt.Sprintf("autotranscode %s (%s)\n", build.Version, build.Commit))
	negated = config.BindFlags(cmd.Flags(), &cfg)
	return cmd
}
