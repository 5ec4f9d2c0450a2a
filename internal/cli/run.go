package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/autotranscode/internal/check"
	"github.com/backmassage/autotranscode/internal/config"
	"github.com/backmassage/autotranscode/internal/display"
	"github.com/backmassage/autotranscode/internal/ffmpeg"
	"github.com/backmassage/autotranscode/internal/logging"
	"github.com/backmassage/autotranscode/internal/pipeline"
)

var errCheckFailed = errors.New("system check failed")

// run executes one invocation. Per-file failures are logged and counted but
// never returned: only setup problems make the process exit non-zero.
func run(ctx context.Context, changed func(string) bool, cfg *config.Config, negated *config.NegatedFlags, args []string, build Build) error {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors are
	// returned to main and printed there.
	if cfg.ConfigFile != "" {
		if err := config.LoadFile(cfg.ConfigFile, cfg, changed); err != nil {
			return err
		}
	}
	config.ApplyNegatedFlags(cfg, negated)
	if err := config.ApplyPositionalArgs(cfg, args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer log.Close()

	// Phase 2: Logger available.
	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(cfg, log) {
			return errCheckFailed
		}
		return nil
	}

	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("input folder not found: %s", cfg.InputDir)
	}
	fi, err := os.Stat(inputAbs)
	if err != nil {
		return fmt.Errorf("input folder not found: %s", cfg.InputDir)
	}
	if !fi.IsDir() {
		return fmt.Errorf("input folder is not a directory: %s", cfg.InputDir)
	}
	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("cannot create output folder %s: %w", cfg.OutputDir, err)
		}
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("cannot resolve output folder %s: %w", cfg.OutputDir, err)
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		return err
	}

	var exclude string
	if config.OutputInsideInput(inputAbs, outputAbs) {
		exclude = outputAbs
		log.Warn("Output folder is inside the input folder; it is skipped during discovery")
	}
	cfg.InputDir = inputAbs
	cfg.OutputDir = outputAbs

	runID := pipeline.NewRunID()
	log.Info("=== autotranscode v%s (%s) ===", build.Version, build.Commit)
	log.Info("Run: %s", runID)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	log.Debug(cfg.Verbose, "Encoder: %s -c:a %s -b:a %dk", cfg.FFmpegPath, cfg.AudioCodec, cfg.BitrateKbps)
	if cfg.ThreadsClamped {
		log.Warn("Thread count must be at least 1; using 1 thread")
	}
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written, copied or deleted")
	}

	// Phase 3: Signal handling. Cancelling stops new files from starting;
	// files already being converted finish.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing files in progress...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Phase 4: Batch, then watch if asked.
	enc := ffmpeg.New(cfg.FFmpegPath, ffmpeg.Options{Codec: cfg.AudioCodec, Verbose: cfg.Verbose})
	runner := pipeline.NewRunner(cfg, log, enc)
	runner.ExcludeDir = exclude
	if cfg.ReportFile != "" {
		runner.Report = pipeline.NewReport(runID, cfg)
	}

	runner.Run(ctx)

	if cfg.Watch && ctx.Err() == nil {
		if err := runner.Watch(ctx); err != nil {
			log.Error("Watch failed: %v", err)
		}
	}

	if runner.Report != nil {
		runner.Report.Finish(runner.Stats())
		if err := runner.Report.Write(cfg.ReportFile); err != nil {
			log.Error("Cannot write report: %v", err)
		} else {
			log.Info("Report written to %s", cfg.ReportFile)
		}
	}
	return nil
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies. A path that does not exist yet
// (dry-run output) is returned absolute but unresolved.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if _, statErr := os.Lstat(abs); statErr != nil {
				return abs, nil
			}
		}
		return "", err
	}
	return resolved, nil
}
