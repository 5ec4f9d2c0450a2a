package pipeline

import (
	"context"
	"sync"

	"github.com/backmassage/autotranscode/internal/config"
	"github.com/backmassage/autotranscode/internal/convert"
	"github.com/backmassage/autotranscode/internal/display"
	"github.com/backmassage/autotranscode/internal/ffmpeg"
	"github.com/backmassage/autotranscode/internal/logging"
	"github.com/backmassage/autotranscode/internal/media"
	"github.com/backmassage/autotranscode/internal/naming"
	"github.com/backmassage/autotranscode/internal/term"
	"github.com/backmassage/autotranscode/internal/watch"
)

// Runner executes batches for one configuration: discover, dispatch,
// report. In watch mode it runs further batches for files that appear
// later; a file is never dispatched twice by the same Runner.
type Runner struct {
	cfg  *config.Config
	log  *logging.Logger
	conv convert.Converter
	bar  *display.ProgressBar

	// ExcludeDir is pruned from discovery and watching, typically the output
	// folder when it is nested inside the input folder.
	ExcludeDir string
	// Report, when non-nil, receives every result.
	Report *Report

	mu    sync.Mutex // serializes batches
	seen  map[string]bool
	stats RunStats
}

// NewRunner wires the converters for cfg around enc.
func NewRunner(cfg *config.Config, log *logging.Logger, enc ffmpeg.Encoder) *Runner {
	namer := naming.NewNamer()
	conv := convert.Set{
		media.KindFLAC: &convert.Transcoder{
			Encoder:     enc,
			Namer:       namer,
			Log:         log,
			BitrateKbps: cfg.BitrateKbps,
			DryRun:      cfg.DryRun,
			Verify:      cfg.Verify,
			Verbose:     cfg.Verbose,
		},
		media.KindMP3: &convert.Copier{
			Namer:  namer,
			Log:    log,
			DryRun: cfg.DryRun,
		},
	}
	return &Runner{
		cfg:  cfg,
		log:  log,
		conv: conv,
		bar:  display.NewProgressBar(term.Profile()),
		seen: make(map[string]bool),
	}
}

// Stats returns the totals accumulated over every batch so far.
func (r *Runner) Stats() RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Run performs the initial batch over the whole input folder and returns
// its stats. Per-file failures are counted, never returned.
func (r *Runner) Run(ctx context.Context) RunStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batch(ctx, true)
}

// Watch blocks until ctx is done, running a batch for new files after each
// debounced burst of changes in the input folder.
func (r *Runner) Watch(ctx context.Context) error {
	w, err := watch.New(r.cfg.InputDir, r.ExcludeDir, media.Extensions(), r.cfg.WatchDebounce, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		r.batch(ctx, false)
	}, r.log)
	if err != nil {
		return err
	}

	r.log.Info("Watching %s for new audio files (Ctrl+C to stop)...", r.cfg.InputDir)
	<-ctx.Done()

	// Stop new callbacks, then wait for a batch that is still running. A
	// callback blocked on r.mu sees the cancelled ctx and returns.
	w.Close()
	r.mu.Lock()
	defer r.mu.Unlock()
	return nil
}

// batch runs one discover/dispatch cycle. Caller holds r.mu.
func (r *Runner) batch(ctx context.Context, initial bool) RunStats {
	var stats RunStats

	if initial {
		r.log.Info("Scanning for FLAC and MP3 files...")
	}
	disc, err := Discover(DiscoverOptions{
		Root:        r.cfg.InputDir,
		MinSizeKB:   r.cfg.MinSizeKB,
		DeleteSmall: r.cfg.DeleteSmall,
		DryRun:      r.cfg.DryRun,
		ExcludeDir:  r.ExcludeDir,
	}, r.log)
	if err != nil {
		r.log.Error("File discovery failed: %v", err)
		return stats
	}

	files := make([]media.File, 0, len(disc.Files))
	for _, f := range disc.Files {
		if !r.seen[f.Path] {
			files = append(files, f)
		}
	}
	if initial {
		stats.SmallSkipped = len(disc.Small) - disc.Deleted
		stats.SmallDeleted = disc.Deleted
		stats.Ignored = disc.Ignored
	}

	if len(files) == 0 {
		if initial {
			r.log.Info("No valid audio files found in the input folder.")
		} else {
			r.log.Debug(r.cfg.Verbose, "No new audio files")
		}
		r.stats.add(stats)
		return stats
	}
	for _, f := range files {
		r.seen[f.Path] = true
		if f.Kind == media.KindFLAC {
			stats.FLAC++
		} else {
			stats.MP3++
		}
	}
	stats.Total = len(files)

	r.log.Info("Found %d valid audio files (%d FLAC, %d MP3).", stats.Total, stats.FLAC, stats.MP3)
	r.log.Info("Processing with %d threads...", r.cfg.Threads)

	final := Dispatch(ctx, files, r.cfg.OutputDir, r.cfg.Threads, r.conv, func(res convert.Result, snap Snapshot) {
		if res.OK {
			stats.TotalInputBytes += res.File.Size
			stats.TotalOutputBytes += res.OutputSize
		}
		if r.Report != nil {
			r.Report.Add(res)
		}
		r.log.Progress(r.bar.Render(snap.Completed, snap.Failed, snap.Total))
	})
	stats.Completed = final.Completed
	stats.Failed = final.Failed

	if ctx.Err() != nil {
		r.log.Warn("Interrupted: remaining files were not processed")
	}
	r.log.Info("Processing complete. %d files succeeded, %d files failed.", stats.Completed, stats.Failed)
	r.logBytes(&stats)

	r.stats.add(stats)
	return stats
}

func (r *Runner) logBytes(s *RunStats) {
	if r.cfg.DryRun || s.Completed == 0 {
		return
	}
	saved := s.SpaceSaved()
	if saved >= 0 {
		r.log.Info("Total space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(s.TotalInputBytes),
			display.FormatBytes(s.TotalOutputBytes))
	} else {
		r.log.Warn("Total space saved: -%s (overall output is larger)",
			display.FormatBytes(-saved))
	}
}
