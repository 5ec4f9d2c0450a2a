package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/backmassage/autotranscode/internal/config"
	"github.com/backmassage/autotranscode/internal/convert"
	"github.com/backmassage/autotranscode/internal/logging"
)

// NewRunID returns a fresh identifier for one process run.
func NewRunID() string {
	return uuid.NewString()
}

// Report collects per-file results for the YAML run report. Add is safe for
// concurrent use.
type Report struct {
	mu sync.Mutex

	RunID    string        `yaml:"run_id"`
	Started  time.Time     `yaml:"started"`
	Finished time.Time     `yaml:"finished"`
	Input    string        `yaml:"input"`
	Output   string        `yaml:"output"`
	Threads  int           `yaml:"threads"`
	DryRun   bool          `yaml:"dry_run,omitempty"`
	Totals   ReportTotals  `yaml:"totals"`
	Files    []ReportEntry `yaml:"files"`
}

// ReportTotals mirrors RunStats in the report.
type ReportTotals struct {
	Files        int   `yaml:"files"`
	Succeeded    int   `yaml:"succeeded"`
	Failed       int   `yaml:"failed"`
	FLAC         int   `yaml:"flac"`
	MP3          int   `yaml:"mp3"`
	SmallSkipped int   `yaml:"small_skipped"`
	SmallDeleted int   `yaml:"small_deleted"`
	Ignored      int   `yaml:"ignored"`
	InputBytes   int64 `yaml:"input_bytes"`
	OutputBytes  int64 `yaml:"output_bytes"`
}

// ReportEntry is one file's outcome.
type ReportEntry struct {
	Input       string `yaml:"input"`
	Output      string `yaml:"output,omitempty"`
	Kind        string `yaml:"kind"`
	Status      string `yaml:"status"`
	Error       string `yaml:"error,omitempty"`
	InputBytes  int64  `yaml:"input_bytes"`
	OutputBytes int64  `yaml:"output_bytes,omitempty"`
}

// NewReport starts a report for the run described by cfg.
func NewReport(runID string, cfg *config.Config) *Report {
	return &Report{
		RunID:   runID,
		Started: time.Now(),
		Input:   cfg.InputDir,
		Output:  cfg.OutputDir,
		Threads: cfg.Threads,
		DryRun:  cfg.DryRun,
	}
}

// Add records one result.
func (r *Report) Add(res convert.Result) {
	e := ReportEntry{
		Input:       logging.Clean(res.File.Path),
		Output:      logging.Clean(res.Output),
		Kind:        res.File.Kind.String(),
		Status:      "succeeded",
		InputBytes:  res.File.Size,
		OutputBytes: res.OutputSize,
	}
	if !res.OK {
		e.Status = "failed"
		if res.Err != nil {
			e.Error = logging.Clean(res.Err.Error())
		}
	}
	r.mu.Lock()
	r.Files = append(r.Files, e)
	r.mu.Unlock()
}

// Finish stamps the end time and totals.
func (r *Report) Finish(s RunStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Finished = time.Now()
	r.Totals = ReportTotals{
		Files:        s.Total,
		Succeeded:    s.Completed,
		Failed:       s.Failed,
		FLAC:         s.FLAC,
		MP3:          s.MP3,
		SmallSkipped: s.SmallSkipped,
		SmallDeleted: s.SmallDeleted,
		Ignored:      s.Ignored,
		InputBytes:   s.TotalInputBytes,
		OutputBytes:  s.TotalOutputBytes,
	}
}

// Write marshals the report to path, replacing any previous file.
func (r *Report) Write(path string) error {
	r.mu.Lock()
	data, err := yaml.Marshal(r)
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
