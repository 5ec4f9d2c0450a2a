// Package convert turns one discovered audio file into one output file:
// MP3 sources are copied as-is, FLAC sources are transcoded through an
// [ffmpeg.Encoder]. Every failure is contained in the returned [Result].
package convert

import (
	"context"
	"fmt"

	"github.com/backmassage/autotranscode/internal/media"
)

// Logger is the minimal logging interface needed by converters. Defined here
// (rather than importing the logging package) so converters stay testable
// with a recording logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Result is the outcome of converting one file. OK is the success flag; the
// remaining fields feed logs and the run report.
type Result struct {
	File       media.File
	Output     string // final output path; empty when no name was resolved
	OK         bool
	Err        error
	OutputSize int64
}

// Converter converts a single file into outputDir.
type Converter interface {
	Convert(ctx context.Context, f media.File, outputDir string) Result
}

// Set routes each media kind to its converter.
type Set map[media.Kind]Converter

// Convert dispatches f to the converter registered for its kind. An
// unregistered kind is a failed Result, not a panic.
func (s Set) Convert(ctx context.Context, f media.File, outputDir string) Result {
	c, ok := s[f.Kind]
	if !ok {
		return Result{File: f, Err: fmt.Errorf("no converter for %s files", f.Kind)}
	}
	return c.Convert(ctx, f, outputDir)
}

func failed(f media.File, output string, err error) Result {
	return Result{File: f, Output: output, Err: err}
}
