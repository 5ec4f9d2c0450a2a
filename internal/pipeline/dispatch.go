package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alitto/pond"

	"github.com/backmassage/autotranscode/internal/convert"
	"github.com/backmassage/autotranscode/internal/media"
)

// ErrInterrupted is the error of a file whose conversion never started
// because the run was cancelled.
var ErrInterrupted = errors.New("interrupted before start")

// ResultFunc receives every result in completion order, together with the
// counters already updated for it. Calls never overlap.
type ResultFunc func(res convert.Result, snap Snapshot)

// Dispatch converts files on a pool of at most workers goroutines and
// returns the final counters. Every file yields exactly one result: a
// failure never cancels other tasks, a panicking converter becomes a failed
// result, and after ctx is cancelled the tasks that have not started yet are
// reported as failed without running. Conversions already running when ctx
// is cancelled are not interrupted.
func Dispatch(ctx context.Context, files []media.File, outputDir string, workers int, conv convert.Converter, onResult ResultFunc) Snapshot {
	counters := NewCounters(len(files))
	if len(files) == 0 {
		return counters.Snapshot()
	}
	if workers < 1 {
		workers = 1
	}

	results := make(chan convert.Result, len(files))
	var consumer sync.WaitGroup
	consumer.Add(1)
	go func() {
		defer consumer.Done()
		for res := range results {
			snap := counters.Record(res.OK)
			if onResult != nil {
				onResult(res, snap)
			}
		}
	}()

	pool := pond.New(workers, len(files))
	for _, f := range files {
		f := f
		pool.Submit(func() {
			results <- runOne(ctx, conv, f, outputDir)
		})
	}
	pool.StopAndWait()
	close(results)
	consumer.Wait()

	return counters.Snapshot()
}

func runOne(ctx context.Context, conv convert.Converter, f media.File, outputDir string) (res convert.Result) {
	if ctx.Err() != nil {
		return convert.Result{File: f, Err: ErrInterrupted}
	}
	defer func() {
		if r := recover(); r != nil {
			res = convert.Result{File: f, Err: fmt.Errorf("converter panic: %v", r)}
		}
	}()
	// A started conversion always runs to completion.
	return conv.Convert(context.WithoutCancel(ctx), f, outputDir)
}
