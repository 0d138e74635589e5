package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/corey/gapseek/internal/ports"
)

// ErrWatchStdin is returned when watch mode is asked to follow standard input.
var ErrWatchStdin = errors.New("cannot watch standard input")

// Watch runs req once, then again every time the FASTA or pattern file
// changes, until ctx is cancelled. Each run's outcome goes to onRun. Changes
// that arrive while a run is in progress collapse into one follow-up run.
func (a *App) Watch(ctx context.Context, req SearchRequest, w ports.Watcher, onRun func(*Outcome, error)) error {
	if req.FastaPath == "-" || req.PatternsPath == "-" {
		return ErrWatchStdin
	}

	changes := make(chan string, 1)
	err := w.Watch([]string{req.FastaPath, req.PatternsPath}, func(path string) {
		select {
		case changes <- path:
		default: // a run is already pending
		}
	})
	if err != nil {
		return fmt.Errorf("watch inputs: %w", err)
	}
	defer w.Stop()

	onRun(a.Search(req))
	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			a.Log.Info("input changed, re-running", "path", path)
			onRun(a.Search(req))
		}
	}
}
