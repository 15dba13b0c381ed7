package coverageapp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/genomewalker/reviewflow/internal/covcli"
	"github.com/genomewalker/reviewflow/internal/coverage"
)

// debounceDelay batches bursts of filesystem events (copying a file set
// into the directory fires many writes) into a single rebuild.
const debounceDelay = 400 * time.Millisecond

// watchDir rebuilds the coverage table whenever a depth file under
// opts.InDir changes, until ctx is canceled. A failed rebuild keeps the
// previous table on disk and the watch alive.
func watchDir(ctx context.Context, opts covcli.Options, cut coverage.Cutoffs, suffix string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("coverage: start watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(opts.InDir); err != nil {
		return fmt.Errorf("coverage: watch %s: %w", opts.InDir, err)
	}
	slog.Info("coverage: watching for depth file changes", "in_dir", opts.InDir)

	// One persistent timer, kept drained until an event arms it.
	rebuild := time.NewTimer(debounceDelay)
	if !rebuild.Stop() {
		<-rebuild.C
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("coverage: watch stopped")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, suffix) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("coverage: depth file changed", "file", ev.Name, "op", ev.Op.String())
			rebuild.Reset(debounceDelay)

		case <-rebuild.C:
			if err := runOnce(opts, cut, suffix); err != nil {
				slog.Warn("coverage: rebuild failed, keeping previous table", "err", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("coverage: watcher error", "err", err)
		}
	}
}
