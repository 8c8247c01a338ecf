// Package watch keeps tier outputs current while new scene files land in the
// source directory: every create or rewrite of a matching file re-runs the
// full tier fan-out for that file. Whole-file reprocessing only; no build
// state is kept between events.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/quellen/scene-tier-pipeline/internal/pipeline"
)

// debounceWindow coalesces the event burst an exporter produces while it is
// still writing the file.
const debounceWindow = 500 * time.Millisecond

// Watcher re-runs the pipeline for individual files as they change.
type Watcher struct {
	pipe      *pipeline.Pipeline
	sourceDir string
	extension string
	log       *log.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over the pipeline's source directory.
func New(pipe *pipeline.Pipeline, sourceDir, extension string, logger *log.Logger) *Watcher {
	return &Watcher{
		pipe:      pipe,
		sourceDir: sourceDir,
		extension: extension,
		log:       logger,
		pending:   make(map[string]*time.Timer),
	}
}

// Run watches until the context is cancelled. It performs one full pass
// first so the output set starts complete.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.pipe.Run(ctx); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.sourceDir); err != nil {
		return err
	}
	w.log.Info("watching", "dir", w.sourceDir, "ext", w.extension)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), w.extension) {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "err", err)
		}
	}
}

// schedule (re)arms the debounce timer for one file.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(debounceWindow, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.log.Info("file changed, reprocessing", "file", filepath.Base(path))
		result := w.pipe.ProcessFile(ctx, w.log, path)
		w.log.Info("reprocessed", "file", filepath.Base(path), "status", result.Status)
	})
}
