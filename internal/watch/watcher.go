// Package watch regenerates documentation when a local source document changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// ErrRemoteSource indicates the configured source is a URL and cannot be watched.
var ErrRemoteSource = errors.New("source is not a local file")

// RunFunc performs one documentation run.
type RunFunc func(ctx context.Context) error

// LocalPath returns the file path named by source, accepting plain paths and
// file:// URLs. http(s) sources yield ErrRemoteSource.
func LocalPath(source string) (string, error) {
	lower := strings.ToLower(source)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return "", fmt.Errorf("%w: %s", ErrRemoteSource, source)
	case strings.HasPrefix(lower, "file://"):
		source = source[len("file://"):]
	}
	if source == "" {
		return "", fmt.Errorf("%w: empty path", ErrRemoteSource)
	}
	return filepath.Abs(source)
}

// Watcher monitors a source document and triggers debounced runs.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	run      RunFunc
}

// New creates a watcher for path. It watches the containing directory, which
// survives editors that replace the file on save.
func New(path string, debounce time.Duration, run RunFunc) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	dir := filepath.Dir(absPath)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch source directory %s: %w", dir, err)
	}
	return &Watcher{path: absPath, watcher: fw, debounce: debounce, run: run}, nil
}

// Path is the absolute path of the watched document.
func (w *Watcher) Path() string { return w.path }

// Run blocks until ctx is done. Runs execute on this goroutine, so they never
// overlap; changes arriving during a run are coalesced into the next one.
// A failed run is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()
	slog.Info("Watching source document", logfields.Path(w.path), slog.Duration("debounce", w.debounce))

	name := filepath.Base(w.path)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				timer.Reset(w.debounce)
			case event.Has(fsnotify.Remove):
				slog.Warn("Source document removed", logfields.Path(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Source watcher error", logfields.Error(err))
		case <-timer.C:
			if err := w.run(ctx); err != nil {
				slog.Error("Regeneration failed; still watching", logfields.Path(w.path), logfields.Error(err))
			}
		}
	}
}
