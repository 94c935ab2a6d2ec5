// Package watch reports batches of changed files under a book's source,
// theme and configuration paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period that closes a batch of events.
const DefaultDebounce = 300 * time.Millisecond

// ErrNothingToWatch is returned when none of the configured paths exist.
var ErrNothingToWatch = errors.New("no existing path to watch")

// Options configures a Watcher.
type Options struct {
	// Paths are watched recursively when they are directories. Missing
	// paths are skipped.
	Paths    []string
	Debounce time.Duration
	// Ignore filters paths in addition to hidden and editor files.
	Ignore func(path string) bool
	Logger *slog.Logger
}

// Watcher collects filesystem events into debounced batches.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	ignore   func(string) bool
	logger   *slog.Logger
}

// New registers every existing path and returns a Watcher ready to Run.
func New(opts Options) (*Watcher, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{fs: fsw, debounce: debounce, ignore: opts.Ignore, logger: logger}

	watched := 0
	for _, p := range opts.Paths {
		info, err := os.Stat(p)
		if err != nil {
			logger.Debug("not watching missing path", "path", p)
			continue
		}
		if info.IsDir() {
			w.addDirsRecursive(p)
		} else if err := fsw.Add(p); err != nil {
			logger.Warn("watch add failed", "path", p, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		_ = fsw.Close()
		return nil, fmt.Errorf("%w: %s", ErrNothingToWatch, strings.Join(opts.Paths, ", "))
	}
	return w, nil
}

// Watch is New followed by Run.
func Watch(ctx context.Context, opts Options, onChange func(ctx context.Context, paths []string)) error {
	w, err := New(opts)
	if err != nil {
		return err
	}
	return w.Run(ctx, onChange)
}

// Run delivers each batch of changed paths, sorted and deduplicated, to
// onChange until ctx is done. onChange runs on the calling goroutine, so
// batches never overlap; events arriving meanwhile form the next batch.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, paths []string)) error {
	defer func() { _ = w.fs.Close() }()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			onChange(ctx, paths)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if shouldIgnore(ev.Name) || (w.ignore != nil && w.ignore(ev.Name)) {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(ev.Name)
		}
	}
	return true
}

func (w *Watcher) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (shouldIgnore(path) || (w.ignore != nil && w.ignore(path))) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

// shouldIgnore reports hidden files, editor swap and backup files, and OS
// metadata files.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db" || base == "4913" // vim write probe
}

// UnderDir returns an Ignore func matching dir and everything below it.
func UnderDir(dir string) func(string) bool {
	clean := filepath.Clean(dir)
	return func(p string) bool {
		p = filepath.Clean(p)
		return p == clean || strings.HasPrefix(p, clean+string(filepath.Separator))
	}
}
