package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// Notes:
// - Filesystem notification latency varies by platform; tests wait up to
//   waitTimeout for a batch and use a short debounce.

const waitTimeout = 5 * time.Second

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startWatcher runs a Watcher over dir and forwards its batches.
func startWatcher(t *testing.T, opts Options) <-chan []string {
	t.Helper()

	opts.Debounce = 50 * time.Millisecond
	opts.Logger = quietLogger()
	w, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []string, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, paths []string) { batches <- paths })
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	})
	return batches
}

func waitFor(t *testing.T, batches <-chan []string, want string) []string {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case b := <-batches:
			if slices.Contains(b, want) {
				return b
			}
		case <-deadline:
			t.Fatalf("no batch containing %q within %s", want, waitTimeout)
			return nil
		}
	}
}

func write(t *testing.T, p, content string) {
	t.Helper()
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", p, err)
	}
}

// ---------------------------------------------------------------------------
// TestWatcher - Event batching
// ---------------------------------------------------------------------------

func TestWatcher_ReportsWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := startWatcher(t, Options{Paths: []string{dir}})

	p := filepath.Join(dir, "chapter_1.md")
	write(t, p, "# One\n")
	waitFor(t, batches, p)
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	batches := startWatcher(t, Options{Paths: []string{dir}})

	sub := filepath.Join(dir, "part")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	waitFor(t, batches, sub)

	p := filepath.Join(sub, "nested.md")
	write(t, p, "# Nested\n")
	waitFor(t, batches, p)
}

func TestWatcher_IgnoredPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "book")
	if err := os.Mkdir(out, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	batches := startWatcher(t, Options{Paths: []string{dir}, Ignore: UnderDir(out)})

	write(t, filepath.Join(dir, ".chapter.md.swp"), "x")
	write(t, filepath.Join(out, "index.html"), "x")
	marker := filepath.Join(dir, "marker.md")
	write(t, marker, "x")

	b := waitFor(t, batches, marker)
	for _, p := range b {
		if p != marker {
			t.Errorf("batch contains ignored path %q", p)
		}
	}
}

func TestWatcher_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "book.yaml")
	write(t, cfg, "book: {}\n")
	batches := startWatcher(t, Options{Paths: []string{cfg, filepath.Join(dir, "missing-theme")}})

	write(t, cfg, "book: {title: x}\n")
	waitFor(t, batches, cfg)
}

func TestNew_NothingToWatch(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Paths: []string{filepath.Join(t.TempDir(), "nope")}, Logger: quietLogger()})
	if !errors.Is(err, ErrNothingToWatch) {
		t.Errorf("New() error = %v, want ErrNothingToWatch", err)
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Watch(ctx, Options{Paths: []string{t.TempDir()}, Logger: quietLogger()}, func(context.Context, []string) {
		t.Error("onChange called after cancel")
	})
	if err != nil {
		t.Errorf("Watch() error = %v, want nil", err)
	}
}

// ---------------------------------------------------------------------------
// TestShouldIgnore - Editor and hidden files
// ---------------------------------------------------------------------------

func TestShouldIgnore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"src/chapter.md", false},
		{"src/.hidden.md", true},
		{"src/chapter.md~", true},
		{"src/.chapter.md.swp", true},
		{"src/chapter.swx", true},
		{"src/#chapter.md#", true},
		{"src/Thumbs.db", true},
		{"src/4913", true},
		{"theme/book.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := shouldIgnore(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestUnderDir(t *testing.T) {
	t.Parallel()

	ignore := UnderDir(filepath.FromSlash("/b/book"))
	tests := []struct {
		path string
		want bool
	}{
		{"/b/book", true},
		{"/b/book/index.html", true},
		{"/b/bookish/x.md", false},
		{"/b/src/x.md", false},
	}
	for _, tt := range tests {
		if got := ignore(filepath.FromSlash(tt.path)); got != tt.want {
			t.Errorf("UnderDir()(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
