package book

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2book/internal/fileutil"
	"github.com/alnah/go-md2book/internal/summary"
)

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	createMissing bool
	logger        *slog.Logger
}

// WithCreateMissing writes a stub file for every non-draft chapter whose
// source file does not exist yet, instead of failing.
func WithCreateMissing(create bool) LoadOption {
	return func(c *loadConfig) {
		c.createMissing = create
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) LoadOption {
	return func(c *loadConfig) {
		c.logger = logger
	}
}

// Load reads every chapter named by s. Prefix, numbered and suffix sections
// are concatenated in that order. Relative locations, nested ones included,
// are resolved against srcDir.
func Load(s *summary.Summary, srcDir string, opts ...LoadOption) (*Book, error) {
	cfg := loadConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	b := &Book{Sections: skeleton(s.Items(), srcDir)}

	if cfg.createMissing {
		if err := createMissing(b, srcDir, cfg.logger); err != nil {
			return nil, err
		}
	}

	for item := range b.All() {
		ch, ok := item.(*Chapter)
		if !ok || ch.IsDraft() {
			continue
		}
		data, err := os.ReadFile(resolve(srcDir, ch.SourcePath)) // #nosec G304 -- paths come from the summary
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %q (%s): %v", ErrChapterNotFound, ch.Name, ch.SourcePath, err)
			}
			return nil, fmt.Errorf("%w: reading chapter %q (%s): %v", ErrIO, ch.Name, ch.SourcePath, err)
		}
		ch.Content = string(data)
	}
	return b, nil
}

// skeleton converts summary items into chapters without reading them.
func skeleton(items []summary.Item, srcDir string) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		switch item := item.(type) {
		case summary.Separator:
			out = append(out, Separator{})
		case *summary.Link:
			ch := &Chapter{
				Name:     item.Name,
				Number:   item.Number,
				SubItems: skeleton(item.NestedItems, srcDir),
			}
			if !item.IsDraft() {
				ch.SourcePath = filepath.Clean(filepath.FromSlash(item.Location))
				ch.DestPath = DestPath(relativeTo(srcDir, ch.SourcePath))
			}
			out = append(out, ch)
		}
	}
	return out
}

func createMissing(b *Book, srcDir string, logger *slog.Logger) error {
	for item := range b.All() {
		ch, ok := item.(*Chapter)
		if !ok || ch.IsDraft() {
			continue
		}
		p := resolve(srcDir, ch.SourcePath)
		if fileutil.FileExists(p) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			return fmt.Errorf("%w: creating directory for %q: %v", ErrIO, ch.SourcePath, err)
		}
		if err := os.WriteFile(p, []byte("# "+ch.Name+"\n"), 0o600); err != nil {
			return fmt.Errorf("%w: creating %q: %v", ErrIO, ch.SourcePath, err)
		}
		logger.Debug("created missing chapter", "path", ch.SourcePath)
	}
	return nil
}

// DestPath maps a source location to its output page: the extension becomes
// ".html" and README.md (any case) becomes index.html. The result is
// slash-separated.
func DestPath(location string) string {
	p := filepath.ToSlash(location)
	dir, file := path.Split(p)
	if strings.EqualFold(file, "README.md") {
		return dir + "index.html"
	}
	return strings.TrimSuffix(p, path.Ext(p)) + ".html"
}

func resolve(srcDir, location string) string {
	if filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(srcDir, location)
}

// relativeTo expresses an absolute location relative to srcDir so it still
// has an output path. Locations outside srcDir keep only their base name.
func relativeTo(srcDir, location string) string {
	if !filepath.IsAbs(location) {
		return location
	}
	absSrc, err := filepath.Abs(srcDir)
	if err == nil {
		if rel, err := filepath.Rel(absSrc, location); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return filepath.Base(location)
}
