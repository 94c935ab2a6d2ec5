package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

// ---------------------------------------------------------------------------
// TestDefaultConfig - Defaults of a book without book.yaml
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Book.Language != "en" {
		t.Errorf("Book.Language = %q, want %q", cfg.Book.Language, "en")
	}
	if cfg.Book.Src != "src" {
		t.Errorf("Book.Src = %q, want %q", cfg.Book.Src, "src")
	}
	if cfg.Build.BuildDir != "book" {
		t.Errorf("Build.BuildDir = %q, want %q", cfg.Build.BuildDir, "book")
	}
	if !cfg.Build.ShouldCreateMissing() {
		t.Error("ShouldCreateMissing() = false, want true")
	}
	if !cfg.Output.HTML.ShouldHashFiles() {
		t.Error("ShouldHashFiles() = false, want true")
	}
	if !cfg.Output.HTML.Print.Enabled() {
		t.Error("Print.Enabled() = false, want true")
	}
	if !cfg.Output.HTML.ShowSectionLabels() {
		t.Error("ShowSectionLabels() = false, want true")
	}
	if cfg.Output.HTML.CurlyQuotes || cfg.Output.HTML.Highlight.Enable || cfg.Output.PDF.Enable {
		t.Error("optional features enabled by default")
	}
	if cfg.MultiLanguage() {
		t.Error("MultiLanguage() = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestConfig_Dirs(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/books/rust")
	cfg := DefaultConfig()

	if got, want := cfg.SrcDir(root), filepath.Join(root, "src"); got != want {
		t.Errorf("SrcDir() = %q, want %q", got, want)
	}
	if got, want := cfg.BuildDir(root), filepath.Join(root, "book"); got != want {
		t.Errorf("BuildDir() = %q, want %q", got, want)
	}
	if got := cfg.ThemeDir(root); got != "" {
		t.Errorf("ThemeDir() = %q, want empty", got)
	}

	abs, err := filepath.Abs(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}
	cfg.Build.BuildDir = abs
	if got := cfg.BuildDir(root); got != abs {
		t.Errorf("BuildDir() with absolute path = %q, want %q", got, abs)
	}
}

// ---------------------------------------------------------------------------
// TestLoad - book.yaml discovery and parsing
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("no config file gives defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Book.Src != DefaultSrc {
			t.Errorf("Book.Src = %q, want default", cfg.Book.Src)
		}
	})

	t.Run("full file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, FileName, `
book:
  title: The Book
  authors: [Ana, Ben]
  language: fr
  src: docs
build:
  buildDir: public
  createMissing: false
output:
  html:
    curlyQuotes: true
    hashFiles: false
    additionalCSS: [theme/extra.css]
    htmlRewriter: tokenizer
    print:
      enable: false
    highlight:
      enable: true
      style: monokai
  pdf:
    enable: true
    timeout: 30s
`)
		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Book.Title != "The Book" || len(cfg.Book.Authors) != 2 || cfg.Book.Language != "fr" {
			t.Errorf("Book = %+v", cfg.Book)
		}
		if cfg.Book.Src != "docs" || cfg.Build.BuildDir != "public" {
			t.Errorf("dirs = %q, %q", cfg.Book.Src, cfg.Build.BuildDir)
		}
		if cfg.Build.ShouldCreateMissing() {
			t.Error("ShouldCreateMissing() = true, want false")
		}
		html := cfg.Output.HTML
		if !html.CurlyQuotes || html.ShouldHashFiles() || html.Print.Enabled() {
			t.Errorf("HTML flags = %+v", html)
		}
		if html.HTMLRewriter != "tokenizer" || !html.Highlight.Enable || html.Highlight.Style != "monokai" {
			t.Errorf("HTML = %+v", html)
		}
		if len(html.AdditionalCSS) != 1 || html.AdditionalCSS[0] != "theme/extra.css" {
			t.Errorf("AdditionalCSS = %v", html.AdditionalCSS)
		}
		d, err := cfg.Output.PDF.TimeoutDuration()
		if err != nil || d != 30*time.Second {
			t.Errorf("TimeoutDuration() = %v, %v; want 30s", d, err)
		}
		if cfg.Output.PDF.File != DefaultPDFFile {
			t.Errorf("PDF.File = %q, want default", cfg.Output.PDF.File)
		}
	})

	t.Run("yml extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, AltFileName, "book:\n  title: Alt\n")
		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Book.Title != "Alt" {
			t.Errorf("Book.Title = %q, want Alt", cfg.Book.Title)
		}
	})

	t.Run("empty file gives defaults", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, FileName, "\n")
		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Build.BuildDir != DefaultBuildDir {
			t.Errorf("Build.BuildDir = %q, want default", cfg.Build.BuildDir)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, FileName, "book:\n  subtitle: nope\n")
		_, err := Load(dir)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("Load() error = %v, want ErrConfigParse", err)
		}
	})
}

func TestLoadFile_NotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadFile() error = %v, want ErrConfigNotFound", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Book.Title = "Saved"
	cfg.Book.Authors = []string{"Ana"}

	p := filepath.Join(t.TempDir(), FileName)
	if err := Save(p, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got.Book.Title != "Saved" || got.Book.Authors[0] != "Ana" {
		t.Errorf("round trip Book = %+v", got.Book)
	}
	if !got.Output.HTML.ShouldHashFiles() {
		t.Error("ShouldHashFiles() lost its default")
	}
}

// ---------------------------------------------------------------------------
// TestValidate - Field checks
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"title too long", func(c *Config) { c.Book.Title = strings.Repeat("x", MaxTitleLength+1) }, ErrFieldTooLong},
		{"author too long", func(c *Config) { c.Book.Authors = []string{strings.Repeat("a", MaxAuthorLength+1)} }, ErrFieldTooLong},
		{"language with slash", func(c *Config) { c.Book.Language = "en/us" }, ErrInvalidValue},
		{"empty language entry", func(c *Config) { c.Book.Languages = []string{"en", ""} }, ErrInvalidValue},
		{"duplicate language", func(c *Config) { c.Book.Languages = []string{"en", "en"} }, ErrInvalidValue},
		{"build dir equals src", func(c *Config) { c.Build.BuildDir = "./src" }, ErrInvalidValue},
		{"empty additional path", func(c *Config) { c.Output.HTML.AdditionalJS = []string{""} }, ErrInvalidValue},
		{"unknown rewriter", func(c *Config) { c.Output.HTML.HTMLRewriter = "sed" }, ErrInvalidValue},
		{"unknown style", func(c *Config) { c.Output.HTML.Highlight.Style = "no-such-style" }, ErrInvalidValue},
		{"bad timeout", func(c *Config) { c.Output.PDF.Timeout = "soon" }, ErrInvalidValue},
		{"negative timeout", func(c *Config) { c.Output.PDF.Timeout = "-1s" }, ErrInvalidValue},
		{"pdf outside build dir", func(c *Config) { c.Output.PDF.File = "../book.pdf" }, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", "1234567890", 10); err != nil {
		t.Errorf("value at limit: unexpected error %v", err)
	}
	err := validateFieldLength("f", "12345678901", 10)
	if !errors.Is(err, ErrFieldTooLong) {
		t.Errorf("value over limit: error = %v, want ErrFieldTooLong", err)
	}
	if err != nil && !strings.Contains(err.Error(), "11 chars, max 10") {
		t.Errorf("error = %q, want length details", err)
	}
}
