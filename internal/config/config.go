// Package config loads book.yaml, the per-book configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2book/internal/render"
	"github.com/alnah/go-md2book/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrInvalidValue   = errors.New("invalid config value")
)

// File names searched in the book root, in order.
const (
	FileName    = "book.yaml"
	AltFileName = "book.yml"
)

// Defaults applied to empty fields.
const (
	DefaultLanguage   = "en"
	DefaultSrc        = "src"
	DefaultBuildDir   = "book"
	DefaultPDFFile    = "book.pdf"
	DefaultPDFTimeout = 2 * time.Minute
)

// Field length limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxAuthorLength      = 100
	MaxLanguageLength    = 35 // BCP 47 practical maximum
	MaxPathLength        = 4096
)

// Config holds everything read from book.yaml.
type Config struct {
	Book   BookConfig   `yaml:"book"`
	Build  BuildConfig  `yaml:"build"`
	Output OutputConfig `yaml:"output"`
}

// BookConfig describes the book itself.
type BookConfig struct {
	Title       string   `yaml:"title"`
	Authors     []string `yaml:"authors,omitempty"`
	Description string   `yaml:"description"`
	Language    string   `yaml:"language"`
	Src         string   `yaml:"src"`                 // relative to the book root
	Languages   []string `yaml:"languages,omitempty"` // more than one enables per-language output
}

// BuildConfig controls the build directory and stub creation.
type BuildConfig struct {
	BuildDir      string `yaml:"buildDir"`
	CreateMissing *bool  `yaml:"createMissing,omitempty"` // nil = true
}

// OutputConfig groups the renderers.
type OutputConfig struct {
	HTML HTMLConfig `yaml:"html"`
	PDF  PDFConfig  `yaml:"pdf"`
}

// HTMLConfig controls the HTML site.
type HTMLConfig struct {
	Theme         string          `yaml:"theme"`
	CurlyQuotes   bool            `yaml:"curlyQuotes"`
	HashFiles     *bool           `yaml:"hashFiles,omitempty"` // nil = true
	AdditionalCSS []string        `yaml:"additionalCSS,omitempty"`
	AdditionalJS  []string        `yaml:"additionalJS,omitempty"`
	HTMLRewriter  string          `yaml:"htmlRewriter"` // "regex" or "tokenizer"
	Print         PrintConfig     `yaml:"print"`
	Highlight     HighlightConfig `yaml:"highlight"`
	SectionLabels *bool           `yaml:"sectionLabels,omitempty"` // nil = true
}

// PrintConfig controls print.html.
type PrintConfig struct {
	Enable *bool `yaml:"enable,omitempty"` // nil = true
}

// HighlightConfig controls server-side code highlighting.
type HighlightConfig struct {
	Enable bool   `yaml:"enable"`
	Style  string `yaml:"style"`
}

// PDFConfig controls the optional PDF export of print.html.
type PDFConfig struct {
	Enable  bool   `yaml:"enable"`
	Timeout string `yaml:"timeout"` // Go duration, e.g. "90s"
	File    string `yaml:"file"`    // relative to the build directory
}

// Bool returns a pointer to v, for the optional boolean fields.
func Bool(v bool) *bool {
	return &v
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// ShouldCreateMissing reports whether missing chapter files get a stub.
func (b BuildConfig) ShouldCreateMissing() bool { return boolOr(b.CreateMissing, true) }

// ShouldHashFiles reports whether static assets are fingerprinted.
func (h HTMLConfig) ShouldHashFiles() bool { return boolOr(h.HashFiles, true) }

// ShowSectionLabels reports whether the sidebar shows chapter numbers.
func (h HTMLConfig) ShowSectionLabels() bool { return boolOr(h.SectionLabels, true) }

// Enabled reports whether print.html is generated.
func (p PrintConfig) Enabled() bool { return boolOr(p.Enable, true) }

// TimeoutDuration parses Timeout, falling back to DefaultPDFTimeout.
func (p PDFConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return DefaultPDFTimeout, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: output.pdf.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: output.pdf.timeout: must be positive, got %s", ErrInvalidValue, p.Timeout)
	}
	return d, nil
}

// DefaultConfig returns the configuration of a book without book.yaml.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Book.Language == "" {
		c.Book.Language = DefaultLanguage
	}
	if c.Book.Src == "" {
		c.Book.Src = DefaultSrc
	}
	if c.Build.BuildDir == "" {
		c.Build.BuildDir = DefaultBuildDir
	}
	if c.Output.HTML.HTMLRewriter == "" {
		c.Output.HTML.HTMLRewriter = render.RewriterRegex
	}
	if c.Output.HTML.Highlight.Style == "" {
		c.Output.HTML.Highlight.Style = render.DefaultHighlightStyle
	}
	if c.Output.PDF.File == "" {
		c.Output.PDF.File = DefaultPDFFile
	}
}

// SrcDir returns the chapter source directory for a book rooted at root.
func (c *Config) SrcDir(root string) string {
	return joinRoot(root, c.Book.Src)
}

// BuildDir returns the output directory for a book rooted at root.
func (c *Config) BuildDir(root string) string {
	return joinRoot(root, c.Build.BuildDir)
}

// ThemeDir returns the theme override directory, or "" for the built-in theme.
func (c *Config) ThemeDir(root string) string {
	if c.Output.HTML.Theme == "" {
		return ""
	}
	return joinRoot(root, c.Output.HTML.Theme)
}

// MultiLanguage reports whether each language is built separately.
func (c *Config) MultiLanguage() bool {
	return len(c.Book.Languages) > 1
}

func joinRoot(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Validate checks field lengths and enumerated values.
// Called by Load and LoadFile; call it after building a Config by hand.
func (c *Config) Validate() error {
	if err := validateFieldLength("book.title", c.Book.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("book.description", c.Book.Description, MaxDescriptionLength); err != nil {
		return err
	}
	for i, a := range c.Book.Authors {
		if err := validateFieldLength(fmt.Sprintf("book.authors[%d]", i), a, MaxAuthorLength); err != nil {
			return err
		}
	}
	if err := validateLanguage("book.language", c.Book.Language); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Book.Languages))
	for i, lang := range c.Book.Languages {
		field := fmt.Sprintf("book.languages[%d]", i)
		if lang == "" {
			return fmt.Errorf("%w: %s: empty language", ErrInvalidValue, field)
		}
		if err := validateLanguage(field, lang); err != nil {
			return err
		}
		if seen[lang] {
			return fmt.Errorf("%w: %s: duplicate language %q", ErrInvalidValue, field, lang)
		}
		seen[lang] = true
	}

	for field, p := range map[string]string{
		"book.src":          c.Book.Src,
		"build.buildDir":    c.Build.BuildDir,
		"output.html.theme": c.Output.HTML.Theme,
		"output.pdf.file":   c.Output.PDF.File,
	} {
		if err := validateFieldLength(field, p, MaxPathLength); err != nil {
			return err
		}
	}
	if c.Book.Src != "" && filepath.Clean(c.Book.Src) == filepath.Clean(c.Build.BuildDir) {
		return fmt.Errorf("%w: build.buildDir: must differ from book.src (%q)", ErrInvalidValue, c.Book.Src)
	}
	for i, p := range append(append([]string{}, c.Output.HTML.AdditionalCSS...), c.Output.HTML.AdditionalJS...) {
		if p == "" {
			return fmt.Errorf("%w: additional asset %d: empty path", ErrInvalidValue, i)
		}
		if err := validateFieldLength("output.html.additional", p, MaxPathLength); err != nil {
			return err
		}
	}

	switch c.Output.HTML.HTMLRewriter {
	case "", render.RewriterRegex, render.RewriterTokenizer:
	default:
		return fmt.Errorf("%w: output.html.htmlRewriter: %q (must be %s or %s)",
			ErrInvalidValue, c.Output.HTML.HTMLRewriter, render.RewriterRegex, render.RewriterTokenizer)
	}
	if style := c.Output.HTML.Highlight.Style; style != "" && !render.ValidStyle(style) {
		return fmt.Errorf("%w: output.html.highlight.style: unknown style %q", ErrInvalidValue, style)
	}

	if c.Output.PDF.File != "" && (filepath.IsAbs(c.Output.PDF.File) || strings.HasPrefix(filepath.ToSlash(filepath.Clean(c.Output.PDF.File)), "../")) {
		return fmt.Errorf("%w: output.pdf.file: must stay inside the build directory", ErrInvalidValue)
	}
	if _, err := c.Output.PDF.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

func validateLanguage(field, lang string) error {
	if err := validateFieldLength(field, lang, MaxLanguageLength); err != nil {
		return err
	}
	if strings.ContainsAny(lang, `/\. `) {
		return fmt.Errorf("%w: %s: %q is not a language code", ErrInvalidValue, field, lang)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Load reads book.yaml (or book.yml) from root. A book without either file
// gets DefaultConfig.
func Load(root string) (*Config, error) {
	for _, name := range []string{FileName, AltFileName} {
		p := filepath.Join(root, name)
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		return LoadFile(p)
	}
	return DefaultConfig(), nil
}

// LoadFile reads an explicitly named configuration file. A missing file is
// ErrConfigNotFound; an empty file means defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
		}
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes c to path as YAML.
func Save(path string, c *Config) error {
	data, err := yamlutil.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- book.yaml is not secret
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
