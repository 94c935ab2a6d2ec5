package md2book

import (
	"context"
	"log/slog"

	"github.com/alnah/go-md2book/internal/config"
)

// Config is the parsed form of book.yaml.
type Config = config.Config

// DefaultConfig returns the configuration of a book without book.yaml.
func DefaultConfig() *Config {
	return config.DefaultConfig()
}

// PDFRenderer prints a local HTML file to PDF.
// The default implementation drives headless Chrome through go-rod.
type PDFRenderer interface {
	RenderFile(ctx context.Context, path string) ([]byte, error)
	Close() error
}

// Result describes a finished build. Paths are slash-separated and relative
// to DestDir.
type Result struct {
	DestDir string
	// Pages lists every written chapter page, including index.html.
	Pages []string
	// Resources maps logical asset names to their fingerprinted names.
	Resources map[string]string
	// PrintPages and PDFs hold one entry per language.
	PrintPages []string
	PDFs       []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for build diagnostics. Nil means slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithConfig uses cfg instead of reading book.yaml.
func WithConfig(cfg *Config) Option {
	return func(b *Builder) {
		b.cfg = cfg
	}
}

// WithConfigFile reads the configuration from path instead of the book root.
func WithConfigFile(path string) Option {
	return func(b *Builder) {
		b.configPath = path
	}
}

// WithDestDir overrides build.buildDir.
func WithDestDir(dir string) Option {
	return func(b *Builder) {
		b.destDir = dir
	}
}

// WithPDFRenderer injects the renderer used when PDF export is enabled.
// The Builder does not close an injected renderer.
func WithPDFRenderer(r PDFRenderer) Option {
	return func(b *Builder) {
		b.pdf = r
	}
}

// WithPDF forces PDF export on or off, overriding output.pdf.enable.
func WithPDF(enable bool) Option {
	return func(b *Builder) {
		b.overrides = append(b.overrides, func(c *Config) { c.Output.PDF.Enable = enable })
	}
}

// WithCurlyQuotes overrides output.html.curlyQuotes.
func WithCurlyQuotes(enable bool) Option {
	return func(b *Builder) {
		b.overrides = append(b.overrides, func(c *Config) { c.Output.HTML.CurlyQuotes = enable })
	}
}

// WithHashFiles overrides output.html.hashFiles.
func WithHashFiles(enable bool) Option {
	return func(b *Builder) {
		b.overrides = append(b.overrides, func(c *Config) { c.Output.HTML.HashFiles = config.Bool(enable) })
	}
}
