package md2book

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2book/internal/assets"
	"github.com/alnah/go-md2book/internal/book"
	"github.com/alnah/go-md2book/internal/config"
	"github.com/alnah/go-md2book/internal/fileutil"
	"github.com/alnah/go-md2book/internal/pdf"
	"github.com/alnah/go-md2book/internal/render"
	"github.com/alnah/go-md2book/internal/site"
	"github.com/alnah/go-md2book/internal/summary"
)

// Builder builds books. A Builder holds no state between builds and may be
// reused, but not concurrently on the same output directory.
type Builder struct {
	logger     *slog.Logger
	cfg        *Config
	configPath string
	destDir    string
	pdf        PDFRenderer
	overrides  []func(*Config)
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// LoadConfig resolves the configuration for the book at root the same way
// Build does, overrides included.
func (b *Builder) LoadConfig(root string) (*Config, error) {
	cfg, err := b.loadConfig(root)
	return cfg, convertError(err)
}

func (b *Builder) loadConfig(root string) (*Config, error) {
	var cfg *Config
	switch {
	case b.cfg != nil:
		c := *b.cfg
		cfg = &c
	case b.configPath != "":
		c, err := config.LoadFile(b.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		c, err := config.Load(root)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	for _, o := range b.overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DestDir returns the output directory for the book at root under cfg.
func (b *Builder) DestDir(root string, cfg *Config) string {
	if b.destDir != "" {
		return b.destDir
	}
	return cfg.BuildDir(root)
}

// Build renders the book at root: one HTML page per chapter, the print page,
// the static assets and, when enabled, a PDF of the print page. The build
// directory is emptied first.
func (b *Builder) Build(ctx context.Context, root string) (*Result, error) {
	res, err := b.build(ctx, root)
	return res, convertError(err)
}

func (b *Builder) build(ctx context.Context, root string) (*Result, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	cfg, err := b.loadConfig(root)
	if err != nil {
		return nil, err
	}

	dest, err := filepath.Abs(b.DestDir(root, cfg))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDestDir, err)
	}
	srcDir := cfg.SrcDir(root)
	if err := checkDestDir(root, srcDir, dest); err != nil {
		return nil, err
	}

	theme, err := assets.LoadTheme(cfg.ThemeDir(root))
	if err != nil {
		return nil, err
	}
	rewriter, err := render.NewHTMLRewriter(cfg.Output.HTML.HTMLRewriter)
	if err != nil {
		return nil, err
	}
	html := cfg.Output.HTML
	renderer, err := site.New(theme, site.Options{
		Title:         cfg.Book.Title,
		Description:   cfg.Book.Description,
		PrintEnabled:  html.Print.Enabled(),
		HashFiles:     html.ShouldHashFiles(),
		SectionLabels: html.ShowSectionLabels(),
		Root:          root,
		AdditionalCSS: html.AdditionalCSS,
		AdditionalJS:  html.AdditionalJS,
		Markdown: render.Options{
			CurlyQuotes:    html.CurlyQuotes,
			Highlight:      html.Highlight.Enable,
			HighlightStyle: html.Highlight.Style,
			HTMLRewriter:   rewriter,
		},
		Logger: b.logger,
	})
	if err != nil {
		return nil, err
	}

	books, langs, err := b.loadBooks(cfg, srcDir)
	if err != nil {
		return nil, err
	}

	b.logger.Info("building book", "title", cfg.Book.Title, "dest", dest)
	if err := fileutil.CleanDir(dest); err != nil {
		return nil, fmt.Errorf("%w: cleaning %s: %v", ErrIO, dest, err)
	}

	res := &Result{DestDir: dest}
	multi := cfg.MultiLanguage()
	for _, lang := range langs {
		rc := site.Context{SrcDir: srcDir, DestDir: dest, Language: lang}
		prefix := ""
		if multi {
			rc.SrcDir = filepath.Join(srcDir, lang)
			rc.DestDir = filepath.Join(dest, lang)
			prefix = lang + "/"
		}

		out, err := renderer.Render(ctx, books[lang], rc)
		if err != nil {
			return nil, err
		}
		for _, p := range out.Pages {
			res.Pages = append(res.Pages, prefix+p)
		}
		res.Resources = out.Resources
		if out.PrintPage != "" {
			res.PrintPages = append(res.PrintPages, prefix+out.PrintPage)
		}
	}
	if multi {
		if err := renderer.WriteRedirect(dest, langs[0]+"/"+site.IndexPage); err != nil {
			return nil, err
		}
	}

	if cfg.Output.PDF.Enable {
		pdfs, err := b.exportPDFs(ctx, cfg, dest, res.PrintPages)
		if err != nil {
			return nil, err
		}
		res.PDFs = pdfs
	}

	b.logger.Info("book built", "pages", len(res.Pages), "dest", dest)
	return res, nil
}

// loadBooks loads one book per language. A single-language book is keyed by
// its language and read straight from srcDir.
func (b *Builder) loadBooks(cfg *Config, srcDir string) (map[string]*book.Book, []string, error) {
	opts := []book.LoadOption{
		book.WithCreateMissing(cfg.Build.ShouldCreateMissing()),
		book.WithLogger(b.logger),
	}

	if !cfg.MultiLanguage() {
		bk, err := loadBook(srcDir, opts)
		if err != nil {
			return nil, nil, err
		}
		lang := cfg.Book.Language
		return map[string]*book.Book{lang: bk}, []string{lang}, nil
	}

	books := make(map[string]*book.Book, len(cfg.Book.Languages))
	for _, lang := range cfg.Book.Languages {
		bk, err := loadBook(filepath.Join(srcDir, lang), opts)
		if err != nil {
			return nil, nil, fmt.Errorf("language %s: %w", lang, err)
		}
		books[lang] = bk
	}
	book.LinkTranslations(books)
	return books, cfg.Book.Languages, nil
}

func loadBook(srcDir string, opts []book.LoadOption) (*book.Book, error) {
	s, err := summary.Load(srcDir)
	if err != nil {
		return nil, err
	}
	return book.Load(s, srcDir, opts...)
}

func (b *Builder) exportPDFs(ctx context.Context, cfg *Config, dest string, printPages []string) ([]string, error) {
	if len(printPages) == 0 {
		b.logger.Warn("PDF export skipped: print page is disabled")
		return nil, nil
	}
	timeout, err := cfg.Output.PDF.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	r := b.pdf
	if r == nil {
		rod := pdf.NewRodRenderer(timeout)
		defer func() { _ = rod.Close() }()
		r = rod
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out []string
	for _, page := range printPages {
		rel := filepath.ToSlash(filepath.Join(filepath.Dir(filepath.FromSlash(page)), cfg.Output.PDF.File))
		b.logger.Info("exporting PDF", "file", rel)
		err := pdf.Export(ctx, r, filepath.Join(dest, filepath.FromSlash(page)), filepath.Join(dest, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, nil
}

// checkDestDir refuses build directories whose cleaning would delete the
// book's own sources.
func checkDestDir(root, srcDir, dest string) error {
	within := func(parent, child string) bool {
		rel, err := filepath.Rel(parent, child)
		return err == nil && (rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))))
	}
	srcAbs, err := filepath.Abs(srcDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDestDir, err)
	}
	if within(dest, root) || within(dest, srcAbs) || within(srcAbs, dest) {
		return fmt.Errorf("%w: %s overlaps the book sources", ErrInvalidDestDir, dest)
	}
	return nil
}
