// Package site renders a loaded book into a static HTML site: one page per
// chapter, an optional single print page, and the theme's static assets.
//
// A build runs in a fixed order. Assets are collected, fingerprinted and
// written first so pages can reference their final names. The symlink map
// is built next, then each non-draft chapter is rendered in document order.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"path"
	"path/filepath"
	"unicode/utf8"

	"github.com/alnah/go-md2book/internal/assets"
	"github.com/alnah/go-md2book/internal/book"
	"github.com/alnah/go-md2book/internal/fileutil"
	"github.com/alnah/go-md2book/internal/render"
)

// Sentinel errors for site rendering.
var (
	ErrTemplate     = errors.New("page template failed")
	ErrPathEncoding = errors.New("path is not valid UTF-8")
	ErrWrite        = errors.New("failed to write page")
)

// Output file names at the root of the build directory.
const (
	IndexPage = "index.html"
	PrintPage = "print.html"
)

// printBreak separates chapters on the print page.
const printBreak = `<div style="break-before: page; page-break-before: always;"></div>`

// Options configures a Renderer.
type Options struct {
	Title         string
	Description   string
	PrintEnabled  bool
	HashFiles     bool
	SectionLabels bool
	// Root is the directory additional asset paths are relative to.
	Root          string
	AdditionalCSS []string
	AdditionalJS  []string
	Markdown      render.Options
	Logger        *slog.Logger
}

// Context locates one book (one language) on disk.
type Context struct {
	SrcDir   string
	DestDir  string
	Language string
}

// Output lists what a Render call wrote, relative to the build directory.
type Output struct {
	Pages     []string
	Resources assets.ResourceNames
	// PrintPage is empty when the print page is disabled.
	PrintPage string
}

// Renderer turns books into HTML sites. It is safe to reuse across builds;
// no state is kept between Render calls.
type Renderer struct {
	theme    *assets.Theme
	index    *template.Template
	redirect *template.Template
	md       *render.Renderer
	opts     Options
	logger   *slog.Logger
}

// pageFuncs are replaced per page; these stubs exist so the template parses.
var pageFuncs = template.FuncMap{
	"resource": func(string) string { return "" },
	"toc":      func() template.HTML { return "" },
	"previous": func() any { return nil },
	"next":     func() any { return nil },
}

// New parses the theme's templates.
func New(theme *assets.Theme, opts Options) (*Renderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Markdown.Logger = logger

	index, err := template.New(assets.IndexTemplate).Funcs(pageFuncs).Parse(string(theme.Index))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, assets.IndexTemplate, err)
	}
	redirect, err := template.New(assets.RedirectTemplate).Parse(string(theme.Redirect))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, assets.RedirectTemplate, err)
	}

	return &Renderer{
		theme:    theme,
		index:    index,
		redirect: redirect,
		md:       render.New(opts.Markdown),
		opts:     opts,
		logger:   logger,
	}, nil
}

// navLink is a previous/next button.
type navLink struct {
	Link  string
	Title string
}

type translation struct {
	Language string
	Link     string
}

// pageData is the index.html template data.
type pageData struct {
	Language        string
	Title           string
	Description     string
	BookTitle       string
	PrintEnabled    bool
	ServerHighlight bool
	AdditionalCSS   []string
	AdditionalJS    []string
	Translations    []translation
	PathToRoot      string
	Content         template.HTML
}

// Render writes every page of b and the static assets under rc.DestDir.
func (r *Renderer) Render(ctx context.Context, b *book.Book, rc Context) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names, err := r.writeAssets(rc.DestDir)
	if err != nil {
		return nil, err
	}
	if err := fileutil.WriteFile(rc.DestDir, ".nojekyll", nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	toRender, err := symlinkMap(b, rc)
	if err != nil {
		return nil, err
	}

	out := &Output{Resources: names}
	needIndex := !hasIndexPage(b)
	var first *book.Chapter

	for item := range b.All() {
		ch, ok := item.(*book.Chapter)
		if !ok || ch.IsDraft() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !utf8.ValidString(ch.DestPath) {
			return nil, fmt.Errorf("%w: %q", ErrPathEncoding, ch.DestPath)
		}
		r.logger.Debug("rendering chapter", "chapter", ch.Name, "path", ch.DestPath)

		content, err := r.md.Render(ctx, ch.Content, render.LinkContext{
			Symlinks: symlinks(toRender, rc.SrcDir, ch),
		})
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", ch.SourcePath, err)
		}
		if err := r.writePage(b, rc, names, ch, ch.DestPath, content); err != nil {
			return nil, err
		}
		out.Pages = append(out.Pages, ch.DestPath)

		if first == nil {
			first = ch
			if needIndex {
				// The first chapter doubles as the landing page.
				if err := r.writePage(b, rc, names, ch, IndexPage, content); err != nil {
					return nil, err
				}
				out.Pages = append(out.Pages, IndexPage)
			}
		}
	}
	if first == nil {
		r.logger.Warn("book has no renderable chapter", "dest", rc.DestDir)
		return out, nil
	}

	if r.opts.PrintEnabled {
		if err := r.writePrintPage(ctx, b, rc, names, toRender); err != nil {
			return nil, err
		}
		out.PrintPage = PrintPage
	}
	return out, nil
}

func hasIndexPage(b *book.Book) bool {
	for _, ch := range b.Chapters() {
		if ch.DestPath == IndexPage {
			return true
		}
	}
	return false
}

func (r *Renderer) writeAssets(dest string) (assets.ResourceNames, error) {
	var highlight []byte
	if r.opts.Markdown.Highlight {
		css, err := render.HighlightCSS(r.opts.Markdown.HighlightStyle)
		if err != nil {
			return nil, err
		}
		highlight = css
	}

	catalog, err := assets.Collect(r.theme, assets.CollectOptions{
		Root:          r.opts.Root,
		AdditionalCSS: r.opts.AdditionalCSS,
		AdditionalJS:  r.opts.AdditionalJS,
		PrintEnabled:  r.opts.PrintEnabled,
		HighlightCSS:  highlight,
		Logger:        r.logger,
	})
	if err != nil {
		return nil, err
	}
	if r.opts.HashFiles {
		if err := catalog.Hash(); err != nil {
			return nil, err
		}
	}
	return catalog.Write(dest)
}

// symlinkMap maps the canonical source path of every renderable chapter to
// the absolute path of its output page.
func symlinkMap(b *book.Book, rc Context) (map[string]string, error) {
	destAbs, err := filepath.Abs(rc.DestDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	m := make(map[string]string)
	for _, ch := range b.Chapters() {
		if ch.IsDraft() {
			continue
		}
		src := filepath.FromSlash(ch.SourcePath)
		if !filepath.IsAbs(src) {
			src = filepath.Join(rc.SrcDir, src)
		}
		canon, err := render.CanonicalPath(src)
		if err != nil {
			continue
		}
		m[canon] = filepath.Join(destAbs, filepath.FromSlash(ch.DestPath))
	}
	return m, nil
}

func symlinks(m map[string]string, srcDir string, ch *book.Chapter) *render.SymlinkContext {
	return &render.SymlinkContext{
		ToRenderPaths: m,
		SrcDir:        srcDir,
		CurrentPath:   ch.SourcePath,
	}
}

// writePage executes index.html for ch and writes it at pagePath.
func (r *Renderer) writePage(b *book.Book, rc Context, names assets.ResourceNames, ch *book.Chapter, pagePath, content string) error {
	root := fileutil.PathToRoot(pagePath)
	data := r.baseData(rc, root)
	data.Title = ch.Name
	if r.opts.Title != "" {
		data.Title = ch.Name + " - " + r.opts.Title
	}
	data.Content = template.HTML(content) // #nosec G203 -- rendered chapter HTML
	for _, tl := range ch.TranslationLinks {
		data.Translations = append(data.Translations, translation{
			Language: tl.Language,
			Link:     root + "../" + tl.Language + "/" + tl.DestPath,
		})
	}

	funcs := r.funcs(root, names, &tocBuilder{
		pathToRoot:    root,
		current:       ch.DestPath,
		sectionLabels: r.opts.SectionLabels,
	}, b)
	funcs["previous"] = func() any { return nav(root, book.Previous(b, ch.DestPath)) }
	funcs["next"] = func() any { return nav(root, book.Next(b, ch.DestPath)) }

	return r.execute(rc.DestDir, pagePath, funcs, data)
}

func (r *Renderer) writePrintPage(ctx context.Context, b *book.Book, rc Context, names assets.ResourceNames, toRender map[string]string) error {
	ids := render.NewHeadingIDs()
	var body bytes.Buffer
	first := true
	for item := range b.All() {
		ch, ok := item.(*book.Chapter)
		if !ok || ch.IsDraft() {
			continue
		}
		content, err := r.md.Render(ctx, ch.Content, render.LinkContext{
			PrintPath:  ch.DestPath,
			Symlinks:   symlinks(toRender, rc.SrcDir, ch),
			HeadingIDs: ids,
		})
		if err != nil {
			return fmt.Errorf("rendering %s for print: %w", ch.SourcePath, err)
		}
		if !first {
			body.WriteString(printBreak)
			body.WriteByte('\n')
		}
		first = false
		body.WriteString(content)
	}

	data := r.baseData(rc, "")
	data.Title = r.opts.Title
	data.Content = template.HTML(body.String()) // #nosec G203 -- rendered chapter HTML
	funcs := r.funcs("", names, &tocBuilder{sectionLabels: r.opts.SectionLabels}, b)
	return r.execute(rc.DestDir, PrintPage, funcs, data)
}

func (r *Renderer) baseData(rc Context, root string) pageData {
	css := make([]string, 0, len(r.opts.AdditionalCSS))
	for _, p := range r.opts.AdditionalCSS {
		css = append(css, path.Clean(filepath.ToSlash(p)))
	}
	js := make([]string, 0, len(r.opts.AdditionalJS))
	for _, p := range r.opts.AdditionalJS {
		js = append(js, path.Clean(filepath.ToSlash(p)))
	}
	return pageData{
		Language:        rc.Language,
		Description:     r.opts.Description,
		BookTitle:       r.opts.Title,
		PrintEnabled:    r.opts.PrintEnabled,
		ServerHighlight: r.opts.Markdown.Highlight,
		AdditionalCSS:   css,
		AdditionalJS:    js,
		PathToRoot:      root,
	}
}

func (r *Renderer) funcs(root string, names assets.ResourceNames, toc *tocBuilder, b *book.Book) template.FuncMap {
	return template.FuncMap{
		"resource": func(name string) string { return root + names.Lookup(name) },
		"toc":      func() template.HTML { return toc.build(b.Sections) },
		"previous": func() any { return nil },
		"next":     func() any { return nil },
	}
}

func (r *Renderer) execute(dest, pagePath string, funcs template.FuncMap, data pageData) error {
	tmpl, err := r.index.Clone()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Funcs(funcs).Execute(&buf, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplate, pagePath, err)
	}
	if err := fileutil.WriteFile(dest, pagePath, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func nav(root string, ch *book.Chapter) any {
	if ch == nil {
		return nil
	}
	return &navLink{Link: root + ch.DestPath, Title: ch.Name}
}

// WriteRedirect writes an index.html under dest that forwards to target.
func (r *Renderer) WriteRedirect(dest, target string) error {
	var buf bytes.Buffer
	if err := r.redirect.Execute(&buf, struct{ URL string }{URL: target}); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTemplate, assets.RedirectTemplate, err)
	}
	if err := fileutil.WriteFile(dest, IndexPage, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
