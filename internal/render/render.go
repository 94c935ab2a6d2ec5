package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Sentinel errors for rendering.
var (
	// ErrRender indicates markdown could not be converted to HTML.
	ErrRender = errors.New("markdown rendering failed")

	// ErrUnknownRewriter indicates an unsupported HTML rewriter name.
	ErrUnknownRewriter = errors.New("unknown HTML rewriter")

	// ErrUnknownStyle indicates an unknown highlighting style.
	ErrUnknownStyle = errors.New("unknown highlight style")
)

// DefaultHighlightStyle is used when highlighting is on and no style is set.
const DefaultHighlightStyle = "github"

// Options configures a Renderer.
type Options struct {
	CurlyQuotes bool
	// Highlight colors fenced code server-side with chroma CSS classes.
	Highlight      bool
	HighlightStyle string
	// HTMLRewriter handles raw HTML; nil means RegexRewriter.
	HTMLRewriter HTMLRewriter
	Logger       *slog.Logger
}

// Renderer converts chapter markdown to an HTML body.
type Renderer struct {
	opts Options
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.HTMLRewriter == nil {
		opts.HTMLRewriter = &RegexRewriter{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.HighlightStyle == "" {
		opts.HighlightStyle = DefaultHighlightStyle
	}
	return &Renderer{opts: opts}
}

// Render converts markdown to HTML, fixing links for the page described by lc.
// Malformed markdown is rendered best-effort and never fails.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (r *Renderer) Render(ctx context.Context, markdown string, lc LinkContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ids := lc.HeadingIDs
	if ids == nil {
		ids = NewHeadingIDs()
	}
	md := r.markdown(NewLinkFixer(lc, r.opts.Logger))
	source := []byte(preprocess(markdown))

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		pc := parser.NewContext(parser.WithIDs(ids))
		if err := md.Convert(source, &buf, parser.WithContext(pc)); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRender, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// markdown builds a goldmark instance bound to one page's link fixer.
func (r *Renderer) markdown(fixer *LinkFixer) goldmark.Markdown {
	exts := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
		&bookExtension{
			fixer:       fixer,
			rewriter:    r.opts.HTMLRewriter,
			curlyQuotes: r.opts.CurlyQuotes,
		},
	}
	if r.opts.Highlight {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(r.opts.HighlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // stylesheet shipped as css/chroma.css
			),
		))
	}

	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(), // raw HTML in chapters is passed through
		),
	)
}

// HighlightCSS returns the stylesheet for chroma classes in the named style.
func HighlightCSS(style string) ([]byte, error) {
	if style == "" {
		style = DefaultHighlightStyle
	}
	s, ok := styles.Registry[style]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	var buf bytes.Buffer
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buf, s); err != nil {
		return nil, fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.Bytes(), nil
}

// ValidStyle reports whether a chroma style with that name exists.
func ValidStyle(style string) bool {
	_, ok := styles.Registry[style]
	return ok
}
