package render

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Priority below goldmark's defaults (1000) so these run and register last.
const bookPriority = 100

// bookExtension rewrites link destinations and raw HTML, and optionally
// converts quotes in text.
type bookExtension struct {
	fixer       *LinkFixer
	rewriter    HTMLRewriter
	curlyQuotes bool
}

var _ goldmark.Extender = (*bookExtension)(nil)

func (e *bookExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&linkTransformer{fixer: e.fixer}, bookPriority),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&bookRenderer{
			fix:         e.fixer.Fix,
			rewriter:    e.rewriter,
			curlyQuotes: e.curlyQuotes,
		}, bookPriority),
	))
}

// linkTransformer fixes the destination of every link and image.
type linkTransformer struct {
	fixer *LinkFixer
}

func (t *linkTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Link:
			n.Destination = []byte(t.fixer.Fix(string(n.Destination)))
		case *ast.Image:
			n.Destination = []byte(t.fixer.Fix(string(n.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

// bookRenderer overrides goldmark's HTML output for raw HTML and, when
// curly quotes are on, for text.
type bookRenderer struct {
	fix         func(string) string
	rewriter    HTMLRewriter
	curlyQuotes bool
}

func (r *bookRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
	if r.curlyQuotes {
		reg.Register(ast.KindText, r.renderText)
	}
}

func (r *bookRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	var buf bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		buf.Write(segment.Value(source))
	}
	_, _ = w.WriteString(r.rewriter.RewriteHTML(buf.String(), r.fix))
	return ast.WalkSkipChildren, nil
}

func (r *bookRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	var buf bytes.Buffer
	if entering {
		for i := 0; i < n.Lines().Len(); i++ {
			line := n.Lines().At(i)
			buf.Write(line.Value(source))
		}
	} else if n.HasClosure() {
		closure := n.ClosureLine
		buf.Write(closure.Value(source))
	}
	if buf.Len() > 0 {
		html.DefaultWriter.SecureWrite(w, []byte(r.rewriter.RewriteHTML(buf.String(), r.fix)))
	}
	return ast.WalkContinue, nil
}

// renderText mirrors goldmark's text renderer with quote conversion applied.
// Code spans and code blocks render their own content and never reach here.
func (r *bookRenderer) renderText(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Text)
	value := n.Segment.Value(source)
	if n.IsRaw() {
		html.DefaultWriter.RawWrite(w, value)
		return ast.WalkContinue, nil
	}

	converted := curlyQuotes(string(value), precededBySpace(n, source))
	html.DefaultWriter.Write(w, []byte(converted))
	switch {
	case n.HardLineBreak():
		_, _ = w.WriteString("<br>\n")
	case n.SoftLineBreak():
		_ = w.WriteByte('\n')
	}
	return ast.WalkContinue, nil
}

// precededBySpace reports whether the text directly before n ends in
// whitespace. Text that starts a block counts as preceded by whitespace.
func precededBySpace(n *ast.Text, source []byte) bool {
	prev, ok := n.PreviousSibling().(*ast.Text)
	if !ok {
		return true
	}
	if prev.SoftLineBreak() || prev.HardLineBreak() {
		return true
	}
	value := prev.Segment.Value(source)
	if len(value) == 0 {
		return true
	}
	last, _ := utf8.DecodeLastRune(value)
	return unicode.IsSpace(last)
}
