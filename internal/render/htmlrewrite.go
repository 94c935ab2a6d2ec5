package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Group 1 is everything up to the opening quote, group 2 the value.
var htmlLink = regexp.MustCompile(`(<(?:a|img) [^>]*?(?:src|href)=")([^"]+?)"`)

// HTMLRewriter rewrites href and src values of <a> and <img> tags found in
// raw HTML embedded in markdown.
type HTMLRewriter interface {
	RewriteHTML(fragment string, fix func(dest string) string) string
}

// Compile-time interface checks.
var (
	_ HTMLRewriter = (*RegexRewriter)(nil)
	_ HTMLRewriter = (*TokenizerRewriter)(nil)
)

// NewHTMLRewriter returns the rewriter registered under name: "regex"
// (also the empty string) or "tokenizer".
func NewHTMLRewriter(name string) (HTMLRewriter, error) {
	switch name {
	case "", RewriterRegex:
		return &RegexRewriter{}, nil
	case RewriterTokenizer:
		return &TokenizerRewriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRewriter, name)
	}
}

// Rewriter names accepted by NewHTMLRewriter.
const (
	RewriterRegex     = "regex"
	RewriterTokenizer = "tokenizer"
)

// RegexRewriter matches a narrow tag shape: `<a ... href="...">` and
// `<img ... src="...">` with double-quoted values. Markdown-embedded HTML is
// usually that simple.
type RegexRewriter struct{}

// RewriteHTML implements HTMLRewriter.
func (*RegexRewriter) RewriteHTML(fragment string, fix func(string) string) string {
	if !strings.Contains(fragment, "<") {
		return fragment
	}
	matches := htmlLink.FindAllStringSubmatchIndex(fragment, -1)
	if matches == nil {
		return fragment
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		// m[4]:m[5] is the attribute value
		out.WriteString(fragment[last:m[4]])
		out.WriteString(fix(fragment[m[4]:m[5]]))
		last = m[5]
	}
	out.WriteString(fragment[last:])
	return out.String()
}

// TokenizerRewriter walks the fragment with an HTML tokenizer. Tokens other
// than rewritten <a>/<img> start tags are copied verbatim.
type TokenizerRewriter struct{}

// RewriteHTML implements HTMLRewriter.
func (*TokenizerRewriter) RewriteHTML(fragment string, fix func(string) string) string {
	if !strings.Contains(fragment, "<") {
		return fragment
	}

	var out strings.Builder
	consumed := 0
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a truncated tag: keep whatever was not tokenized.
			out.WriteString(fragment[min(consumed, len(fragment)):])
			return out.String()
		}

		// Copied before Token(), which lowercases the buffer in place.
		raw := string(z.Raw())
		consumed += len(raw)
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.WriteString(raw)
			continue
		}

		tok := z.Token()
		if !rewriteAttrs(&tok, fix) {
			out.WriteString(raw)
			continue
		}
		out.WriteString(tok.String())
	}
}

// rewriteAttrs fixes href on <a> and src on <img>. It reports whether any
// value changed.
func rewriteAttrs(tok *html.Token, fix func(string) string) bool {
	var key string
	switch tok.Data {
	case "a":
		key = "href"
	case "img":
		key = "src"
	default:
		return false
	}

	changed := false
	for i, attr := range tok.Attr {
		if attr.Key != key || attr.Val == "" {
			continue
		}
		if fixed := fix(attr.Val); fixed != attr.Val {
			tok.Attr[i].Val = fixed
			changed = true
		}
	}
	return changed
}
