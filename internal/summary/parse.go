package summary

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FileName is the table of contents file looked up in the source directory.
const FileName = "SUMMARY.md"

// Sentinel errors for summary operations.
var (
	// ErrSummaryParse indicates SUMMARY.md does not have the expected shape.
	ErrSummaryParse = errors.New("invalid summary")

	// ErrSummaryRead indicates SUMMARY.md could not be read.
	ErrSummaryRead = errors.New("failed to read summary")
)

type section int

const (
	sectionPrefix section = iota
	sectionNumbered
	sectionSuffix
)

// Load reads and parses SUMMARY.md from srcDir.
func Load(srcDir string) (*Summary, error) {
	path := filepath.Join(srcDir, FileName)
	data, err := os.ReadFile(path) // #nosec G304 -- path is the configured source dir
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSummaryRead, path, err)
	}
	return Parse(string(data))
}

// Parse builds a Summary from markdown.
//
// Layout:
//   - an optional level-1 heading is the book title
//   - paragraphs of links before the first list are prefix chapters
//   - list items are numbered chapters, nested lists become nested items
//   - paragraphs of links after the list are suffix chapters
//   - thematic breaks are separators in the current section
//
// A link with an empty destination is a draft.
func Parse(content string) (*Summary, error) {
	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	p := &summaryParser{source: source, summary: &Summary{}}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if err := p.block(n); err != nil {
			return nil, err
		}
	}
	return p.summary, nil
}

type summaryParser struct {
	source  []byte
	summary *Summary
	state   section
	// next top-level chapter number; persists across lists split by separators
	counter int
}

func (p *summaryParser) block(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Heading:
		// Only the first heading before any chapter names the book.
		// Later headings are tolerated and ignored.
		if n.Level == 1 && p.summary.Title == "" && p.isEmpty() {
			p.summary.Title = plainText(n, p.source)
		}
		return nil

	case *ast.ThematicBreak:
		p.appendItem(Separator{})
		return nil

	case *ast.Paragraph:
		links, err := p.paragraphLinks(n)
		if err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		if p.state == sectionNumbered {
			p.state = sectionSuffix
		}
		for _, l := range links {
			p.appendItem(l)
		}
		return nil

	case *ast.List:
		if p.state == sectionSuffix {
			return fmt.Errorf("%w: numbered chapters found after suffix chapters (line %d)",
				ErrSummaryParse, p.line(n))
		}
		p.state = sectionNumbered
		items, err := p.list(n, nil, &p.counter)
		if err != nil {
			return err
		}
		p.summary.NumberedChapters = append(p.summary.NumberedChapters, items...)
		return nil

	default:
		// HTML comments, code blocks and the like carry no structure.
		return nil
	}
}

func (p *summaryParser) isEmpty() bool {
	s := p.summary
	return len(s.PrefixChapters) == 0 && len(s.NumberedChapters) == 0 && len(s.SuffixChapters) == 0
}

func (p *summaryParser) appendItem(item Item) {
	switch p.state {
	case sectionPrefix:
		p.summary.PrefixChapters = append(p.summary.PrefixChapters, item)
	case sectionNumbered:
		p.summary.NumberedChapters = append(p.summary.NumberedChapters, item)
	case sectionSuffix:
		p.summary.SuffixChapters = append(p.summary.SuffixChapters, item)
	}
}

// paragraphLinks extracts unnumbered links from a prefix or suffix paragraph.
// Anything other than links and whitespace is an error.
func (p *summaryParser) paragraphLinks(para *ast.Paragraph) ([]Item, error) {
	var links []Item
	for c := para.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Link:
			links = append(links, p.link(c))
		case *ast.Text:
			if len(bytes.TrimSpace(c.Segment.Value(p.source))) != 0 {
				return nil, fmt.Errorf("%w: expected a link, found %q (line %d)",
					ErrSummaryParse, c.Segment.Value(p.source), p.line(para))
			}
		default:
			return nil, fmt.Errorf("%w: expected a link, found %s (line %d)",
				ErrSummaryParse, c.Kind(), p.line(para))
		}
	}
	return links, nil
}

// list converts a markdown list into numbered links. next holds the last
// number used at this level.
func (p *summaryParser) list(list *ast.List, parent SectionNumber, next *int) ([]Item, error) {
	var items []Item
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		var link *Link
		var nested []Item
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.TextBlock, *ast.Paragraph:
				if link != nil {
					return nil, fmt.Errorf("%w: list item %q has more than one line (line %d)",
						ErrSummaryParse, link.Name, p.line(c))
				}
				l, err := p.itemLink(c)
				if err != nil {
					return nil, err
				}
				*next++
				l.Number = append(slices.Clone(parent), *next)
				link = l
			case *ast.List:
				if link == nil {
					return nil, fmt.Errorf("%w: nested list without a parent chapter (line %d)",
						ErrSummaryParse, p.line(c))
				}
				var counter int
				children, err := p.list(c, link.Number, &counter)
				if err != nil {
					return nil, err
				}
				nested = append(nested, children...)
			case *ast.ThematicBreak:
				nested = append(nested, Separator{})
			}
		}
		if link == nil {
			return nil, fmt.Errorf("%w: empty list item (line %d)", ErrSummaryParse, p.line(li))
		}
		link.NestedItems = nested
		items = append(items, link)
	}
	return items, nil
}

// itemLink returns the single link a list item line must consist of.
func (p *summaryParser) itemLink(block ast.Node) (*Link, error) {
	var found *Link
	for c := block.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Link:
			if found != nil {
				return nil, fmt.Errorf("%w: list item contains more than one link (line %d)",
					ErrSummaryParse, p.line(block))
			}
			found = p.link(c)
		case *ast.Text:
			if len(bytes.TrimSpace(c.Segment.Value(p.source))) != 0 {
				return nil, fmt.Errorf("%w: list item %q is not a link (line %d)",
					ErrSummaryParse, plainText(block, p.source), p.line(block))
			}
		default:
			return nil, fmt.Errorf("%w: list item %q is not a link (line %d)",
				ErrSummaryParse, plainText(block, p.source), p.line(block))
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: list item %q is not a link (line %d)",
			ErrSummaryParse, plainText(block, p.source), p.line(block))
	}
	return found, nil
}

func (p *summaryParser) link(l *ast.Link) *Link {
	return NewLink(plainText(l, p.source), strings.TrimSpace(string(l.Destination)))
}

// line returns the 1-based source line of the first block line under n.
func (p *summaryParser) line(n ast.Node) int {
	for cur := n; cur != nil; cur = cur.FirstChild() {
		if cur.Type() == ast.TypeBlock && cur.Lines().Len() > 0 {
			return bytes.Count(p.source[:cur.Lines().At(0).Start], []byte("\n")) + 1
		}
	}
	return 0
}

// plainText concatenates the text of every inline descendant of n.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
			if c.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
