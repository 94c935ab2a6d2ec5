package site

import (
	"html/template"
	"strings"

	"github.com/alnah/go-md2book/internal/book"
)

// tocBuilder renders the sidebar table of contents for one page.
type tocBuilder struct {
	pathToRoot    string
	current       string // DestPath of the page, "" for the print page
	sectionLabels bool
}

func (t *tocBuilder) build(items []book.Item) template.HTML {
	var sb strings.Builder
	sb.WriteString(`<ol class="chapter">`)
	t.items(&sb, items)
	sb.WriteString(`</ol>`)
	return template.HTML(sb.String()) // #nosec G203 -- every interpolated value is escaped below
}

func (t *tocBuilder) items(sb *strings.Builder, items []book.Item) {
	for _, item := range items {
		switch it := item.(type) {
		case book.Separator:
			sb.WriteString(`<li class="spacer"></li>`)
		case *book.Chapter:
			t.chapter(sb, it)
		}
	}
}

func (t *tocBuilder) chapter(sb *strings.Builder, ch *book.Chapter) {
	class := "chapter-item"
	if len(ch.Number) == 0 {
		class += " affix"
	}
	sb.WriteString(`<li class="` + class + `">`)

	if ch.IsDraft() {
		sb.WriteString(`<div>`)
		t.label(sb, ch)
		sb.WriteString(`</div>`)
	} else {
		sb.WriteString(`<a href="`)
		sb.WriteString(template.HTMLEscapeString(t.pathToRoot + ch.DestPath))
		sb.WriteByte('"')
		if ch.DestPath == t.current {
			sb.WriteString(` class="active"`)
		}
		sb.WriteByte('>')
		t.label(sb, ch)
		sb.WriteString(`</a>`)
	}
	sb.WriteString(`</li>`)

	if len(ch.SubItems) > 0 {
		sb.WriteString(`<li><ol class="section">`)
		t.items(sb, ch.SubItems)
		sb.WriteString(`</ol></li>`)
	}
}

func (t *tocBuilder) label(sb *strings.Builder, ch *book.Chapter) {
	if t.sectionLabels && len(ch.Number) > 0 {
		sb.WriteString(`<strong aria-hidden="true">`)
		sb.WriteString(ch.Number.String())
		sb.WriteString(`</strong> `)
	}
	sb.WriteString(template.HTMLEscapeString(ch.Name))
}
