// Package summary models a book's table of contents.
//
// A Summary is split into three fixed sections that are concatenated in order:
// prefix chapters (unnumbered, before the first list), numbered chapters (the
// nested list), and suffix chapters (unnumbered, after the list). Each section
// holds Items, which are either a *Link or a Separator.
package summary

import (
	"strconv"
	"strings"
)

// SectionNumber is the position of a numbered chapter, e.g. [1 2] for "1.2.".
type SectionNumber []int

// String renders the number the way it appears in a sidebar ("1.2.").
// An empty number renders as the empty string.
func (n SectionNumber) String() string {
	if len(n) == 0 {
		return ""
	}
	parts := make([]string, len(n))
	for i, v := range n {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".") + "."
}

// Depth returns how deeply the number is nested (1 for top-level chapters).
func (n SectionNumber) Depth() int {
	return len(n)
}

// Item is one entry of a summary section. The set of implementations is
// closed: *Link and Separator.
type Item interface {
	isSummaryItem()
}

// Separator is a visual break between groups of chapters.
type Separator struct{}

func (Separator) isSummaryItem() {}

// Link is a table-of-contents entry pointing at a chapter source file.
type Link struct {
	Name string
	// Location is relative to the source directory unless absolute.
	// An empty Location marks a draft chapter.
	Location    string
	Number      SectionNumber
	NestedItems []Item
}

func (*Link) isSummaryItem() {}

// NewLink creates an unnumbered link with no nested items.
func NewLink(name, location string) *Link {
	return &Link{Name: name, Location: location}
}

// IsDraft reports whether the link has no backing file.
func (l *Link) IsDraft() bool {
	return l.Location == ""
}

// PushItem appends a nested item.
func (l *Link) PushItem(item Item) {
	l.NestedItems = append(l.NestedItems, item)
}

// Summary is the parsed table of contents.
type Summary struct {
	Title            string
	PrefixChapters   []Item
	NumberedChapters []Item
	SuffixChapters   []Item
}

// Items returns prefix, numbered and suffix items concatenated in that order.
func (s *Summary) Items() []Item {
	items := make([]Item, 0, len(s.PrefixChapters)+len(s.NumberedChapters)+len(s.SuffixChapters))
	items = append(items, s.PrefixChapters...)
	items = append(items, s.NumberedChapters...)
	items = append(items, s.SuffixChapters...)
	return items
}
