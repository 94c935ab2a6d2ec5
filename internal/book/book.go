// Package book holds the loaded document tree.
//
// A Book owns its chapters by value: every Chapter owns its SubItems and
// nothing points back up the tree. Sibling relationships are expressed only
// through traversal order (see Iterator).
package book

import (
	"errors"
	"iter"

	"github.com/alnah/go-md2book/internal/summary"
)

// Sentinel errors for book loading.
var (
	// ErrChapterNotFound indicates a summary entry points at a missing file.
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrIO indicates any other failure reading or creating a chapter file.
	ErrIO = errors.New("chapter I/O failure")
)

// Item is one entry of the tree. The set of implementations is closed:
// *Chapter and Separator.
type Item interface {
	isBookItem()
}

// Separator mirrors a summary separator.
type Separator struct{}

func (Separator) isBookItem() {}

// TranslationLink points at the same chapter in another language.
type TranslationLink struct {
	Language string
	// DestPath is the chapter's output path inside that language's tree.
	DestPath string
}

// Chapter is a loaded summary link.
type Chapter struct {
	Name    string
	Content string
	// Number is nil for prefix, suffix and otherwise unnumbered chapters.
	Number   summary.SectionNumber
	SubItems []Item
	// SourcePath is the location as written in the summary, relative to the
	// source directory unless absolute. Empty for drafts.
	SourcePath string
	// DestPath is the output path relative to the build directory, always
	// slash-separated. Empty for drafts.
	DestPath         string
	TranslationLinks []TranslationLink
}

func (*Chapter) isBookItem() {}

// IsDraft reports whether the chapter is rendered as its own page.
func (c *Chapter) IsDraft() bool {
	return c.DestPath == ""
}

// Book is the root of the loaded tree.
type Book struct {
	Sections []Item
}

// Iter returns a fresh pre-order iterator over every item.
func (b *Book) Iter() *Iterator {
	return newIterator(b.Sections)
}

// All returns a pre-order sequence over every item, separators included.
func (b *Book) All() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		it := b.Iter()
		for {
			item, ok := it.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// Chapters returns every chapter in document order, drafts included.
func (b *Book) Chapters() []*Chapter {
	var chapters []*Chapter
	for item := range b.All() {
		if ch, ok := item.(*Chapter); ok {
			chapters = append(chapters, ch)
		}
	}
	return chapters
}
