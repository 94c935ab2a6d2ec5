package book

import (
	"slices"
)

// Previous returns the non-draft chapter rendered just before destPath, or
// nil when destPath is the first page or not part of the book.
func Previous(b *Book, destPath string) *Chapter {
	pages := renderable(b)
	i := indexOf(pages, destPath)
	if i <= 0 {
		return nil
	}
	return pages[i-1]
}

// Next returns the non-draft chapter rendered just after destPath, or nil
// when destPath is the last page or not part of the book.
func Next(b *Book, destPath string) *Chapter {
	pages := renderable(b)
	i := indexOf(pages, destPath)
	if i < 0 || i+1 >= len(pages) {
		return nil
	}
	return pages[i+1]
}

func renderable(b *Book) []*Chapter {
	var pages []*Chapter
	for _, ch := range b.Chapters() {
		if !ch.IsDraft() {
			pages = append(pages, ch)
		}
	}
	return pages
}

func indexOf(pages []*Chapter, destPath string) int {
	return slices.IndexFunc(pages, func(ch *Chapter) bool {
		return ch.DestPath == destPath
	})
}

// LinkTranslations records, on every chapter, the same chapter in the other
// languages. Chapters match when their SourcePath is identical. Links are
// ordered by language code.
func LinkTranslations(books map[string]*Book) {
	langs := make([]string, 0, len(books))
	for lang := range books {
		langs = append(langs, lang)
	}
	slices.Sort(langs)

	// language -> source path -> dest path
	index := make(map[string]map[string]string, len(books))
	for _, lang := range langs {
		paths := make(map[string]string)
		for _, ch := range books[lang].Chapters() {
			if !ch.IsDraft() {
				paths[ch.SourcePath] = ch.DestPath
			}
		}
		index[lang] = paths
	}

	for _, lang := range langs {
		for _, ch := range books[lang].Chapters() {
			if ch.IsDraft() {
				continue
			}
			ch.TranslationLinks = nil
			for _, other := range langs {
				if other == lang {
					continue
				}
				if dest, ok := index[other][ch.SourcePath]; ok {
					ch.TranslationLinks = append(ch.TranslationLinks, TranslationLink{
						Language: other,
						DestPath: dest,
					})
				}
			}
		}
	}
}
