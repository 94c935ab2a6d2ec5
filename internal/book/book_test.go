package book

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/alnah/go-md2book/internal/summary"
)

// writeFiles creates every file under dir, creating parents as needed.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func names(items []Item) []string {
	var out []string
	for _, item := range items {
		switch item := item.(type) {
		case *Chapter:
			out = append(out, item.Name)
		case Separator:
			out = append(out, "---")
		}
	}
	return out
}

func iterate(b *Book) []Item {
	var out []Item
	it := b.Iter()
	for {
		item, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, item)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// TestLoad - Loading order and content
// ---------------------------------------------------------------------------

func TestLoad_FlatOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"intro.md": "# Intro\n",
		"one.md":   "# One\n",
		"two.md":   "# Two\n",
		"end.md":   "# End\n",
	})

	s := &summary.Summary{
		PrefixChapters: []summary.Item{summary.NewLink("Intro", "intro.md")},
		NumberedChapters: []summary.Item{
			&summary.Link{Name: "One", Location: "one.md", Number: summary.SectionNumber{1}},
			summary.Separator{},
			&summary.Link{Name: "Two", Location: "two.md", Number: summary.SectionNumber{2}},
		},
		SuffixChapters: []summary.Item{summary.NewLink("End", "end.md")},
	}

	b, err := Load(s, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := names(iterate(b))
	want := []string{"Intro", "One", "---", "Two", "End"}
	if !equalStrings(got, want) {
		t.Errorf("iteration order = %v, want %v", got, want)
	}
}

func TestLoad_PreOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.md":       "a",
		"a/a1.md":    "a1",
		"a/a1/x.md":  "x",
		"a/a2.md":    "a2",
		"b.md":       "b",
		"b/b1.md":    "b1",
		"standalone": "unused",
	})

	s := &summary.Summary{
		NumberedChapters: []summary.Item{
			&summary.Link{
				Name: "A", Location: "a.md", Number: summary.SectionNumber{1},
				NestedItems: []summary.Item{
					&summary.Link{
						Name: "A1", Location: "a/a1.md", Number: summary.SectionNumber{1, 1},
						NestedItems: []summary.Item{
							&summary.Link{Name: "X", Location: "a/a1/x.md", Number: summary.SectionNumber{1, 1, 1}},
						},
					},
					&summary.Link{Name: "A2", Location: "a/a2.md", Number: summary.SectionNumber{1, 2}},
				},
			},
			&summary.Link{
				Name: "B", Location: "b.md", Number: summary.SectionNumber{2},
				NestedItems: []summary.Item{
					&summary.Link{Name: "B1", Location: "b/b1.md", Number: summary.SectionNumber{2, 1}},
				},
			},
		},
	}

	b, err := Load(s, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"A", "A1", "X", "A2", "B", "B1"}
	if got := names(iterate(b)); !equalStrings(got, want) {
		t.Errorf("Iter() order = %v, want %v", got, want)
	}

	t.Run("restartable", func(t *testing.T) {
		t.Parallel()

		if got := names(iterate(b)); !equalStrings(got, want) {
			t.Errorf("second Iter() order = %v, want %v", got, want)
		}
	})

	t.Run("All matches Iter", func(t *testing.T) {
		t.Parallel()

		var got []Item
		for item := range b.All() {
			got = append(got, item)
		}
		if !equalStrings(names(got), want) {
			t.Errorf("All() order = %v, want %v", names(got), want)
		}
	})

	t.Run("numbers and content", func(t *testing.T) {
		t.Parallel()

		chapters := b.Chapters()
		x := chapters[2]
		if x.Number.String() != "1.1.1." {
			t.Errorf("X number = %q, want %q", x.Number.String(), "1.1.1.")
		}
		if x.Content != "x" {
			t.Errorf("X content = %q, want %q", x.Content, "x")
		}
		if x.DestPath != "a/a1/x.html" {
			t.Errorf("X dest = %q, want %q", x.DestPath, "a/a1/x.html")
		}
	})
}

func TestLoad_ExactContent(t *testing.T) {
	t.Parallel()

	content := "# Title\r\n\nUnicode: héllo “quotes” \x00\ttab\n"
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"c.md": content})

	s := &summary.Summary{NumberedChapters: []summary.Item{summary.NewLink("C", "c.md")}}
	b, err := Load(s, dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := b.Chapters()[0].Content; got != content {
		t.Errorf("Content = %q, want %q", got, content)
	}
}

func TestLoad_ChapterNotFound(t *testing.T) {
	t.Parallel()

	s := &summary.Summary{NumberedChapters: []summary.Item{summary.NewLink("Gone", "gone.md")}}
	_, err := Load(s, t.TempDir())
	if !errors.Is(err, ErrChapterNotFound) {
		t.Fatalf("Load() error = %v, want ErrChapterNotFound", err)
	}
}

func TestLoad_ReadErrorIsIO(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// A directory where a file is expected cannot be read as a chapter.
	if err := os.Mkdir(filepath.Join(dir, "dir.md"), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	s := &summary.Summary{NumberedChapters: []summary.Item{summary.NewLink("Dir", "dir.md")}}
	_, err := Load(s, dir)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("Load() error = %v, want ErrIO", err)
	}
}

func TestLoad_AbsoluteLocation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"sub/abs.md": "abs"})
	abs := filepath.Join(dir, "sub", "abs.md")

	s := &summary.Summary{NumberedChapters: []summary.Item{summary.NewLink("Abs", abs)}}
	b, err := Load(s, filepath.Join(t.TempDir(), "elsewhere"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	ch := b.Chapters()[0]
	if ch.Content != "abs" {
		t.Errorf("Content = %q, want %q", ch.Content, "abs")
	}
	if ch.DestPath != "abs.html" {
		t.Errorf("DestPath = %q, want %q", ch.DestPath, "abs.html")
	}
}

func TestLoad_DraftChapter(t *testing.T) {
	t.Parallel()

	s := &summary.Summary{NumberedChapters: []summary.Item{
		&summary.Link{Name: "Soon", Number: summary.SectionNumber{1}},
	}}
	b, err := Load(s, t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	ch := b.Chapters()[0]
	if !ch.IsDraft() {
		t.Error("IsDraft() = false, want true")
	}
	if ch.Number.String() != "1." {
		t.Errorf("Number = %q, want %q", ch.Number.String(), "1.")
	}
}

func TestLoad_CreateMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"exists.md": "kept"})

	s := &summary.Summary{NumberedChapters: []summary.Item{
		&summary.Link{
			Name: "Exists", Location: "exists.md", Number: summary.SectionNumber{1},
			NestedItems: []summary.Item{
				&summary.Link{Name: "New Page", Location: "nested/new.md", Number: summary.SectionNumber{1, 1}},
			},
		},
	}}

	b, err := Load(s, dir, WithCreateMissing(true))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	chapters := b.Chapters()
	if chapters[0].Content != "kept" {
		t.Errorf("existing content = %q, want %q", chapters[0].Content, "kept")
	}
	if chapters[1].Content != "# New Page\n" {
		t.Errorf("stub content = %q, want %q", chapters[1].Content, "# New Page\n")
	}
	if _, err := os.Stat(filepath.Join(dir, "nested", "new.md")); err != nil {
		t.Errorf("stub file not created: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestDestPath - Output path mapping
// ---------------------------------------------------------------------------

func TestDestPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		want     string
	}{
		{"intro.md", "intro.html"},
		{"guide/setup.md", "guide/setup.html"},
		{"README.md", "index.html"},
		{"guide/readme.md", "guide/index.html"},
		{"notes.markdown", "notes.html"},
	}
	if runtime.GOOS == "windows" {
		tests = append(tests, struct {
			location string
			want     string
		}{`guide\win.md`, "guide/win.html"})
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			t.Parallel()

			if got := DestPath(tt.location); got != tt.want {
				t.Errorf("DestPath(%q) = %q, want %q", tt.location, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNavigation - Previous/Next and translations
// ---------------------------------------------------------------------------

func navBook() *Book {
	return &Book{Sections: []Item{
		&Chapter{Name: "A", DestPath: "a.html", SourcePath: "a.md", SubItems: []Item{
			&Chapter{Name: "Draft"},
			&Chapter{Name: "A1", DestPath: "a/a1.html", SourcePath: "a/a1.md"},
		}},
		Separator{},
		&Chapter{Name: "B", DestPath: "b.html", SourcePath: "b.md"},
	}}
}

func TestPreviousNext(t *testing.T) {
	t.Parallel()

	b := navBook()

	tests := []struct {
		dest     string
		wantPrev string
		wantNext string
	}{
		{"a.html", "", "A1"},
		{"a/a1.html", "A", "B"},
		{"b.html", "A1", ""},
		{"unknown.html", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			t.Parallel()

			prev, next := Previous(b, tt.dest), Next(b, tt.dest)
			if got := chapterName(prev); got != tt.wantPrev {
				t.Errorf("Previous(%q) = %q, want %q", tt.dest, got, tt.wantPrev)
			}
			if got := chapterName(next); got != tt.wantNext {
				t.Errorf("Next(%q) = %q, want %q", tt.dest, got, tt.wantNext)
			}
		})
	}
}

func chapterName(ch *Chapter) string {
	if ch == nil {
		return ""
	}
	return ch.Name
}

func TestLinkTranslations(t *testing.T) {
	t.Parallel()

	en := navBook()
	fr := &Book{Sections: []Item{
		&Chapter{Name: "A-fr", DestPath: "a.html", SourcePath: "a.md"},
	}}

	LinkTranslations(map[string]*Book{"en": en, "fr": fr})

	a := en.Chapters()[0]
	if len(a.TranslationLinks) != 1 || a.TranslationLinks[0].Language != "fr" {
		t.Errorf("en A translations = %+v, want one fr link", a.TranslationLinks)
	}
	b := en.Chapters()[3]
	if len(b.TranslationLinks) != 0 {
		t.Errorf("en B translations = %+v, want none", b.TranslationLinks)
	}
	afr := fr.Chapters()[0]
	if len(afr.TranslationLinks) != 1 || afr.TranslationLinks[0].Language != "en" {
		t.Errorf("fr A translations = %+v, want one en link", afr.TranslationLinks)
	}
}
