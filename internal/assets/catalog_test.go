package assets

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Notes:
// - Digests below are the first 4 bytes of SHA-256, e.g. e3b0c442 is the
//   empty input.

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// emptyTheme returns a theme whose files are all empty.
func emptyTheme() *Theme {
	return &Theme{}
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("failed to read %s: %v", p, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// TestCollect - Catalog construction
// ---------------------------------------------------------------------------

func TestCollect_Builtins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		print     bool
		highlight []byte
		wantPrint bool
		wantCount int
	}{
		{"print enabled", true, nil, true, 12},
		{"print disabled", false, nil, false, 11},
		{"with highlight css", true, []byte(".chroma{}"), true, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := Collect(emptyTheme(), CollectOptions{PrintEnabled: tt.print, HighlightCSS: tt.highlight})
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if got := len(c.Assets()); got != tt.wantCount {
				t.Errorf("len(Assets()) = %d, want %d", got, tt.wantCount)
			}
			hasPrint := false
			for _, a := range c.Assets() {
				if a.Name() == PrintCSS {
					hasPrint = true
				}
				if _, ok := a.(*BuiltinAsset); !ok {
					t.Errorf("asset %q is %T, want *BuiltinAsset", a.Name(), a)
				}
			}
			if hasPrint != tt.wantPrint {
				t.Errorf("print.css present = %v, want %v", hasPrint, tt.wantPrint)
			}
			if c.Assets()[0].Name() != BookJS {
				t.Errorf("first asset = %q, want %q", c.Assets()[0].Name(), BookJS)
			}
		})
	}
}

func TestCollect_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    CollectOptions
		wantErr error
	}{
		{
			name:    "additional collides with builtin",
			opts:    CollectOptions{AdditionalJS: []string{"book.js"}},
			wantErr: ErrAssetNameCollision,
		},
		{
			name:    "same file declared twice",
			opts:    CollectOptions{AdditionalCSS: []string{"x.css"}, AdditionalJS: []string{"./x.css"}},
			wantErr: ErrAssetNameCollision,
		},
		{
			name:    "non UTF-8 name",
			opts:    CollectOptions{AdditionalCSS: []string{"bad\xff.css"}},
			wantErr: ErrPathEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Collect(emptyTheme(), tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Collect() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHash - Fingerprinting
// ---------------------------------------------------------------------------

func TestHash_Names(t *testing.T) {
	t.Parallel()

	c, err := Collect(&Theme{BookJS: []byte("body{}")}, CollectOptions{PrintEnabled: true})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if err := c.Hash(); err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	want := map[string]string{
		BookJS:      "book-7c98040a.js",
		GeneralCSS:  "css/general-e3b0c442.css",
		ClipboardJS: "clipboard-e3b0c442.min.js",
		FaviconPNG:  "favicon-e3b0c442.png",
	}
	for old, renamed := range want {
		if got := c.names[old]; got != renamed {
			t.Errorf("names[%q] = %q, want %q", old, got, renamed)
		}
	}
}

func TestHash_DeterministicAndContentAddressed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for name, content := range map[string]string{
		"a/style.css": "body{}",
		"b/style.css": "body{}",
		"c/style.css": "body{}!",
	} {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	opts := CollectOptions{Root: root, AdditionalCSS: []string{"a/style.css", "b/style.css", "c/style.css"}}
	hash := func() ResourceNames {
		c, err := Collect(emptyTheme(), opts)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if err := c.Hash(); err != nil {
			t.Fatalf("Hash() error = %v", err)
		}
		return c.names
	}

	first, second := hash(), hash()
	if first["a/style.css"] != second["a/style.css"] {
		t.Errorf("hash not deterministic: %q vs %q", first["a/style.css"], second["a/style.css"])
	}
	if first["a/style.css"] != "a/style-7c98040a.css" || first["b/style.css"] != "b/style-7c98040a.css" {
		t.Errorf("same content digests differ: %q, %q", first["a/style.css"], first["b/style.css"])
	}
	if first["c/style.css"] != "c/style-ffd68602.css" {
		t.Errorf("changed content name = %q, want c/style-ffd68602.css", first["c/style.css"])
	}
	if Digest([]byte("body{}")) != "7c98040a" {
		t.Errorf("Digest() = %q, want 7c98040a", Digest([]byte("body{}")))
	}
}

func TestHashable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"book.js", true},
		{"css/general.css", true},
		{"clipboard.min.js", true},
		{"LICENSE", false},
		{".hidden", false},
		{"trailing.", false},
		{"notes.txt", false},
		{"fonts/OPEN-SANS-LICENSE.txt", false},
		{"FontAwesome/fonts/fontawesome-webfont.woff", false},
		{"FontAwesome/css/font-awesome.css", true},
		{"v1.2/app.js", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := hashable(tt.name); got != tt.want {
				t.Errorf("hashable(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}

	if got := fingerprint("v1.2/app.js", "deadbeef"); got != "v1.2/app-deadbeef.js" {
		t.Errorf("fingerprint() = %q, want v1.2/app-deadbeef.js", got)
	}
}

func TestHash_MissingAdditionalFile(t *testing.T) {
	t.Parallel()

	c, err := Collect(emptyTheme(), CollectOptions{Root: t.TempDir(), AdditionalJS: []string{"gone.js"}})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if err := c.Hash(); !errors.Is(err, ErrAssetRead) {
		t.Errorf("Hash() error = %v, want ErrAssetRead", err)
	}
}

// ---------------------------------------------------------------------------
// TestWrite - Directive resolution and single write
// ---------------------------------------------------------------------------

func TestWrite_ResourceDirective(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ref := filepath.Join(root, "target", "reference.js")
	if err := os.MkdirAll(filepath.Dir(ref), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(ref, []byte(`{{ resource "book.js" }}`), 0644); err != nil {
		t.Fatalf("failed to write reference: %v", err)
	}

	c, err := Collect(emptyTheme(), CollectOptions{
		Root:         root,
		AdditionalJS: []string{"target/reference.js"},
		PrintEnabled: true,
		Logger:       quietLogger(),
	})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if err := c.Hash(); err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	dest := t.TempDir()
	names, err := c.Write(dest)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if got := names.Lookup("target/reference.js"); got != "target/reference-635c9cdc.js" {
		t.Errorf("Lookup(reference) = %q, want target/reference-635c9cdc.js", got)
	}
	if got := readFile(t, filepath.Join(dest, "target", "reference-635c9cdc.js")); got != "../book-e3b0c442.js" {
		t.Errorf("reference content = %q, want %q", got, "../book-e3b0c442.js")
	}
	if got := readFile(t, filepath.Join(dest, "book-e3b0c442.js")); got != "" {
		t.Errorf("book.js content = %q, want empty", got)
	}
}

func TestWrite_UnknownResourceWarns(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	theme := &Theme{ChromeCSS: []byte(`a{b:url("{{ resource "nope.svg" }}")} c{d:url("{{ resource "favicon.svg" }}")}`)}
	c, err := Collect(theme, CollectOptions{Logger: logger})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	dest := t.TempDir()
	if _, err := c.Write(dest); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got := readFile(t, filepath.Join(dest, "css", "chrome.css"))
	want := `a{b:url("../nope.svg")} c{d:url("../favicon.svg")}`
	if got != want {
		t.Errorf("chrome.css = %q, want %q", got, want)
	}
	if !strings.Contains(logs.String(), "nope.svg") {
		t.Errorf("logs = %q, want a warning naming nope.svg", logs.String())
	}
	if strings.Contains(logs.String(), `resource=favicon.svg`) {
		t.Errorf("logs = %q, known unhashed resource should not warn", logs.String())
	}
}

func TestWrite_BinaryCopiedVerbatim(t *testing.T) {
	t.Parallel()

	png := []byte{0x89, 'P', 'N', 'G', '{', '{', ' ', 'r'}
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "logo.png"), png, 0644); err != nil {
		t.Fatalf("failed to write png: %v", err)
	}

	c, err := Collect(&Theme{FaviconPNG: png}, CollectOptions{Root: root, AdditionalCSS: []string{"logo.png"}, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	dest := t.TempDir()
	if _, err := c.Write(dest); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	for _, name := range []string{"favicon.png", "logo.png"} {
		if got := readFile(t, filepath.Join(dest, name)); got != string(png) {
			t.Errorf("%s = %v, want %v", name, []byte(got), png)
		}
	}
}

func TestCatalog_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("hash twice", func(t *testing.T) {
		t.Parallel()

		c, err := Collect(emptyTheme(), CollectOptions{})
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if err := c.Hash(); err != nil {
			t.Fatalf("Hash() error = %v", err)
		}
		if err := c.Hash(); !errors.Is(err, ErrCatalogHashed) {
			t.Errorf("second Hash() error = %v, want ErrCatalogHashed", err)
		}
	})

	t.Run("write twice and hash after write", func(t *testing.T) {
		t.Parallel()

		c, err := Collect(emptyTheme(), CollectOptions{Logger: quietLogger()})
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if _, err := c.Write(t.TempDir()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if _, err := c.Write(t.TempDir()); !errors.Is(err, ErrCatalogConsumed) {
			t.Errorf("second Write() error = %v, want ErrCatalogConsumed", err)
		}
		if err := c.Hash(); !errors.Is(err, ErrCatalogConsumed) {
			t.Errorf("Hash() after Write error = %v, want ErrCatalogConsumed", err)
		}
	})
}

func TestResourceNames_Lookup(t *testing.T) {
	t.Parallel()

	names := ResourceNames{"book.js": "book-12345678.js"}
	if got := names.Lookup("book.js"); got != "book-12345678.js" {
		t.Errorf("Lookup(book.js) = %q", got)
	}
	if got := names.Lookup("LICENSE"); got != "LICENSE" {
		t.Errorf("Lookup(LICENSE) = %q, want passthrough", got)
	}
}
