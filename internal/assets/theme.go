package assets

import "fmt"

// Theme file names, relative to the theme directory.
const (
	IndexTemplate    = "index.html"
	RedirectTemplate = "redirect.html"
	BookJS           = "book.js"
	GeneralCSS       = "css/general.css"
	ChromeCSS        = "css/chrome.css"
	PrintCSS         = "css/print.css"
	VariablesCSS     = "css/variables.css"
	FaviconSVG       = "favicon.svg"
	FaviconPNG       = "favicon.png"
	HighlightCSS     = "highlight.css"
	TomorrowNightCSS = "tomorrow-night.css"
	AyuHighlightCSS  = "ayu-highlight.css"
	HighlightJS      = "highlight.js"
	ClipboardJS      = "clipboard.min.js"

	// ChromaCSS is generated from the configured highlight style, not loaded.
	ChromaCSS = "css/chroma.css"
)

// Theme holds every theme file's bytes. The asset pipeline only reads it.
type Theme struct {
	Index            []byte
	Redirect         []byte
	BookJS           []byte
	GeneralCSS       []byte
	ChromeCSS        []byte
	PrintCSS         []byte
	VariablesCSS     []byte
	FaviconSVG       []byte
	FaviconPNG       []byte
	HighlightCSS     []byte
	TomorrowNightCSS []byte
	AyuHighlightCSS  []byte
	HighlightJS      []byte
	ClipboardJS      []byte
}

// LoadTheme loads every theme file. Files present in customDir override the
// built-in ones; an empty customDir means the built-in theme only.
func LoadTheme(customDir string) (*Theme, error) {
	resolver, err := NewThemeResolver(customDir)
	if err != nil {
		return nil, err
	}
	return LoadThemeFrom(resolver)
}

// LoadThemeFrom loads every theme file through loader.
func LoadThemeFrom(loader ThemeLoader) (*Theme, error) {
	t := &Theme{}
	files := []struct {
		name string
		dst  *[]byte
	}{
		{IndexTemplate, &t.Index},
		{RedirectTemplate, &t.Redirect},
		{BookJS, &t.BookJS},
		{GeneralCSS, &t.GeneralCSS},
		{ChromeCSS, &t.ChromeCSS},
		{PrintCSS, &t.PrintCSS},
		{VariablesCSS, &t.VariablesCSS},
		{FaviconSVG, &t.FaviconSVG},
		{FaviconPNG, &t.FaviconPNG},
		{HighlightCSS, &t.HighlightCSS},
		{TomorrowNightCSS, &t.TomorrowNightCSS},
		{AyuHighlightCSS, &t.AyuHighlightCSS},
		{HighlightJS, &t.HighlightJS},
		{ClipboardJS, &t.ClipboardJS},
	}
	for _, f := range files {
		content, err := loader.LoadFile(f.name)
		if err != nil {
			return nil, fmt.Errorf("loading theme: %w", err)
		}
		*f.dst = content
	}
	return t, nil
}
