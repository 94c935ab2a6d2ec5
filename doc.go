// Package md2book builds a static HTML book from a directory of Markdown
// chapters listed in a SUMMARY.md file.
//
// # Quick Start
//
// Create a skeleton book once, then build it:
//
//	if _, err := md2book.Init("mybook", "My Book"); err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := md2book.NewBuilder().Build(ctx, "mybook")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("written to", res.DestDir)
//
// # Book Layout
//
//	mybook/
//	├── book.yaml
//	├── theme/            optional overrides of built-in theme files
//	└── src/
//	    ├── SUMMARY.md
//	    ├── chapter_1.md
//	    └── images/
//
// SUMMARY.md is a Markdown list of links, optionally headed by the book
// title. Unnumbered links before the first list become prefix chapters and
// links after it become suffix chapters. A "---" line draws a separator and
// a link with an empty target is a draft chapter.
//
// # Build Pipeline
//
// Build runs these stages:
//
//  1. Configuration loading (book.yaml, defaults, validation)
//  2. SUMMARY.md parsing and chapter loading (missing files are created
//     unless build.createMissing is false)
//  3. Static assets: theme files and additional CSS/JS, renamed with a
//     content digest when output.html.hashFiles is on
//  4. One HTML page per chapter via Goldmark, with .md links rewritten
//     to .html
//  5. The print page holding every chapter, with links turned into
//     in-page anchors
//  6. Optional PDF export of the print page via headless Chrome (go-rod)
//
// # Configuration
//
// book.yaml mirrors Config. Use functional options to override it:
//
//	b := md2book.NewBuilder(
//	    md2book.WithConfigFile("ci/book.yaml"),
//	    md2book.WithDestDir("/tmp/site"),
//	    md2book.WithHashFiles(false),
//	    md2book.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
//	)
//
// # Multiple Languages
//
// When book.languages lists more than one language, each language has its
// own src/<lang>/SUMMARY.md and is written to <buildDir>/<lang>/. The build
// directory root redirects to the first language, and each page links to
// the same chapter in the other languages.
//
// # PDF Export
//
// Set output.pdf.enable (or use WithPDF) to print the print page to PDF.
// This needs Chrome or Chromium. Set ROD_BROWSER_BIN to pick the binary and
// ROD_NO_SANDBOX=1 inside containers. Use WithPDFRenderer to supply another
// PDFRenderer.
//
// # Error Handling
//
// Errors match the sentinels of this package with errors.Is:
//
//	_, err := b.Build(ctx, root)
//	if errors.Is(err, md2book.ErrChapterNotFound) {
//	    // a chapter listed in SUMMARY.md is missing
//	}
package md2book
