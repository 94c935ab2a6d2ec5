// Package assets provides the book theme and the static asset pipeline.
//
// # Loader Architecture
//
// Theme files are loaded through a layered system:
//
//	ThemeLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in theme)
//	    ├── FilesystemLoader  - loads from a custom theme directory on disk
//	    └── ThemeResolver     - combines both with custom-first fallback
//
// A custom theme directory only needs the files it overrides, laid out like
// the built-in theme:
//
//	{theme}/
//	├── index.html           # page template (html/template)
//	├── redirect.html        # multi-language root redirect
//	├── book.js
//	├── css/{general,chrome,print,variables}.css
//	└── ...
//
// # Pipeline
//
// Collect builds a Catalog of built-in and additional assets, Hash
// fingerprints their names by content, and Write emits each file once,
// resolving {{ resource "name" }} directives in CSS and JS files.
//
// # Security
//
// Theme file names are validated; FilesystemLoader resolves symlinks and
// verifies paths stay within the theme directory.
package assets
