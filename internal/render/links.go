package render

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// RFC 3986 scheme followed by a colon.
	schemeLink = regexp.MustCompile(`^[a-z][a-z0-9+.-]*:`)

	// A markdown document reference with an optional fragment.
	mdLink = regexp.MustCompile(`^(.*)\.md(#.*)?$`)
)

// SymlinkContext lets links to documents reachable through several tree
// positions (symlinks) resolve from the position being rendered.
type SymlinkContext struct {
	// ToRenderPaths maps the canonical absolute path of every rendered source
	// file to the absolute path of its output HTML file.
	ToRenderPaths map[string]string
	// SrcDir is the book's source directory.
	SrcDir string
	// CurrentPath is the rendered chapter's location as written in the summary.
	CurrentPath string
}

// LinkContext describes the page whose links are being fixed.
type LinkContext struct {
	// PrintPath is the chapter's source path when the chapter is rendered into
	// the single print page. Empty for regular pages.
	PrintPath string
	// Symlinks enables symlink-aware resolution of .md links. Nil disables it.
	Symlinks *SymlinkContext
	// HeadingIDs is shared across calls that render into the same page.
	// Nil allocates a fresh set per call.
	HeadingIDs *HeadingIDs
}

// LinkFixer rewrites link destinations so they resolve from the output page.
type LinkFixer struct {
	ctx    LinkContext
	logger *slog.Logger
}

// NewLinkFixer creates a LinkFixer. A nil logger means slog.Default().
func NewLinkFixer(lc LinkContext, logger *slog.Logger) *LinkFixer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkFixer{ctx: lc, logger: logger}
}

// Fix returns the rewritten destination.
//
// Rules, in order:
//   - "#frag" on the print page points back at the chapter page, otherwise
//     it is kept
//   - destinations with a URI scheme are kept
//   - relative destinations on the print page get the chapter's directory
//     prepended
//   - "x.md[#a]" resolves through the symlink map when possible and falls
//     back to "x.html[#a]"
func (f *LinkFixer) Fix(dest string) string {
	if strings.HasPrefix(dest, "#") {
		if f.ctx.PrintPath == "" {
			return dest
		}
		base := filepath.ToSlash(f.ctx.PrintPath)
		if strings.HasSuffix(base, ".md") {
			base = strings.TrimSuffix(base, ".md") + ".html"
		}
		return base + dest
	}

	if schemeLink.MatchString(dest) {
		return dest
	}

	var fixed strings.Builder
	if f.ctx.PrintPath != "" {
		if dir := path.Dir(filepath.ToSlash(f.ctx.PrintPath)); dir != "." && dir != "/" {
			fixed.WriteString(dir)
			fixed.WriteByte('/')
		}
	}

	m := mdLink.FindStringSubmatch(dest)
	if m == nil {
		fixed.WriteString(dest)
		return fixed.String()
	}

	link, anchor := m[1], m[2]
	if resolved, ok := f.resolve(link + ".md"); ok {
		fixed.WriteString(resolved)
	} else {
		fixed.WriteString(link)
		fixed.WriteString(".html")
	}
	fixed.WriteString(anchor)
	return fixed.String()
}

// resolve maps target, relative to the current chapter, onto its output file
// relative to the current chapter's output directory.
func (f *LinkFixer) resolve(target string) (string, bool) {
	sc := f.ctx.Symlinks
	if sc == nil {
		return "", false
	}

	currentAbs := readmeAlias(absolute(sc.SrcDir, filepath.FromSlash(sc.CurrentPath)))
	targetPath := filepath.FromSlash(target)
	if !filepath.IsAbs(targetPath) {
		targetPath = filepath.Join(filepath.Dir(currentAbs), targetPath)
	}
	targetAbs := readmeAlias(targetPath)

	targetCanon, err := canonical(targetAbs)
	if err != nil {
		f.logger.Warn("unresolved link to markdown file",
			"target", target, "chapter", sc.CurrentPath, "error", err)
		return "", false
	}
	targetHTML, ok := sc.ToRenderPaths[targetCanon]
	if !ok {
		f.logger.Warn("link to markdown file that is not rendered",
			"target", target, "chapter", sc.CurrentPath)
		return "", false
	}

	currentCanon, err := canonical(currentAbs)
	if err != nil {
		return "", false
	}
	currentHTML, ok := sc.ToRenderPaths[currentCanon]
	if !ok {
		return "", false
	}

	rel, err := filepath.Rel(filepath.Dir(currentHTML), targetHTML)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func absolute(srcDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(srcDir, p)
}

// canonical resolves symlinks and returns an absolute, clean path.
func canonical(p string) (string, error) {
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

// readmeAlias maps ".../index.md" onto the directory's README file, matched
// case-insensitively, since README chapters are published as index.html.
func readmeAlias(p string) string {
	if filepath.Base(p) != "index.md" {
		return p
	}
	dir := filepath.Dir(p)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return p
	}
	for _, e := range entries {
		name := e.Name()
		if strings.EqualFold(strings.TrimSuffix(name, filepath.Ext(name)), "readme") {
			return filepath.Join(dir, name)
		}
	}
	return p
}

// CanonicalPath is the key format of SymlinkContext.ToRenderPaths.
func CanonicalPath(p string) (string, error) {
	return canonical(p)
}
