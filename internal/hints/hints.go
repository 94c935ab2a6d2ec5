// Package hints provides actionable error hints for common build failures.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2book/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors during PDF export.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about raising the PDF export timeout.
func ForTimeout() string {
	return format("for large books, raise output.pdf.timeout in book.yaml")
}

// ForConfigNotFound returns hints for an explicitly named config file that does not exist.
func ForConfigNotFound(path string) string {
	hint := "run 'md2book init' to create book.yaml"
	if path != "" {
		hint = "check the --config path " + path + " or " + hint
	}
	return format(hint)
}

// ForSummaryParse returns hints for SUMMARY.md syntax errors.
func ForSummaryParse() string {
	return format("each list item needs exactly one link, e.g. '- [Intro](intro.md)'; use '- [Draft]()' for a draft")
}

// ForChapterNotFound returns hints for chapter files listed in SUMMARY.md but missing on disk.
func ForChapterNotFound() string {
	return format("fix the path in SUMMARY.md or set build.createMissing: true")
}

// ForAssetCollision returns hints for two assets ending up with the same name.
func ForAssetCollision() string {
	return format("rename one of the files in output.html.additionalCSS/additionalJS")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for unknown highlight styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
