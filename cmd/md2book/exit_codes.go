package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"

	md2book "github.com/alnah/go-md2book"
	"github.com/alnah/go-md2book/internal/hints"
)

// Exit codes for the md2book CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or SUMMARY.md
	ExitIO      = 3 // Missing sources, permission denied, write failures
	ExitBrowser = 4 // Browser/Chrome errors during PDF export
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2book.ErrBrowserConnect) ||
		errors.Is(err, md2book.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2book.ErrIO) ||
		errors.Is(err, md2book.ErrSummaryRead) ||
		errors.Is(err, md2book.ErrChapterNotFound) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, md2book.ErrConfigNotFound) ||
		errors.Is(err, md2book.ErrConfigInvalid) ||
		errors.Is(err, md2book.ErrInvalidDestDir) ||
		errors.Is(err, md2book.ErrSummaryParse) ||
		errors.Is(err, md2book.ErrTheme) ||
		errors.Is(err, md2book.ErrAssetNameCollision) ||
		errors.Is(err, md2book.ErrPathEncoding) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint to append to err's message, or "".
func hintFor(err error, configPath string) string {
	switch {
	case errors.Is(err, md2book.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, md2book.ErrPDFGeneration):
		return hints.ForTimeout()
	case errors.Is(err, md2book.ErrConfigNotFound):
		return hints.ForConfigNotFound(configPath)
	case errors.Is(err, md2book.ErrConfigInvalid) && strings.Contains(err.Error(), "highlight.style"):
		return hints.ForStyleNotFound(styles.Names())
	case errors.Is(err, md2book.ErrSummaryParse):
		return hints.ForSummaryParse()
	case errors.Is(err, md2book.ErrChapterNotFound):
		return hints.ForChapterNotFound()
	case errors.Is(err, md2book.ErrAssetNameCollision):
		return hints.ForAssetCollision()
	case errors.Is(err, md2book.ErrIO):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}
