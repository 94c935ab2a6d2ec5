package md2book

import (
	"errors"

	"github.com/alnah/go-md2book/internal/assets"
	"github.com/alnah/go-md2book/internal/book"
	"github.com/alnah/go-md2book/internal/config"
	"github.com/alnah/go-md2book/internal/pdf"
	"github.com/alnah/go-md2book/internal/render"
	"github.com/alnah/go-md2book/internal/site"
	"github.com/alnah/go-md2book/internal/summary"
)

// Sentinel errors for library operations.
var (
	// Configuration errors.
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrInvalidDestDir = errors.New("invalid build directory")

	// Source errors.
	ErrSummaryRead     = errors.New("failed to read SUMMARY.md")
	ErrSummaryParse    = errors.New("invalid SUMMARY.md")
	ErrChapterNotFound = errors.New("chapter not found")

	// Output errors.
	ErrIO                 = errors.New("I/O failure")
	ErrPathEncoding       = errors.New("path is not valid UTF-8")
	ErrAssetNameCollision = errors.New("asset name collision")
	ErrTheme              = errors.New("invalid theme")
	ErrTemplate           = errors.New("page template failed")
	ErrRender             = errors.New("markdown rendering failed")

	// PDF export errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)

// convertError maps internal errors to public errors.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isError(err, config.ErrConfigNotFound):
		return wrapError(ErrConfigNotFound, err)
	case isError(err, config.ErrConfigParse),
		isError(err, config.ErrFieldTooLong),
		isError(err, config.ErrInvalidValue),
		isError(err, render.ErrUnknownRewriter),
		isError(err, render.ErrUnknownStyle):
		return wrapError(ErrConfigInvalid, err)

	case isError(err, summary.ErrSummaryRead):
		return wrapError(ErrSummaryRead, err)
	case isError(err, summary.ErrSummaryParse):
		return wrapError(ErrSummaryParse, err)
	case isError(err, book.ErrChapterNotFound):
		return wrapError(ErrChapterNotFound, err)

	case isError(err, assets.ErrAssetNameCollision):
		return wrapError(ErrAssetNameCollision, err)
	case isError(err, assets.ErrPathEncoding), isError(err, site.ErrPathEncoding):
		return wrapError(ErrPathEncoding, err)
	case isError(err, assets.ErrThemeFileNotFound),
		isError(err, assets.ErrInvalidBasePath),
		isError(err, assets.ErrInvalidAssetName),
		isError(err, assets.ErrPathTraversal):
		return wrapError(ErrTheme, err)
	case isError(err, site.ErrTemplate):
		return wrapError(ErrTemplate, err)
	case isError(err, render.ErrRender):
		return wrapError(ErrRender, err)
	case isError(err, book.ErrIO),
		isError(err, assets.ErrAssetRead),
		isError(err, assets.ErrAssetWrite),
		isError(err, site.ErrWrite):
		return wrapError(ErrIO, err)

	case isError(err, pdf.ErrBrowserConnect):
		return wrapError(ErrBrowserConnect, err)
	case isError(err, pdf.ErrPageCreate),
		isError(err, pdf.ErrPageLoad),
		isError(err, pdf.ErrPDFGeneration),
		isError(err, pdf.ErrPDFWrite):
		return wrapError(ErrPDFGeneration, err)
	default:
		return err
	}
}

// isError checks if err wraps or equals target using errors.Is semantics.
func isError(err, target error) bool {
	return errors.Is(err, target)
}

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and supports
// errors.Is() matching against the public sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &wrappedError{sentinel: sentinel, original: original}
}

type wrappedError struct {
	sentinel error
	original error
}

func (e *wrappedError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
// Internal errors are not exposed since they're in internal/ packages.
func (e *wrappedError) Unwrap() error {
	return e.sentinel
}
