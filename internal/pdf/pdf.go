// Package pdf exports the book's print page to PDF with headless Chrome.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Sentinel errors for PDF export.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrPDFWrite       = errors.New("failed to write PDF")
)

// Renderer turns a local HTML file into PDF bytes.
type Renderer interface {
	RenderFile(ctx context.Context, path string) ([]byte, error)
	Close() error
}

// Export renders htmlPath with r and writes the result to pdfPath.
func Export(ctx context.Context, r Renderer, htmlPath, pdfPath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	data, err := r.RenderFile(ctx, abs)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty output", ErrPDFGeneration)
	}

	if err := os.MkdirAll(filepath.Dir(pdfPath), 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFWrite, err)
	}
	if err := os.WriteFile(pdfPath, data, 0o644); err != nil { // #nosec G306 -- generated document is public output
		return fmt.Errorf("%w: %v", ErrPDFWrite, err)
	}
	return nil
}
