package assets

import (
	"embed"
	"fmt"
)

//go:embed theme
var themeFiles embed.FS

// EmbeddedLoader loads the built-in theme compiled into the binary.
// Implements ThemeLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadFile loads a built-in theme file.
func (e *EmbeddedLoader) LoadFile(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	content, err := themeFiles.ReadFile("theme/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrThemeFileNotFound, name)
	}

	return content, nil
}

// Compile-time interface check.
var _ ThemeLoader = (*EmbeddedLoader)(nil)
