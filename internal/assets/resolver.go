package assets

import (
	"errors"
)

// ThemeResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, each file is looked up there first and
// falls back to the embedded theme only when it is missing.
type ThemeResolver struct {
	custom   ThemeLoader // nil if no custom theme directory configured
	embedded ThemeLoader
}

// NewThemeResolver creates a ThemeResolver.
// If customBasePath is empty, only embedded files are used.
// Returns error if customBasePath is set but invalid.
func NewThemeResolver(customBasePath string) (*ThemeResolver, error) {
	resolver := &ThemeResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadFile loads a theme file, trying the custom loader first if available.
func (r *ThemeResolver) LoadFile(name string) ([]byte, error) {
	if r.custom == nil {
		return r.embedded.LoadFile(name)
	}

	content, err := r.custom.LoadFile(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrThemeFileNotFound) {
		return nil, err
	}

	return r.embedded.LoadFile(name)
}

// HasCustomLoader returns true if a custom theme directory is configured.
func (r *ThemeResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ ThemeLoader = (*ThemeResolver)(nil)
