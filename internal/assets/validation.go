package assets

import (
	"fmt"
	"path"
	"strings"
)

// ValidateAssetName checks that a theme file name is a clean, relative,
// slash-separated path. Returns ErrInvalidAssetName for empty or absolute
// names, backslashes, null bytes, or ".." segments.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "\\\x00") || strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	if path.Clean(name) != name {
		return fmt.Errorf("%w: %q is not clean", ErrInvalidAssetName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
