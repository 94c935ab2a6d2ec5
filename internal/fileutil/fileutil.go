// Package fileutil provides file and path utility functions for the output tree.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrPathEmpty     = errors.New("path cannot be empty")
	ErrPathTraversal = errors.New("path escapes the output directory")
)

// Permissions used for generated output.
const (
	DirPerm  = 0o750
	FilePerm = 0o644
)

// ValidateRelPath checks that rel is a non-empty relative path that stays
// inside the directory it is joined to.
func ValidateRelPath(rel string) error {
	if rel == "" {
		return ErrPathEmpty
	}
	if strings.ContainsRune(rel, 0) {
		return fmt.Errorf("%w: %q contains a null byte", ErrPathTraversal, rel)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %q", ErrPathTraversal, rel)
	}
	return nil
}

// WriteFile writes data to root/rel, creating parent directories as needed.
func WriteFile(root, rel string, data []byte) error {
	target, err := prepare(root, rel)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, data, FilePerm); err != nil { // #nosec G306 -- generated site files are world-readable
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

// CopyFile streams src into root/rel, creating parent directories as needed.
func CopyFile(root, rel, src string) error {
	target, err := prepare(root, rel)
	if err != nil {
		return err
	}

	in, err := os.Open(src) // #nosec G304 -- src is a configured asset path
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerm) // #nosec G302 G304
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", target, err)
	}
	return nil
}

func prepare(root, rel string) (string, error) {
	if err := ValidateRelPath(rel); err != nil {
		return "", err
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), DirPerm); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", target, err)
	}
	return target, nil
}

// PathToRoot returns the relative prefix that leads from the directory of the
// slash-separated path rel back to the output root.
//
// Examples:
//   - "index.html" -> ""
//   - "guide/intro.html" -> "../"
//   - "a/b/c.html" -> "../../"
func PathToRoot(rel string) string {
	dir := path.Dir(path.Clean(filepath.ToSlash(rel)))
	if dir == "." || dir == "/" {
		return ""
	}
	depth := strings.Count(strings.Trim(dir, "/"), "/") + 1
	return strings.Repeat("../", depth)
}

// CleanDir removes everything inside dir, creating dir if it is missing.
func CleanDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(dir, DirPerm)
		}
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("removing %s: %w", e.Name(), err)
		}
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
