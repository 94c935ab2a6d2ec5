package md2book

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2book/internal/config"
	"github.com/alnah/go-md2book/internal/fileutil"
	"github.com/alnah/go-md2book/internal/summary"
)

const (
	initSummary = "# Summary\n\n- [Chapter 1](./chapter_1.md)\n"
	initChapter = "# Chapter 1\n"
)

// Init creates a skeleton book at root: book.yaml, src/SUMMARY.md and
// src/chapter_1.md, plus a .gitignore for the build directory. Existing
// files are left untouched. It returns the files it created, relative to root.
func Init(root, title string) ([]string, error) {
	if err := os.MkdirAll(root, fileutil.DirPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var created []string
	cfgPath := filepath.Join(root, config.FileName)
	cfg := config.DefaultConfig()
	if fileutil.FileExists(cfgPath) || fileutil.FileExists(filepath.Join(root, config.AltFileName)) {
		existing, err := config.Load(root)
		if err != nil {
			return nil, convertError(err)
		}
		cfg = existing
	} else {
		cfg.Book.Title = title
		if err := config.Save(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		created = append(created, config.FileName)
	}

	files := []struct {
		rel     string
		content string
	}{
		{filepath.Join(cfg.Book.Src, summary.FileName), initSummary},
		{filepath.Join(cfg.Book.Src, "chapter_1.md"), initChapter},
		{".gitignore", cfg.Build.BuildDir + "\n"},
	}
	for _, f := range files {
		if fileutil.FileExists(filepath.Join(root, f.rel)) {
			continue
		}
		if err := fileutil.WriteFile(root, filepath.ToSlash(f.rel), []byte(f.content)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		created = append(created, filepath.ToSlash(f.rel))
	}
	return created, nil
}
