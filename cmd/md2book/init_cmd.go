package main

import (
	"fmt"
	"path/filepath"

	md2book "github.com/alnah/go-md2book"
)

// runInit creates a skeleton book.
func runInit(args []string, env *Environment) error {
	f, positional, err := parseInitFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	root, err := bookDir(positional)
	if err != nil {
		return err
	}

	title := f.title
	if title == "" {
		if abs, err := filepath.Abs(root); err == nil {
			title = filepath.Base(abs)
		}
	}

	created, err := md2book.Init(root, title)
	if err != nil {
		return err
	}
	if len(created) == 0 {
		fmt.Fprintf(env.Stdout, "Nothing to do: %s is already a book\n", root)
		return nil
	}
	for _, name := range created {
		fmt.Fprintf(env.Stdout, "Created %s\n", filepath.Join(root, filepath.FromSlash(name)))
	}
	fmt.Fprintf(env.Stdout, "\nRun 'md2book build %s' to build it.\n", root)
	return nil
}
