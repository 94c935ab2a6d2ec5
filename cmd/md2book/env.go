package main

import (
	"io"
	"os"
	"time"

	md2book "github.com/alnah/go-md2book"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	// PDFRenderer replaces the headless Chrome renderer when non-nil.
	PDFRenderer md2book.PDFRenderer
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
