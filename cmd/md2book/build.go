package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	md2book "github.com/alnah/go-md2book"
)

// runBuild builds the book once.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	warnUnknownEnvVars(env.Stderr)
	applyEnvConfig(loadEnvConfig(), f)

	root, err := bookDir(positional)
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, f.common)
	builder := md2book.NewBuilder(builderOptions(f, logger, env)...)

	start := env.Now()
	res, err := builder.Build(ctx, root)
	if err != nil {
		return err
	}
	printResult(res, env.Now().Sub(start), f.common, env)
	return nil
}

// builderOptions turns flags into Builder options. Unset flags leave
// book.yaml in charge.
func builderOptions(f *buildFlags, logger *slog.Logger, env *Environment) []md2book.Option {
	opts := []md2book.Option{md2book.WithLogger(logger)}
	if f.common.config != "" {
		opts = append(opts, md2book.WithConfigFile(f.common.config))
	}
	if f.destDir != "" {
		opts = append(opts, md2book.WithDestDir(f.destDir))
	}
	if f.pdfSet {
		opts = append(opts, md2book.WithPDF(f.pdf))
	}
	if f.curlySet {
		opts = append(opts, md2book.WithCurlyQuotes(f.curlyQuotes))
	}
	if f.noHash {
		opts = append(opts, md2book.WithHashFiles(false))
	}
	if env.PDFRenderer != nil {
		opts = append(opts, md2book.WithPDFRenderer(env.PDFRenderer))
	}
	return opts
}

// printResult writes the build summary to stdout unless quiet.
func printResult(res *md2book.Result, elapsed time.Duration, f commonFlags, env *Environment) {
	if f.quiet {
		return
	}
	fmt.Fprintf(env.Stdout, "Built %d pages in %s", len(res.Pages), res.DestDir)
	if f.verbose {
		fmt.Fprintf(env.Stdout, " (%v)", elapsed.Round(time.Millisecond))
	}
	fmt.Fprintln(env.Stdout)
	for _, p := range res.PDFs {
		fmt.Fprintf(env.Stdout, "PDF: %s\n", filepath.Join(res.DestDir, filepath.FromSlash(p)))
	}
}
