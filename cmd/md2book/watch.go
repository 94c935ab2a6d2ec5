package main

import (
	"context"
	"fmt"
	"path/filepath"

	md2book "github.com/alnah/go-md2book"
	"github.com/alnah/go-md2book/internal/config"
	"github.com/alnah/go-md2book/internal/watch"
)

// runWatch builds the book, then rebuilds it after every batch of changes
// until interrupted. Build failures are reported and watching continues.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseWatchFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	warnUnknownEnvVars(env.Stderr)
	applyEnvConfig(loadEnvConfig(), f)

	root, err := bookDir(positional)
	if err != nil {
		return err
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("%w: %v", md2book.ErrIO, err)
	}

	logger := newLogger(env.Stderr, f.common)
	builder := md2book.NewBuilder(builderOptions(f, logger, env)...)
	cfg, err := builder.LoadConfig(root)
	if err != nil {
		return err
	}
	dest, err := filepath.Abs(builder.DestDir(root, cfg))
	if err != nil {
		return fmt.Errorf("%w: %v", md2book.ErrInvalidDestDir, err)
	}

	rebuild := func(ctx context.Context) {
		start := env.Now()
		res, err := builder.Build(ctx, root)
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, f.common.config))
			}
			return
		}
		printResult(res, env.Now().Sub(start), f.common, env)
	}

	rebuild(ctx)
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s for changes (Ctrl+C to stop)\n", root)
	}

	return watch.Watch(ctx, watch.Options{
		Paths:    watchPaths(root, cfg, f.common.config),
		Debounce: f.debounce,
		Ignore:   watch.UnderDir(dest),
		Logger:   logger,
	}, func(ctx context.Context, changed []string) {
		logger.Info("files changed, rebuilding", "count", len(changed), "first", changed[0])
		rebuild(ctx)
	})
}

// watchPaths lists what a rebuild depends on: the sources, the theme
// overrides, the additional assets and the configuration file.
func watchPaths(root string, cfg *md2book.Config, configPath string) []string {
	paths := []string{cfg.SrcDir(root)}
	if theme := cfg.ThemeDir(root); theme != "" {
		paths = append(paths, theme)
	}
	for _, p := range cfg.Output.HTML.AdditionalCSS {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(p)))
	}
	for _, p := range cfg.Output.HTML.AdditionalJS {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(p)))
	}
	if configPath != "" {
		paths = append(paths, configPath)
	} else {
		paths = append(paths, filepath.Join(root, config.FileName), filepath.Join(root, config.AltFileName))
	}
	return paths
}
