package main

import (
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2book/internal/watch"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// buildFlags holds flags for the build and watch commands.
type buildFlags struct {
	common      commonFlags
	destDir     string
	pdf         bool
	pdfSet      bool
	curlyQuotes bool
	curlySet    bool
	noHash      bool
	// debounce is only registered by watch.
	debounce time.Duration
}

// initFlags holds flags for the init command.
type initFlags struct {
	title string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file path (default: <dir>/book.yaml)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addOutputFlags adds the flags that override book.yaml output settings.
func addOutputFlags(fs *flag.FlagSet, f *buildFlags) {
	fs.StringVarP(&f.destDir, "dest-dir", "d", "", "output directory (overrides build.buildDir)")
	fs.BoolVar(&f.pdf, "pdf", false, "export print.html to PDF (overrides output.pdf.enable)")
	fs.BoolVar(&f.curlyQuotes, "curly-quotes", false, "convert straight quotes to curly quotes")
	fs.BoolVar(&f.noHash, "no-hash", false, "keep static file names without content digests")
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	return parseBookFlags("build", args, stderr, printBuildUsage)
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	return parseBookFlags("watch", args, stderr, printWatchUsage)
}

// newBookFlagSet registers the build or watch flags into f.
// Completion reuses it so flag definitions live in one place.
func newBookFlagSet(name string, f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, f)
	if name == "watch" {
		fs.DurationVar(&f.debounce, "debounce", watch.DefaultDebounce, "quiet period before rebuilding")
	}
	return fs
}

// newInitFlagSet registers the init flags into f.
func newInitFlagSet(f *initFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.StringVarP(&f.title, "title", "t", "", "book title written to book.yaml")
	return fs
}

func parseBookFlags(name string, args []string, stderr io.Writer, usage func(io.Writer)) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newBookFlagSet(name, f)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	f.pdfSet = fs.Changed("pdf")
	f.curlySet = fs.Changed("curly-quotes")

	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	return f, fs.Args(), nil
}

// parseInitFlags parses init command flags and returns positional args.
func parseInitFlags(args []string, stderr io.Writer) (*initFlags, []string, error) {
	f := &initFlags{}
	fs := newInitFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printInitUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	return f, fs.Args(), nil
}

// usageError tags flag parsing failures so they map to ExitUsage.
// flag.ErrHelp is kept as is: asking for help is not a failure.
func usageError(err error) error {
	if err == flag.ErrHelp {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// bookDir returns the book root named by the positional arguments.
func bookDir(args []string) (string, error) {
	switch len(args) {
	case 0:
		return ".", nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected at most one book directory, got %d", ErrUsage, len(args))
	}
}
