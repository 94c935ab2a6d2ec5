package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2book <command> [flags] [dir]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Build the book into its build directory")
	fmt.Fprintln(w, "  watch       Rebuild the book whenever its files change")
	fmt.Fprintln(w, "  init        Create a new book")
	fmt.Fprintln(w, "  doctor      Check the system for PDF export")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2book help <command>' for details on a specific command.")
}

// printOutputFlags prints the flags shared by build and watch.
func printOutputFlags(w io.Writer) {
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  dir    Book root holding book.yaml (default: current directory)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -d, --dest-dir <path>     Output directory (overrides build.buildDir)")
	fmt.Fprintln(w, "      --pdf                 Export print.html to PDF (needs Chrome)")
	fmt.Fprintln(w, "      --curly-quotes        Convert straight quotes to curly quotes")
	fmt.Fprintln(w, "      --no-hash             Keep static file names without digests")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <path>       Config file (default: <dir>/book.yaml)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2BOOK_CONFIG, MD2BOOK_DEST_DIR, MD2BOOK_PDF (flags take precedence)")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2book build [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the book: one HTML page per chapter, print.html, static assets")
	fmt.Fprintln(w, "and, when enabled, a PDF of print.html. The build directory is emptied first.")
	fmt.Fprintln(w)
	printOutputFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2book watch [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the book, then rebuild it whenever the sources, theme,")
	fmt.Fprintln(w, "additional assets or book.yaml change. Stop with Ctrl+C.")
	fmt.Fprintln(w)
	printOutputFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --debounce <d>        Quiet period before rebuilding (default: 300ms)")
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2book init [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Create book.yaml, src/SUMMARY.md, src/chapter_1.md and .gitignore.")
	fmt.Fprintln(w, "Existing files are left untouched.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -t, --title <s>           Book title (default: directory name)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "init":
		printInitUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: md2book doctor [dir] [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, the environment and the book at dir.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2book version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2book help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
