package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without editing book.yaml.
type envConfig struct {
	ConfigPath string // MD2BOOK_CONFIG: config file path
	DestDir    string // MD2BOOK_DEST_DIR: build directory
	PDF        *bool  // MD2BOOK_PDF: force PDF export on or off
}

// knownEnvVars lists valid MD2BOOK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2BOOK_CONFIG":    true,
	"MD2BOOK_DEST_DIR":  true,
	"MD2BOOK_PDF":       true,
	"MD2BOOK_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2BOOK_CONFIG"),
		DestDir:    os.Getenv("MD2BOOK_DEST_DIR"),
	}
	if v := os.Getenv("MD2BOOK_PDF"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PDF = &b
		}
	}
	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized MD2BOOK_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "MD2BOOK_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills flags the user did not set from the environment.
// Priority: CLI flags > env vars > book.yaml > defaults.
func applyEnvConfig(env *envConfig, f *buildFlags) {
	if env.ConfigPath != "" && f.common.config == "" {
		f.common.config = env.ConfigPath
	}
	if env.DestDir != "" && f.destDir == "" {
		f.destDir = env.DestDir
	}
	if env.PDF != nil && !f.pdfSet {
		f.pdf = *env.PDF
		f.pdfSet = true
	}
}
