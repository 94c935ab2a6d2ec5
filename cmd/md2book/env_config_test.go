package main

// Notes:
// - Tests use t.Setenv() which prevents t.Parallel().

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("MD2BOOK_CONFIG", "/etc/book.yaml")
		t.Setenv("MD2BOOK_DEST_DIR", "/srv/site")
		t.Setenv("MD2BOOK_PDF", "true")

		cfg := loadEnvConfig()
		if cfg.ConfigPath != "/etc/book.yaml" {
			t.Errorf("ConfigPath = %q, want /etc/book.yaml", cfg.ConfigPath)
		}
		if cfg.DestDir != "/srv/site" {
			t.Errorf("DestDir = %q, want /srv/site", cfg.DestDir)
		}
		if cfg.PDF == nil || !*cfg.PDF {
			t.Errorf("PDF = %v, want true", cfg.PDF)
		}
	})

	t.Run("invalid bool ignored", func(t *testing.T) {
		t.Setenv("MD2BOOK_PDF", "sometimes")

		if cfg := loadEnvConfig(); cfg.PDF != nil {
			t.Errorf("PDF = %v, want nil", *cfg.PDF)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MD2BOOK_DESTDIR", "/typo")
	t.Setenv("MD2BOOK_PDF", "1")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	if !strings.Contains(buf.String(), "MD2BOOK_DESTDIR") {
		t.Errorf("output = %q, want a warning for MD2BOOK_DESTDIR", buf.String())
	}
	if strings.Contains(buf.String(), "MD2BOOK_PDF ") {
		t.Errorf("output = %q, known variable reported", buf.String())
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Flags take precedence
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	on := true

	t.Run("fills unset flags", func(t *testing.T) {
		t.Parallel()

		f := &buildFlags{}
		applyEnvConfig(&envConfig{ConfigPath: "env.yaml", DestDir: "env-out", PDF: &on}, f)
		if f.common.config != "env.yaml" || f.destDir != "env-out" || !f.pdf || !f.pdfSet {
			t.Errorf("flags = %+v", f)
		}
	})

	t.Run("flags win", func(t *testing.T) {
		t.Parallel()

		f := &buildFlags{destDir: "flag-out", pdfSet: true}
		f.common.config = "flag.yaml"
		applyEnvConfig(&envConfig{ConfigPath: "env.yaml", DestDir: "env-out", PDF: &on}, f)
		if f.common.config != "flag.yaml" || f.destDir != "flag-out" || f.pdf {
			t.Errorf("flags = %+v, want flag values kept", f)
		}
	})
}
