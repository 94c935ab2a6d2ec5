package main

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Per-command help
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args       []string
		wantStdout string
		wantStderr string
	}{
		{nil, "Usage: md2book <command>", ""},
		{[]string{"build"}, "Usage: md2book build", ""},
		{[]string{"watch"}, "--debounce", ""},
		{[]string{"init"}, "--title", ""},
		{[]string{"doctor"}, "Usage: md2book doctor", ""},
		{[]string{"completion"}, "Supported shells:", ""},
		{[]string{"version"}, "Usage: md2book version", ""},
		{[]string{"help"}, "Usage: md2book help", ""},
		{[]string{"bogus"}, "", "Unknown command: bogus"},
	}

	for _, tt := range tests {
		name := "none"
		if len(tt.args) > 0 {
			name = tt.args[0]
		}
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			runHelp(tt.args, &Environment{Stdout: &stdout, Stderr: &stderr})

			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
