package render

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Fence line: container prefix (indent, blockquote markers), fence, info.
	fenceLine = regexp.MustCompile("^([ \\t>]*)(`{3,}|~{3,})(.*)$")
)

// preprocess prepares chapter markdown for the parser: line endings become
// "\n" and whitespace inside fenced code block info strings is removed, so
// "rust, no_run" and "rust,no_run" produce the same class attribute.
func preprocess(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return cleanFenceInfo(content)
}

// cleanFenceInfo strips whitespace from opening fence info strings. Lines
// inside an open fence are left alone, fence-like ones included.
func cleanFenceInfo(content string) string {
	if !strings.Contains(content, "```") && !strings.Contains(content, "~~~") {
		return content
	}

	lines := strings.Split(content, "\n")
	var open string // fence that opened the current block, empty outside one
	for i, line := range lines {
		m := fenceLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		prefix, fence, info := m[1], m[2], m[3]

		if open != "" {
			if fence[0] == open[0] && len(fence) >= len(open) && strings.TrimSpace(info) == "" {
				open = ""
			}
			continue
		}

		// A backtick fence cannot carry backticks in its info string.
		if fence[0] == '`' && strings.Contains(info, "`") {
			continue
		}
		open = fence
		lines[i] = prefix + fence + stripSpace(info)
	}
	return strings.Join(lines, "\n")
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
