package render

import (
	"strings"
	"unicode"
)

// curlyQuotes converts straight quotes to typographic ones. A quote opens
// when preceded by whitespace (or starts the text, when precededBySpace is
// true) and closes otherwise. Backslash-escaped quotes are left for the
// markdown writer to unescape.
func curlyQuotes(s string, precededBySpace bool) string {
	if !strings.ContainsAny(s, `'"`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			b.WriteRune(r)
		case r == '\'':
			if precededBySpace {
				b.WriteRune('‘')
			} else {
				b.WriteRune('’')
			}
		case r == '"':
			if precededBySpace {
				b.WriteRune('“')
			} else {
				b.WriteRune('”')
			}
		default:
			b.WriteRune(r)
		}
		escaped = r == '\\' && !escaped
		precededBySpace = unicode.IsSpace(r)
	}
	return b.String()
}
