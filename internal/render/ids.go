package render

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

var _ parser.IDs = (*HeadingIDs)(nil)

// HeadingIDs generates heading anchors and keeps them unique within a page.
// The zero value is not usable; call NewHeadingIDs.
type HeadingIDs struct {
	counts map[string]int
}

// NewHeadingIDs creates an empty ID set.
func NewHeadingIDs() *HeadingIDs {
	return &HeadingIDs{counts: make(map[string]int)}
}

// Generate implements parser.IDs. Repeated IDs get "-1", "-2"... appended.
func (h *HeadingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	id := NormalizeID(strings.TrimLeft(strings.TrimSpace(string(value)), "#"))
	if id == "" {
		id = "heading"
	}
	n := h.counts[id]
	h.counts[id] = n + 1
	if n > 0 {
		id += "-" + strconv.Itoa(n)
	}
	return []byte(id)
}

// Put implements parser.IDs for explicitly set IDs.
func (h *HeadingIDs) Put(value []byte) {
	h.counts[string(value)]++
}

// NormalizeID turns heading text into an anchor: letters, digits, '_' and
// '-' are kept (ASCII lowercased), whitespace becomes '-', the rest is
// dropped.
func NormalizeID(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-':
			if r < unicode.MaxASCII {
				r = unicode.ToLower(r)
			}
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		}
	}
	return b.String()
}
