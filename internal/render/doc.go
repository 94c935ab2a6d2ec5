// Package render converts chapter markdown to HTML with goldmark.
//
// On top of CommonMark with tables, footnotes, strikethrough and task lists,
// rendering:
//   - rewrites link and image destinations, and href/src values in raw HTML,
//     so they resolve from the chapter's output page (see LinkFixer)
//   - optionally turns straight quotes into curly ones outside code
//   - strips whitespace from fenced code info strings
//   - generates heading anchors that are unique within a page
//   - optionally highlights code with chroma CSS classes
package render
