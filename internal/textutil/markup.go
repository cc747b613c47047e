package textutil

import (
	"html"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// LineBreak joins block-level text when fragments are merged.
const LineBreak = "<br />"

// StripMarkup removes tags from XHTML fragment text and decodes entities.
func StripMarkup(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}

// PlainText strips markup and collapses runs of whitespace.
func PlainText(s string) string {
	return strings.Join(strings.Fields(StripMarkup(strings.ReplaceAll(s, LineBreak, " "))), " ")
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// EscapeText escapes character data for inclusion in XML element content.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes a value for inclusion in a double-quoted XML attribute.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
