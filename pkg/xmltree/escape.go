package xmltree

import "strings"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// Escape replaces the five XML metacharacters with their predefined entities,
// making text safe for both attribute values and element content.
func Escape(text string) string {
	return xmlEscaper.Replace(text)
}

// EscapeComment escapes text for use inside <!-- -->. Besides the five
// metacharacters, "--" is broken up and a trailing "-" is padded, both of
// which are forbidden inside XML comments.
func EscapeComment(text string) string {
	escaped := Escape(text)
	for strings.Contains(escaped, "--") {
		escaped = strings.ReplaceAll(escaped, "--", "- -")
	}
	if strings.HasSuffix(escaped, "-") {
		escaped += " "
	}
	return escaped
}
