package prompt

import (
	"regexp"
	"strings"
)

// Bullet is the glyph used for list items in plain-text output.
const Bullet = "•"

var (
	// list markers at line start, "* " included, before emphasis removal
	anyListMarker = regexp.MustCompile(`(?m)^([ \t]*)[-*+][ \t]+`)
	// list markers exposed once heading markers are gone
	dashListMarker = regexp.MustCompile(`(?m)^[-+][ \t]+`)
	// indentation left behind by removed heading markers
	leadingSpaces = regexp.MustCompile(`(?m)^[ \t]+(\S)`)

	markdownChars = strings.NewReplacer("*", "", "#", "", "_", "", "~", "", "`", "")
)

// StripMarkdown removes emphasis, heading, strike-through and code markers
// from model output and normalizes list markers to the bullet glyph.
// Applying it twice yields the same result as applying it once.
func StripMarkdown(text string) string {
	out := anyListMarker.ReplaceAllString(text, "${1}"+Bullet+" ")
	out = markdownChars.Replace(out)
	out = leadingSpaces.ReplaceAllString(out, "${1}")
	out = dashListMarker.ReplaceAllString(out, Bullet+" ")
	return strings.TrimSpace(out)
}

// ContainsMarkdown reports whether text still holds any character the
// stripper removes.
func ContainsMarkdown(text string) bool {
	return strings.ContainsAny(text, "*#_~`")
}
