package format

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripAnsi removes ANSI escape sequences from a string.
func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// DisplayWidth returns the visible width of a string in terminal
// columns, accounting for wide characters and ignoring ANSI escapes.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(StripAnsi(s))
}

// TruncateToWidth truncates a string to fit within maxWidth display
// columns, appending "..." when truncation occurs. Strings containing
// ANSI escapes are flattened to plain text before truncation. Returns
// the string and its visible width.
func TruncateToWidth(s string, maxWidth int) (string, int) {
	plain := StripAnsi(s)
	width := runewidth.StringWidth(plain)
	if width <= maxWidth && plain == s {
		return s, width
	}
	if width <= maxWidth {
		return plain, width
	}

	target := maxWidth - 3
	if target < 0 {
		target = 0
	}
	var b strings.Builder
	used := 0
	for _, r := range plain {
		rw := runewidth.RuneWidth(r)
		if used+rw > target {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	b.WriteString("...")
	return b.String(), used + 3
}

// PadRight pads a string with spaces to reach the target visible width.
func PadRight(s string, visibleWidth, targetWidth int) string {
	if visibleWidth >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visibleWidth)
}
