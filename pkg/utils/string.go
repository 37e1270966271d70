// Package utils provides small text helpers shared by the generator and its tools.
package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// NormalizeWhitespace replaces runs of whitespace with a single space and trims the ends.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// Preview flattens str onto one line and truncates it to at most width display
// columns, so wide (CJK) characters count double. Used for log lines.
func Preview(str string, width int) string {
	flat := NormalizeWhitespace(str)
	if width <= 0 {
		return ""
	}

	return runewidth.Truncate(flat, width, "...")
}
