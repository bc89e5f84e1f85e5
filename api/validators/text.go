package validators

import (
	"strings"
	"unicode"
)

// CleanText trims surrounding whitespace and drops control characters other
// than newlines and tabs.
func CleanText(input string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, input))
}

// CleanName is CleanText for single-line labels: internal whitespace runs
// collapse to one space.
func CleanName(input string) string {
	return strings.Join(strings.Fields(CleanText(input)), " ")
}
