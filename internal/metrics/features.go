package metrics

import (
	"strings"
	"unicode/utf8"
)

// TextStats holds cheap local measurements of one piece of conversation
// text, computed without any model involvement.
type TextStats struct {
	Bytes  int
	Runes  int
	Words  int
	Lines  int
	Braces int
}

// Measure computes byte, rune, word, line, and opening-brace counts for s.
// The brace count is a rough signal that the text carries embedded JSON.
func Measure(s string) TextStats {
	return TextStats{
		Bytes:  len(s),
		Runes:  utf8.RuneCountInString(s),
		Words:  len(strings.Fields(s)),
		Lines:  countLines(s),
		Braces: strings.Count(s, "{"),
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
