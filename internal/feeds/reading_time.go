package feeds

import (
	"fmt"
	"strings"
	"unicode"
)

// wordsPerMinute is the average adult reading speed used for estimates.
const wordsPerMinute = 238

// CountWords counts words, treating whitespace and punctuation as
// separators.
func CountWords(text string) int {
	return len(strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}))
}

// ReadingTime estimates whole minutes needed to read text, with a minimum of
// one minute. Empty text takes zero minutes.
func ReadingTime(text string) int {
	words := CountWords(text)
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// FormatReadTime renders minutes the way newsletter platforms display them.
func FormatReadTime(minutes int) string {
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
