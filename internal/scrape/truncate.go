package scrape

import (
	"strings"
	"unicode"
)

// Truncate keeps the first limit words of text, where words are runs of
// non-whitespace as in strings.Fields. The cut falls right after the last kept
// word in the original text, so spacing and line breaks inside the kept
// prefix are untouched and the result never ends inside a word. On
// single-spaced text this is the length of the kept words joined by single
// spaces. When limit covers every word the text is returned as is.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		if strings.IndexFunc(text, isWordRune) < 0 {
			return text
		}
		return ""
	}
	words := 0
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inWord {
				words++
				if words == limit {
					return text[:i]
				}
				inWord = false
			}
			continue
		}
		inWord = true
	}
	return text
}

func isWordRune(r rune) bool {
	return !unicode.IsSpace(r)
}
