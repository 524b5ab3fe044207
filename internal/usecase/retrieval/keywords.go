package retrieval

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minKeywordLen = 3
	maxKeywords   = 6
)

// Keywords tokenizes a retrieval query: punctuation stripped, split on
// whitespace, tokens shorter than 3 runes dropped, at most 6 kept.
func Keywords(query string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, query)

	var keywords []string
	for _, tok := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(tok) < minKeywordLen {
			continue
		}
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
