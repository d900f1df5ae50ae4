package search

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// TokenSet is a set of lower-cased word tokens
type TokenSet map[string]struct{}

// Tokenize splits text into maximal runs of letters, digits and underscore after
// lower-casing. There is no stemming and no stop word list.
func Tokenize(text string) TokenSet {
	tokens := make(TokenSet)
	if text == "" {
		return tokens
	}
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		tokens[word] = struct{}{}
	}
	return tokens
}

// Overlap counts the tokens present in both sets
func (s TokenSet) Overlap(other TokenSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			n++
		}
	}
	return n
}
