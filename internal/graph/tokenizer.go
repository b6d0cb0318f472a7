package graph

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength is the shortest token kept; shorter tokens carry too little
// signal ("v", "re", "the").
const minTokenLength = 4

// stopWords are dropped after lower-casing. Only words of at least
// minTokenLength runes need listing.
var stopWords = map[string]bool{
	"about": true, "after": true, "also": true, "been": true, "before": true,
	"does": true, "each": true, "from": true, "have": true, "here": true,
	"into": true, "just": true, "more": true, "only": true, "other": true,
	"over": true, "said": true, "some": true, "such": true, "than": true,
	"that": true, "their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "very": true, "were": true,
	"what": true, "when": true, "which": true, "will": true, "with": true,
	"would": true, "your": true,
}

// Tokenize lower-cases text, strips punctuation and returns the remaining
// words of at least four runes that are not stop words, in order of
// appearance (duplicates kept).
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, text)

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(word) < minTokenLength || stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// TokenSet returns the distinct tokens of text.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// sharedTokens returns the sorted intersection of a and b.
func sharedTokens(a, b map[string]struct{}) []string {
	var out []string
	for tok := range a {
		if _, ok := b[tok]; ok {
			out = append(out, tok)
		}
	}
	sort.Strings(out)
	return out
}

// entityText is the text that discovery compares.
func entityText(title, description string) string {
	if description == "" {
		return title
	}
	return title + " " + description
}
