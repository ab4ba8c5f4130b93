package text

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Token is a single word occurrence.
type Token struct {
	Raw  string // Text as it appeared in the input
	Norm string // Lower-cased form used for stopword matching
}

// Lower returns the lower-case form of s. It is the single case-folding rule
// for stopword matching and candidate de-duplication.
func Lower(s string) string {
	// Casers carry state and are not safe for concurrent use.
	return cases.Lower(language.Und).String(s)
}

// Split segments text on runs of Unicode whitespace.
func Split(text string) []string {
	return strings.Fields(text)
}

// Tokenize splits text and drops every token whose lower-case form is in sw.
// An input with nothing left after filtering yields an empty slice.
func Tokenize(text string, sw Stopwords) []Token {
	words := Split(text)
	tokens := make([]Token, 0, len(words))
	lower := cases.Lower(language.Und)
	for _, w := range words {
		norm := lower.String(w)
		if _, stop := sw.set[norm]; stop {
			continue
		}
		tokens = append(tokens, Token{Raw: w, Norm: norm})
	}
	return tokens
}

// All returns every token in text without filtering.
func All(text string) []Token {
	return Tokenize(text, Stopwords{})
}

// Filter returns the tokens of text that survive sw, joined by single spaces.
// Filtering already-filtered text with the same set returns it unchanged.
func Filter(text string, sw Stopwords) string {
	tokens := Tokenize(text, sw)
	raw := make([]string, len(tokens))
	for i, t := range tokens {
		raw[i] = t.Raw
	}
	return strings.Join(raw, " ")
}
