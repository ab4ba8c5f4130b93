// Package text splits raw text into word tokens and removes stopwords.
//
// Word boundaries are runs of Unicode whitespace; punctuation is not
// stripped, so "cloud," and "cloud" are different tokens. Stopword matching
// is case-insensitive while tokens keep their original spelling for display
// and counting.
//
//	sw := text.NewStopwords(true, "lorem", "ipsum")
//	tokens := text.Tokenize(input, sw)
//
// All functions are pure and safe for concurrent use.
package text
