// Package freq aggregates word tokens into a ranked frequency table.
//
// Grouping is case-sensitive: "Cloud" and "cloud" are counted separately,
// exactly as they appear in the table shown to users. The stopword
// candidate list, in contrast, is case-insensitive (see [Candidates]).
//
// Ordering is descending by count with ties broken by first occurrence in the
// input, so the same text always produces the same table.
package freq

import (
	"cmp"
	"slices"

	"github.com/matzehuels/wordmosaic/pkg/text"
)

// DefaultCandidates is the number of most frequent words offered for
// additional stopword selection.
const DefaultCandidates = 50

// WordStat is one row of the frequency table.
type WordStat struct {
	Word  string `json:"word" bson:"word"`
	Count int    `json:"count" bson:"count"`
	Rank  int    `json:"rank" bson:"rank"`   // 1-based, contiguous
	First int    `json:"first" bson:"first"` // index of the first occurrence
}

// Table is a ranked frequency table. Counts are non-increasing and ranks run
// 1..len(t) without gaps.
type Table []WordStat

// Rank counts tokens by their raw text and returns the ranked table.
func Rank(tokens []text.Token) Table {
	index := make(map[string]int, len(tokens))
	var t Table
	for i, tok := range tokens {
		if j, ok := index[tok.Raw]; ok {
			t[j].Count++
			continue
		}
		index[tok.Raw] = len(t)
		t = append(t, WordStat{Word: tok.Raw, Count: 1, First: i})
	}

	slices.SortStableFunc(t, func(a, b WordStat) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.First, b.First)
	})
	for i := range t {
		t[i].Rank = i + 1
	}
	return t
}

// Top returns the first n rows, or the whole table if it is shorter.
func (t Table) Top(n int) Table {
	if n < 0 {
		n = 0
	}
	if n >= len(t) {
		return t
	}
	return t[:n]
}

// Total returns the sum of all counts.
func (t Table) Total() int {
	total := 0
	for _, w := range t {
		total += w.Count
	}
	return total
}

// MaxCount returns the highest count, or 0 for an empty table.
func (t Table) MaxCount() int {
	if len(t) == 0 {
		return 0
	}
	return t[0].Count
}

// Candidates returns the stopword candidates for tokens: the lower-cased
// forms of the k most frequent words, de-duplicated and sorted
// alphabetically. Pass the unfiltered token stream so common words remain
// selectable.
func Candidates(tokens []text.Token, k int) []string {
	top := Rank(tokens).Top(k)
	seen := make(map[string]struct{}, len(top))
	out := make([]string, 0, len(top))
	for _, w := range top {
		norm := text.Lower(w.Word)
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	slices.Sort(out)
	return out
}
