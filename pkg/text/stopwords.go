package text

import (
	_ "embed"
	"slices"
	"strings"
	"sync"
)

//go:embed stopwords.txt
var stopwordsData string

var (
	baseOnce sync.Once
	baseSet  map[string]struct{}
)

func base() map[string]struct{} {
	baseOnce.Do(func() {
		baseSet = make(map[string]struct{})
		for _, line := range strings.Split(stopwordsData, "\n") {
			w := strings.TrimSpace(line)
			if w == "" || strings.HasPrefix(w, "#") {
				continue
			}
			baseSet[Lower(w)] = struct{}{}
		}
	})
	return baseSet
}

// Stopwords is an immutable set of lower-case words excluded from counting.
// The zero value is an empty set.
type Stopwords struct {
	set map[string]struct{}
}

// DefaultStopwords returns the built-in English stopword set.
func DefaultStopwords() Stopwords {
	return NewStopwords(true)
}

// NewStopwords returns the union of the built-in set (when useDefault is
// true) and extra. Extra words are trimmed and lower-cased; blanks are
// ignored.
func NewStopwords(useDefault bool, extra ...string) Stopwords {
	set := make(map[string]struct{})
	if useDefault {
		for w := range base() {
			set[w] = struct{}{}
		}
	}
	for _, w := range extra {
		if w = strings.TrimSpace(w); w != "" {
			set[Lower(w)] = struct{}{}
		}
	}
	return Stopwords{set: set}
}

// Contains reports whether word is a stopword, ignoring case.
func (s Stopwords) Contains(word string) bool {
	if len(s.set) == 0 {
		return false
	}
	_, ok := s.set[Lower(word)]
	return ok
}

// Len returns the number of words in the set.
func (s Stopwords) Len() int { return len(s.set) }

// Words returns the set's words in sorted order.
func (s Stopwords) Words() []string {
	out := make([]string, 0, len(s.set))
	for w := range s.set {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}
