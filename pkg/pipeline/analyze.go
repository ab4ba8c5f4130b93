package pipeline

import (
	"github.com/matzehuels/wordmosaic/pkg/freq"
	"github.com/matzehuels/wordmosaic/pkg/text"
)

// Analysis is the result of the analyze stage.
type Analysis struct {
	// Table is the ranked frequency table after stopword filtering.
	Table freq.Table `json:"table"`

	// Candidates are the most frequent words of the unfiltered text,
	// lower-cased and sorted, offered as extra stopwords.
	Candidates []string `json:"candidates"`

	// Tokens is the number of words left after filtering.
	Tokens int `json:"tokens"`

	// Empty reports that nothing was left after filtering. The run still
	// succeeds and produces an empty cloud.
	Empty bool `json:"empty"`
}

// Analyze tokenizes input, removes stopwords, and ranks the remaining words.
func Analyze(input string, opts Options) Analysis {
	sw := text.NewStopwords(!opts.NoDefaultStopwords, opts.Stopwords...)
	tokens := text.Tokenize(input, sw)

	table := freq.Rank(tokens)
	if table == nil {
		table = freq.Table{}
	}
	candidates := freq.Candidates(text.All(input), freq.DefaultCandidates)
	if candidates == nil {
		candidates = []string{}
	}
	return Analysis{
		Table:      table,
		Candidates: candidates,
		Tokens:     len(tokens),
		Empty:      len(tokens) == 0,
	}
}
