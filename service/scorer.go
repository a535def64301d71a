package service

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"notoc/nlp"
)

// fuzzScorer scores name similarity as the best of plain ratio, partial
// ratio and token-sort ratio over diacritic-folded input. Partial ratio
// catches fragments ("Tun" in "Tuan"), token-sort catches reordered words
// ("Duy Khanh" vs "Khanh Duy").
type fuzzScorer struct{}

// NewFuzzScorer returns the default similarity scorer.
func NewFuzzScorer() Scorer {
	return fuzzScorer{}
}

func (fuzzScorer) Score(query, candidate string) int {
	q := nlp.Fold(query)
	c := nlp.Fold(candidate)

	score := fuzzy.Ratio(q, c)
	if s := fuzzy.PartialRatio(q, c); s > score {
		score = s
	}
	if s := fuzzy.TokenSortRatio(q, c); s > score {
		score = s
	}
	return score
}
