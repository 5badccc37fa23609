package search

import "sort"

const (
	// fuzzyLimit is the maximum number of vocabulary terms one query
	// keyword expands to.
	fuzzyLimit = 2
	// fuzzyCutoff is the minimum similarity for an expansion.
	fuzzyCutoff = 0.8
	// fuzzyPenalty discounts scores contributed by inexact matches.
	fuzzyPenalty = 0.8
)

// match is one indexed term a query keyword maps to, with the scoring
// weight it carries.
type match struct {
	Term   string
	Weight float64
}

// closeMatches expands a keyword against the vocabulary: up to
// fuzzyLimit terms scoring at least fuzzyCutoff, ordered by similarity
// with ties broken lexicographically so expansion is deterministic. An
// exact hit carries full weight and, being the top candidate, never
// crowds out a near term unless fuzzyLimit others beat the cutoff too.
func closeMatches(word string, vocab []string) []match {
	type scored struct {
		term string
		sim  float64
	}
	var candidates []scored
	for _, term := range vocab {
		if sim := ratio(word, term); sim >= fuzzyCutoff {
			candidates = append(candidates, scored{term, sim})
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].sim != candidates[b].sim {
			return candidates[a].sim > candidates[b].sim
		}
		return candidates[a].term < candidates[b].term
	})

	if len(candidates) > fuzzyLimit {
		candidates = candidates[:fuzzyLimit]
	}
	matches := make([]match, len(candidates))
	for i, c := range candidates {
		weight := fuzzyPenalty
		if c.term == word {
			weight = 1.0
		}
		matches[i] = match{Term: c.term, Weight: weight}
	}
	return matches
}
