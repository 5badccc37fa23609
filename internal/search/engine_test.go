package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfind/docfind/internal/index"
	"github.com/docfind/docfind/internal/segment"
)

// corpusFrom builds docs and an index from token lists.
func corpusFrom(t *testing.T, contents ...string) ([]*index.Document, index.Inverted) {
	t.Helper()
	seg := segment.NewSimpleSegmenter()
	docs := make([]*index.Document, len(contents))
	for i, content := range contents {
		positions := make(map[string][]int)
		stream := seg.Segment(content)
		pos := 0
		for {
			tok, ok := stream.Next()
			if !ok {
				break
			}
			positions[tok] = append(positions[tok], pos)
			pos++
		}
		docs[i] = &index.Document{
			Path:          "doc",
			Type:          index.DocTypeWord,
			Content:       content,
			WordPositions: positions,
		}
	}
	return docs, index.Build(docs)
}

func newEngine(t *testing.T, contents ...string) *Engine {
	t.Helper()
	e := NewEngine(segment.NewSimpleSegmenter())
	docs, inv := corpusFrom(t, contents...)
	e.SetCorpus(docs, inv)
	return e
}

func TestSearch_ExactTFIDFScoring(t *testing.T) {
	// Given doc0 "apple banana apple" and doc1 "banana cherry"
	e := newEngine(t, "apple banana apple", "banana cherry")

	// When searching for a term unique to doc0
	results := e.Search("apple")

	// Then only doc0 scores: tf=2/3, idf=ln(2/2)+1=1, positions 0 and 2
	// give weight 1/1+1/3, so score = (2/3)*1*(4/3)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].DocID)
	assert.InDelta(t, 8.0/9.0, results[0].Score, 1e-9)
	assert.Equal(t, []string{"apple"}, results[0].Matches)
	assert.Equal(t, "apple banana apple", results[0].Content)
	assert.Equal(t, []int{0, 2}, results[0].Positions["apple"])
}

func TestSearch_RanksByScoreDescending(t *testing.T) {
	e := newEngine(t, "apple banana apple", "banana cherry")

	// banana sits at position 1 in doc0 (weight 1/2) and position 0 in
	// doc1 (weight 1), so doc1 outranks doc0.
	results := e.Search("banana")

	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].DocID)
	assert.Equal(t, 0, results[1].DocID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_FuzzyExpansionCarriesPenalty(t *testing.T) {
	e := newEngine(t, "apple banana apple", "banana cherry")

	exact := e.Search("apple")
	fuzzy := e.Search("aple")

	// "aple" expands to "apple" (similarity 8/9) at 0.8 weight.
	require.Len(t, exact, 1)
	require.Len(t, fuzzy, 1)
	assert.Equal(t, exact[0].DocID, fuzzy[0].DocID)
	assert.InDelta(t, exact[0].Score*0.8, fuzzy[0].Score, 1e-9)
}

func TestSearch_ExactQueryStillReachesNearTerm(t *testing.T) {
	e := newEngine(t, "apple", "apples apples")

	// "apple" hits doc0 exactly and expands to "apples" for doc1, so a
	// document holding only the near term still scores, at 0.8 weight.
	results := e.Search("apple")

	require.Len(t, results, 2)
	// doc0: tf=1, idf=1, posW=1 -> 1.0
	// doc1: tf=1, idf=1, posW=1+1/2, weight 0.8 -> 1.2
	assert.Equal(t, 1, results[0].DocID)
	assert.InDelta(t, 1.2, results[0].Score, 1e-9)
	assert.Equal(t, 0, results[1].DocID)
	assert.InDelta(t, 1.0, results[1].Score, 1e-9)
}

func TestSearch_EmptyQuery(t *testing.T) {
	e := newEngine(t, "apple banana")

	assert.Nil(t, e.Search(""))
	assert.Nil(t, e.Search("   \t\n"))
	assert.Nil(t, e.Search("..."))
}

func TestSearch_NoMatch(t *testing.T) {
	e := newEngine(t, "apple banana")

	assert.Empty(t, e.Search("zzzzzz"))
}

func TestSearch_QueryIsCaseInsensitive(t *testing.T) {
	e := newEngine(t, "apple banana")

	results := e.Search("APPLE")

	require.Len(t, results, 1)
	assert.Equal(t, []string{"apple"}, results[0].Matches)
}

func TestSearch_MultiKeywordAccumulates(t *testing.T) {
	e := newEngine(t, "apple banana apple", "banana cherry")

	apple := e.Search("apple")
	both := e.Search("apple cherry")

	// doc0 keeps its apple score; doc1 gains a cherry score.
	require.Len(t, both, 2)
	assert.Equal(t, 0, both[0].DocID)
	assert.InDelta(t, apple[0].Score, both[0].Score, 1e-9)
}

func TestSearch_Deterministic(t *testing.T) {
	e := newEngine(t, "apple banana apple", "banana cherry", "apple cherry date")

	first := e.Search("aple banana")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, e.Search("aple banana"))
	}
}

func TestSetCorpus_ResetsExpansionCache(t *testing.T) {
	e := newEngine(t, "apple banana")
	require.NotEmpty(t, e.Search("aple"))

	// After rebinding to a corpus without "apple", the cached
	// expansion must not leak through.
	docs, inv := corpusFrom(t, "cherry date")
	e.SetCorpus(docs, inv)

	assert.Empty(t, e.Search("aple"))
}

func TestSearch_EmptyCorpus(t *testing.T) {
	e := NewEngine(segment.NewSimpleSegmenter())

	assert.Nil(t, e.Search("apple"))
}
