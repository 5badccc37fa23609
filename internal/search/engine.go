// Package search ranks documents against free-text queries with
// TF-IDF scoring, position weighting, and fuzzy keyword expansion.
package search

import (
	"math"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/docfind/docfind/internal/index"
	"github.com/docfind/docfind/internal/segment"
)

const expansionCacheSize = 1024

// Result is one ranked hit. Content and Positions are carried along so
// callers can extract display context without another lookup.
type Result struct {
	DocID     int
	Path      string
	Type      index.DocType
	Score     float64
	Matches   []string
	Content   string
	Positions map[string][]int
}

// Engine scores queries against a document collection. Bind a corpus
// with SetCorpus before searching; rebinding resets the expansion
// cache.
type Engine struct {
	seg   segment.Segmenter
	docs  []*index.Document
	inv   index.Inverted
	vocab []string

	expansions *lru.Cache[string, []match]
}

// NewEngine returns an engine with an empty corpus.
func NewEngine(seg segment.Segmenter) *Engine {
	cache, _ := lru.New[string, []match](expansionCacheSize)
	return &Engine{seg: seg, inv: index.Inverted{}, expansions: cache}
}

// SetCorpus binds the collection and its inverted index. Cached fuzzy
// expansions from the previous corpus are dropped.
func (e *Engine) SetCorpus(docs []*index.Document, inv index.Inverted) {
	e.docs = docs
	e.inv = inv
	e.vocab = inv.Vocabulary()
	e.expansions.Purge()
}

// Search ranks documents against query, best first. An empty or
// all-whitespace query returns no results. Ordering is deterministic:
// equal scores keep document-id order.
func (e *Engine) Search(query string) []Result {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	keywords := e.keywords(query)
	if len(keywords) == 0 || len(e.docs) == 0 {
		return nil
	}

	scores := make([]float64, len(e.docs))
	matched := make([]map[string]struct{}, len(e.docs))

	totals := make([]int, len(e.docs))
	for i, doc := range e.docs {
		totals[i] = doc.TotalWords()
	}

	for _, kw := range keywords {
		for _, m := range e.expand(kw) {
			idf := e.idf(m.Term)
			for docID, posWeight := range e.positionWeights(m.Term) {
				if totals[docID] == 0 {
					continue
				}
				tf := float64(e.docs[docID].TermFrequency(m.Term)) / float64(totals[docID])
				scores[docID] += tf * idf * posWeight * m.Weight
				if matched[docID] == nil {
					matched[docID] = make(map[string]struct{})
				}
				matched[docID][m.Term] = struct{}{}
			}
		}
	}

	var results []Result
	for docID, score := range scores {
		if score <= 0 {
			continue
		}
		terms := make([]string, 0, len(matched[docID]))
		for term := range matched[docID] {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		results = append(results, Result{
			DocID:     docID,
			Path:      e.docs[docID].Path,
			Type:      e.docs[docID].Type,
			Score:     score,
			Matches:   terms,
			Content:   e.docs[docID].Content,
			Positions: e.docs[docID].WordPositions,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	return results
}

// keywords segments the lowercased query into search terms.
func (e *Engine) keywords(query string) []string {
	stream := e.seg.Segment(strings.ToLower(query))
	var kws []string
	for {
		tok, ok := stream.Next()
		if !ok {
			return kws
		}
		kws = append(kws, tok)
	}
}

// expand maps a keyword to indexed terms, consulting the LRU cache.
func (e *Engine) expand(word string) []match {
	if cached, ok := e.expansions.Get(word); ok {
		return cached
	}
	matches := closeMatches(word, e.vocab)
	e.expansions.Add(word, matches)
	return matches
}

// idf is the inverse document frequency: ln(N/(df+1)) + 1.
func (e *Engine) idf(term string) float64 {
	n := float64(len(e.docs))
	df := float64(e.inv.DocFrequency(term))
	return math.Log(n/(df+1)) + 1
}

// positionWeights sums 1/(pos+1) per document for a term, so earlier
// occurrences weigh more.
func (e *Engine) positionWeights(term string) map[int]float64 {
	weights := make(map[int]float64)
	for _, p := range e.inv[term] {
		weights[p.DocID] += 1.0 / float64(p.Pos+1)
	}
	return weights
}
