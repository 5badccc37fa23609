package index

import "sort"

// Posting records one occurrence list entry: a document and one token
// position inside it.
type Posting struct {
	DocID int
	Pos   int
}

// Inverted maps each term to its postings. Postings for a term are
// ordered by document id, and by position within a document.
type Inverted map[string][]Posting

// Build constructs an inverted index over docs. Document ids are the
// slice indices, so the same document order always yields the same index.
func Build(docs []*Document) Inverted {
	inv := make(Inverted)
	for id, doc := range docs {
		appendDoc(inv, doc, id)
	}
	return inv
}

// Append adds a single document to an existing index under the given id.
// The id must be greater than every id already present.
func Append(inv Inverted, doc *Document, id int) {
	appendDoc(inv, doc, id)
}

func appendDoc(inv Inverted, doc *Document, id int) {
	if doc == nil {
		return
	}
	terms := make([]string, 0, len(doc.WordPositions))
	for term := range doc.WordPositions {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for _, term := range terms {
		for _, pos := range doc.WordPositions[term] {
			inv[term] = append(inv[term], Posting{DocID: id, Pos: pos})
		}
	}
}

// DocFrequency returns how many distinct documents contain term.
func (inv Inverted) DocFrequency(term string) int {
	postings := inv[term]
	if len(postings) == 0 {
		return 0
	}
	n := 1
	for i := 1; i < len(postings); i++ {
		if postings[i].DocID != postings[i-1].DocID {
			n++
		}
	}
	return n
}

// Vocabulary returns all indexed terms in lexicographic order.
func (inv Inverted) Vocabulary() []string {
	terms := make([]string, 0, len(inv))
	for term := range inv {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
