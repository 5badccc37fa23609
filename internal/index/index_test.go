package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(path string, positions map[string][]int) *Document {
	return &Document{Path: path, Type: DocTypeWord, WordPositions: positions}
}

func TestBuild_PostingsOrderedByDocThenPosition(t *testing.T) {
	// Given two documents sharing a term
	docs := []*Document{
		doc("a.docx", map[string][]int{"apple": {0, 2}, "banana": {1}}),
		doc("b.docx", map[string][]int{"apple": {1}, "cherry": {0}}),
	}

	// When building the index
	inv := Build(docs)

	// Then postings follow document order, positions in recorded order
	require.Equal(t, []Posting{{0, 0}, {0, 2}, {1, 1}}, inv["apple"])
	require.Equal(t, []Posting{{0, 1}}, inv["banana"])
	require.Equal(t, []Posting{{1, 0}}, inv["cherry"])
}

func TestBuild_Deterministic(t *testing.T) {
	docs := []*Document{
		doc("a.docx", map[string][]int{"x": {0}, "y": {1}, "z": {2}}),
		doc("b.docx", map[string][]int{"y": {0}, "z": {1}}),
	}

	first := Build(docs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Build(docs))
	}
}

func TestAppend_ExtendsIndex(t *testing.T) {
	docs := []*Document{
		doc("a.docx", map[string][]int{"apple": {0}}),
	}
	inv := Build(docs)

	Append(inv, doc("c.pdf", map[string][]int{"apple": {3}, "date": {0}}), 1)

	assert.Equal(t, []Posting{{0, 0}, {1, 3}}, inv["apple"])
	assert.Equal(t, []Posting{{1, 0}}, inv["date"])
}

func TestDocFrequency(t *testing.T) {
	docs := []*Document{
		doc("a.docx", map[string][]int{"apple": {0, 1}}),
		doc("b.docx", map[string][]int{"apple": {4}}),
		doc("c.docx", map[string][]int{"banana": {0}}),
	}
	inv := Build(docs)

	assert.Equal(t, 2, inv.DocFrequency("apple"))
	assert.Equal(t, 1, inv.DocFrequency("banana"))
	assert.Equal(t, 0, inv.DocFrequency("missing"))
}

func TestVocabulary_Sorted(t *testing.T) {
	inv := Build([]*Document{
		doc("a.docx", map[string][]int{"cherry": {0}, "apple": {1}, "banana": {2}}),
	})

	assert.Equal(t, []string{"apple", "banana", "cherry"}, inv.Vocabulary())
}

func TestDocument_TotalWords(t *testing.T) {
	d := doc("a.docx", map[string][]int{"apple": {0, 2}, "banana": {1}})

	assert.Equal(t, 3, d.TotalWords())
	assert.Equal(t, 2, d.TermFrequency("apple"))
	assert.Equal(t, 0, d.TermFrequency("missing"))
}
