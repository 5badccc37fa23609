// Package index holds the in-memory document collection and the
// inverted index built over it.
package index

import "time"

// DocType identifies the source format of a document.
type DocType string

const (
	DocTypeWord DocType = "word"
	DocTypePDF  DocType = "pdf"
)

// Document is one processed file: its extracted text plus the positions
// of every token produced during segmentation.
type Document struct {
	Path    string  `json:"path"`
	Content string  `json:"content"`
	Type    DocType `json:"type"`

	// WordPositions maps each lowercased token to the ordered list of
	// token positions where it occurred.
	WordPositions map[string][]int `json:"word_positions"`

	// ProcessTime is how long ingestion took, for diagnostics.
	ProcessTime time.Duration `json:"process_time"`
}

// TotalWords returns the number of tokens recorded for the document.
func (d *Document) TotalWords() int {
	n := 0
	for _, positions := range d.WordPositions {
		n += len(positions)
	}
	return n
}

// TermFrequency returns how often word occurs in the document.
func (d *Document) TermFrequency(word string) int {
	return len(d.WordPositions[word])
}
