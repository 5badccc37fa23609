// Package segment turns extracted text into a lazy stream of lowercased
// tokens. Two segmenters are available: a sego dictionary segmenter for
// mixed Chinese/Latin text, and a dictionary-free unicode segmenter.
package segment

import (
	"strings"
	"unicode"
)

// Segmenter produces a token stream over a piece of text.
type Segmenter interface {
	// Segment returns a stream over text. The stream is pulled one
	// token at a time so callers can enforce limits mid-document.
	Segment(text string) *Stream
}

// Stream yields tokens lazily. Text is segmented one block at a time so
// a caller abandoning the stream early never pays for the whole document.
type Stream struct {
	blocks  []string
	segFn   func(string) []string
	pending []string
	next    int
}

func newStream(text string, segFn func(string) []string) *Stream {
	return &Stream{
		blocks: splitBlocks(text),
		segFn:  segFn,
	}
}

// Next returns the next token, or ok=false when the stream is exhausted.
func (s *Stream) Next() (string, bool) {
	for {
		if s.next < len(s.pending) {
			tok := s.pending[s.next]
			s.next++
			return tok, true
		}
		if len(s.blocks) == 0 {
			return "", false
		}
		block := s.blocks[0]
		s.blocks = s.blocks[1:]
		s.pending = s.segFn(block)
		s.next = 0
	}
}

// splitBlocks breaks text on line boundaries. Segmenting per block keeps
// the stream lazy without affecting token content or order.
func splitBlocks(text string) []string {
	lines := strings.Split(text, "\n")
	blocks := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			blocks = append(blocks, line)
		}
	}
	return blocks
}

// keepToken reports whether a segmented fragment counts as a token.
// Fragments with no letter or digit (pure punctuation, whitespace) are
// dropped.
func keepToken(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
