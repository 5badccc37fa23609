package segment

import (
	"strings"
	"unicode"
)

// SimpleSegmenter is a dictionary-free fallback. Runs of letters and
// digits become one token each; Han characters are emitted one rune at
// a time. Tokens are lowercased.
type SimpleSegmenter struct{}

// NewSimpleSegmenter returns the dictionary-free segmenter.
func NewSimpleSegmenter() *SimpleSegmenter {
	return &SimpleSegmenter{}
}

// Segment implements Segmenter.
func (s *SimpleSegmenter) Segment(text string) *Stream {
	return newStream(text, segmentBlock)
}

func segmentBlock(block string) []string {
	var tokens []string
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, strings.ToLower(word.String()))
			word.Reset()
		}
	}

	for _, r := range block {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}
