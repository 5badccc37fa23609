package segment

import (
	"os"
	"strings"

	"github.com/huichen/sego"

	"github.com/docfind/docfind/internal/errors"
)

// SegoSegmenter segments text with a sego dictionary. Tokens are
// lowercased and punctuation-only fragments dropped.
type SegoSegmenter struct {
	seg sego.Segmenter
}

// NewSegoSegmenter loads the dictionary at dictPath.
func NewSegoSegmenter(dictPath string) (*SegoSegmenter, error) {
	if _, err := os.Stat(dictPath); err != nil {
		return nil, errors.FileAccessError(dictPath, err)
	}
	s := &SegoSegmenter{}
	// sego.LoadDictionary panics on an unreadable file; the stat above
	// catches the common case first.
	s.seg.LoadDictionary(dictPath)
	return s, nil
}

// Segment implements Segmenter.
func (s *SegoSegmenter) Segment(text string) *Stream {
	return newStream(text, func(block string) []string {
		segments := s.seg.Segment([]byte(block))
		segs := sego.SegmentsToSlice(segments, false)
		tokens := make([]string, 0, len(segs))
		for _, frag := range segs {
			frag = strings.ToLower(strings.TrimSpace(frag))
			if frag != "" && keepToken(frag) {
				tokens = append(tokens, frag)
			}
		}
		return tokens
	})
}
