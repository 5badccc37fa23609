package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(s *Stream) []string {
	var out []string
	for {
		tok, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

func TestSimpleSegmenter_LatinWords(t *testing.T) {
	seg := NewSimpleSegmenter()

	tokens := collect(seg.Segment("Apple banana, APPLE cherry."))

	assert.Equal(t, []string{"apple", "banana", "apple", "cherry"}, tokens)
}

func TestSimpleSegmenter_HanRunesSplitIndividually(t *testing.T) {
	seg := NewSimpleSegmenter()

	tokens := collect(seg.Segment("中文test检索"))

	assert.Equal(t, []string{"中", "文", "test", "检", "索"}, tokens)
}

func TestSimpleSegmenter_DigitsAndMixedRuns(t *testing.T) {
	seg := NewSimpleSegmenter()

	tokens := collect(seg.Segment("report2024 v2.1"))

	assert.Equal(t, []string{"report2024", "v2", "1"}, tokens)
}

func TestSimpleSegmenter_EmptyAndBlankText(t *testing.T) {
	seg := NewSimpleSegmenter()

	assert.Empty(t, collect(seg.Segment("")))
	assert.Empty(t, collect(seg.Segment("   \n\t  \n")))
	assert.Empty(t, collect(seg.Segment("... !!! ---")))
}

func TestStream_LazyAcrossLines(t *testing.T) {
	seg := NewSimpleSegmenter()
	stream := seg.Segment("first line\nsecond line\nthird line")

	// Pulling a prefix works without exhausting the stream.
	tok, ok := stream.Next()
	require.True(t, ok)
	assert.Equal(t, "first", tok)

	rest := collect(stream)
	assert.Equal(t, []string{"line", "second", "line", "third", "line"}, rest)
}

func TestNewSegoSegmenter_MissingDictionary(t *testing.T) {
	_, err := NewSegoSegmenter("/nonexistent/dict.txt")

	require.Error(t, err)
}
