package search

// ratio computes sequence similarity between two strings as
// 2*M/(len(a)+len(b)), where M counts characters in the longest
// matching blocks found recursively. Operates on runes so multibyte
// text compares correctly.
func ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	m := matchingTotal(ra, rb, 0, len(ra), 0, len(rb))
	return 2.0 * float64(m) / float64(len(ra)+len(rb))
}

// matchingTotal sums matching block lengths: find the longest common
// substring of the two windows, then recurse on what lies left and
// right of it.
func matchingTotal(a, b []rune, alo, ahi, blo, bhi int) int {
	ai, bj, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingTotal(a, b, alo, ai, blo, bj)
	total += matchingTotal(a, b, ai+size, ahi, bj+size, bhi)
	return total
}

// longestMatch finds the longest common substring of a[alo:ahi] and
// b[blo:bhi], preferring the earliest position in a, then in b.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	// j2len[j] is the length of the common run ending at a[i], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for j := blo; j < bhi; j++ {
			if a[i] != b[j] {
				continue
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestsize
}
