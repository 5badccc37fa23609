package search

import "strings"

const snippetRadius = 40

// Snippet returns a short excerpt of doc content around the first
// occurrence of any matched term, for result display. Returns the
// content head when no term is found in the raw text.
func Snippet(content string, terms []string) string {
	lower := strings.ToLower(content)

	at := -1
	for _, term := range terms {
		if i := strings.Index(lower, term); i >= 0 && (at < 0 || i < at) {
			at = i
		}
	}
	if at < 0 {
		at = 0
	}

	runes := []rune(content)
	// Convert the byte offset to a rune offset.
	pos := len([]rune(content[:at]))

	start := pos - snippetRadius
	if start < 0 {
		start = 0
	}
	end := pos + snippetRadius
	if end > len(runes) {
		end = len(runes)
	}

	out := strings.TrimSpace(string(runes[start:end]))
	out = strings.ReplaceAll(out, "\n", " ")
	if start > 0 {
		out = "..." + out
	}
	if end < len(runes) {
		out += "..."
	}
	return out
}
