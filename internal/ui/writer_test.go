package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/docfind/docfind/internal/scan"
	"github.com/docfind/docfind/internal/search"
)

func plainWriter() (*Writer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWriter(&buf, NoColorStyles()), &buf
}

func TestResults_RendersRankedHits(t *testing.T) {
	w, buf := plainWriter()

	w.Results([]search.Result{
		{DocID: 0, Path: "/docs/fruit.docx", Score: 2.667, Matches: []string{"apple"}},
		{DocID: 1, Path: "/docs/veg.docx", Score: 0.5, Matches: []string{"carrot"}},
	}, map[int]string{0: "apple banana apple"})

	out := buf.String()
	assert.Contains(t, out, "2 result(s)")
	assert.Contains(t, out, "/docs/fruit.docx")
	assert.Contains(t, out, "(2.667)")
	assert.Contains(t, out, "matched: apple")
	assert.Contains(t, out, "apple banana apple")
}

func TestResults_Empty(t *testing.T) {
	w, buf := plainWriter()

	w.Results(nil, nil)

	assert.Contains(t, buf.String(), "No matching documents.")
}

func TestScanSummary(t *testing.T) {
	w, buf := plainWriter()

	w.ScanSummary(12, 2, 340, 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "Indexed 12 document(s)")
	assert.Contains(t, out, "Skipped 2 file(s)")
	assert.Contains(t, out, "340")
}

func TestProgress_CompletesWithNewline(t *testing.T) {
	w, buf := plainWriter()

	w.Progress(scan.Snapshot{Phase: scan.PhaseDone, Percent: 100})

	out := buf.String()
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "\n")
}

func TestRenderBar_Bounds(t *testing.T) {
	assert.Len(t, []rune(renderBar(-5, 10)), 10)
	assert.Len(t, []rune(renderBar(50, 10)), 10)
	assert.Len(t, []rune(renderBar(150, 10)), 10)
}
