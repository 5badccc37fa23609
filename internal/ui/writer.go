package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docfind/docfind/internal/scan"
	"github.com/docfind/docfind/internal/search"
)

// Writer renders docfind output to a stream.
type Writer struct {
	out    io.Writer
	styles Styles
}

// NewWriter creates a Writer with the given styles.
func NewWriter(out io.Writer, styles Styles) *Writer {
	return &Writer{out: out, styles: styles}
}

// Successf prints a success line.
// Write errors are intentionally ignored for console output.
func (w *Writer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(w.out, w.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warningf prints a warning line.
func (w *Writer) Warningf(format string, args ...any) {
	_, _ = fmt.Fprintln(w.out, w.styles.Warning.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints an error line.
func (w *Writer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(w.out, w.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Infof prints a plain line.
func (w *Writer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintf(w.out, format+"\n", args...)
}

// Results renders ranked search hits with one optional snippet each.
func (w *Writer) Results(results []search.Result, snippets map[int]string) {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w.out, w.styles.Dim.Render("No matching documents."))
		return
	}

	header := fmt.Sprintf("%d result(s)", len(results))
	_, _ = fmt.Fprintln(w.out, w.styles.Header.Render(header))

	for i, r := range results {
		line := fmt.Sprintf("%2d. %s  %s",
			i+1,
			w.styles.Path.Render(r.Path),
			w.styles.Score.Render(fmt.Sprintf("(%.3f)", r.Score)))
		_, _ = fmt.Fprintln(w.out, line)

		if len(r.Matches) > 0 {
			_, _ = fmt.Fprintf(w.out, "    %s %s\n",
				w.styles.Label.Render("matched:"),
				strings.Join(r.Matches, ", "))
		}
		if snippet, ok := snippets[r.DocID]; ok && snippet != "" {
			_, _ = fmt.Fprintf(w.out, "    %s\n", w.styles.Snippet.Render(snippet))
		}
	}
}

// ScanSummary renders the outcome of one scan.
func (w *Writer) ScanSummary(documents, failed, terms int, elapsed time.Duration) {
	w.Successf("Indexed %d document(s) in %s", documents, elapsed.Round(time.Millisecond))
	if failed > 0 {
		w.Warningf("Skipped %d file(s); see the log for details", failed)
	}
	w.Infof("%s %d", w.styles.Label.Render("distinct terms:"), terms)
}

// Progress renders an in-place progress bar for a scan snapshot.
func (w *Writer) Progress(snap scan.Snapshot) {
	bar := renderBar(snap.Percent, 30)
	_, _ = fmt.Fprintf(w.out, "\r[%s] %3d%% %s",
		w.styles.Score.Render(bar), snap.Percent, snap.Phase)
	if snap.Percent >= 100 {
		_, _ = fmt.Fprintln(w.out)
	}
}

// renderBar creates a text progress bar.
func renderBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
