package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docfind/docfind/internal/errors"
)

// PDF extracts text from at most maxPages pages of a PDF. Pages that
// fail to decode are skipped; a document yielding no text at all is an
// error.
func PDF(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", errors.ExtractionError(path, fmt.Errorf("open pdf: %w", err))
	}
	defer f.Close()

	total := r.NumPage()
	if maxPages > 0 && total > maxPages {
		total = maxPages
	}

	var pages []string
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	text := strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return "", errors.New(errors.ErrCodeExtractionEmpty,
			fmt.Sprintf("no text content in %s", path), nil)
	}
	return text, nil
}
