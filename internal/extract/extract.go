// Package extract pulls plain text out of Word (.docx) and PDF files.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/docfind/docfind/internal/index"
)

// DetectType maps a file extension to its document type. ok is false
// for unsupported extensions.
func DetectType(path string) (index.DocType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return index.DocTypeWord, true
	case ".pdf":
		return index.DocTypePDF, true
	default:
		return "", false
	}
}
