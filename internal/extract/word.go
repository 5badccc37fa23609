package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/docfind/docfind/internal/errors"
)

// docx word/document.xml structure, reduced to what text extraction
// needs: paragraphs containing text runs.
type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

// Word extracts the text of a .docx file. Non-blank paragraphs are
// joined with newlines. A document with no extractable text is an error.
func Word(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", errors.ExtractionError(path, fmt.Errorf("open docx archive: %w", err))
	}
	defer zr.Close()

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.ExtractionError(path, fmt.Errorf("word/document.xml missing"))
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", errors.ExtractionError(path, fmt.Errorf("open document.xml: %w", err))
	}
	defer rc.Close()

	var doc docxDocument
	if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
		return "", errors.ExtractionError(path, fmt.Errorf("parse document.xml: %w", err))
	}

	var paragraphs []string
	for _, p := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t)
			}
		}
		if text := sb.String(); strings.TrimSpace(text) != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	text := strings.Join(paragraphs, "\n")
	if strings.TrimSpace(text) == "" {
		return "", errors.New(errors.ErrCodeExtractionEmpty,
			fmt.Sprintf("no text content in %s", path), nil)
	}
	return text, nil
}
