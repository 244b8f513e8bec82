// Package docx provides a text extraction adapter for Word documents.
// The OOXML container is a ZIP archive; the body text lives in
// word/document.xml as runs of text inside paragraphs.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/dealsense/ragengine/internal/core/domain"
	"github.com/dealsense/ragengine/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads .docx files.
type Extractor struct{}

// New creates a docx extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the document body text, one line per paragraph.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not a docx archive", domain.ErrExtractionUnavailable, path)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", domain.ErrExtractionUnavailable, path, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", domain.ErrExtractionUnavailable, path, err)
		}

		text, err := parseBody(data)
		if err != nil {
			return "", fmt.Errorf("%w: parsing %s: %v", domain.ErrExtractionUnavailable, path, err)
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: %s has no word/document.xml", domain.ErrExtractionUnavailable, path)
}

// bodyXML mirrors the fragment of word/document.xml we care about.
type bodyXML struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []struct {
					Content string `xml:",chardata"`
				} `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

func parseBody(data []byte) (string, error) {
	var doc bodyXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", err
	}

	var b strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, t := range run.Text {
				b.WriteString(t.Content)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
