// Package input loads source documents from disk. Markdown and plain text
// pass through unchanged; PDF files are reduced to plain text, one page
// per paragraph.
package input

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"markdown-translator/internal/logger"
	"markdown-translator/internal/types"
)

// Read loads the document at path and returns its text content. The file
// extension selects the loader: .pdf goes through text extraction, anything
// else is read verbatim.
func Read(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", types.NewAppError(types.ErrFileNotFound, fmt.Sprintf("input file not found: %s", path), err)
		}
		return "", types.NewAppError(types.ErrInvalidInput, "failed to stat input file", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDF(path)
	default:
		return readText(path)
	}
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", types.NewAppError(types.ErrInvalidInput, "failed to read input file", err)
	}
	return string(data), nil
}

// readPDF extracts plain text from a PDF, joining pages with blank lines
// so downstream paragraph splitting sees page boundaries.
func readPDF(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", types.NewAppError(types.ErrInvalidInput, "failed to open PDF file", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("failed to extract PDF page text", logger.Int("page", i), logger.Err(err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	if len(pages) == 0 {
		return "", types.NewAppError(types.ErrInvalidInput, "PDF contains no extractable text", nil)
	}

	logger.Info("PDF text extracted", logger.String("path", path), logger.Int("pages", len(pages)))
	return strings.Join(pages, "\n\n"), nil
}
