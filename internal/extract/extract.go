// Package extract turns uploaded resume documents into plain text.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	appErrors "resumate/internal/errors"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format identifies a supported document format
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatDOCX  Format = "docx"
	FormatPlain Format = "plain"
)

// contentTypeFormats maps MIME types to document formats
var contentTypeFormats = map[string]Format{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"text/plain":    FormatPlain,
	"text/markdown": FormatPlain,
}

// DetectFormat resolves the document format from the content type, falling
// back to the filename extension when the content type is missing or not
// recognized. The second return value reports whether the content type had
// to be ignored in favor of the extension.
func DetectFormat(filename, contentType string) (Format, bool, error) {
	if contentType != "" {
		// Strip parameters like "; charset=utf-8"
		mime := strings.TrimSpace(strings.Split(contentType, ";")[0])
		if format, ok := contentTypeFormats[mime]; ok {
			return format, false, nil
		}
	}

	format, err := formatFromExtension(filename)
	if err != nil {
		return "", contentType != "", err
	}
	return format, contentType != "", nil
}

func formatFromExtension(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".md", ".text":
		return FormatPlain, nil
	default:
		return "", appErrors.NewValidationError(appErrors.ErrCodeInvalidFormat,
			fmt.Sprintf("unsupported document format: %s", filepath.Ext(filename)), nil)
	}
}

// Text extracts plain text from document bytes in the given format
func Text(format Format, data []byte) (string, error) {
	switch format {
	case FormatPlain:
		return string(data), nil
	case FormatPDF:
		return pdfText(data)
	case FormatDOCX:
		return docxText(data)
	default:
		return "", appErrors.NewValidationError(appErrors.ErrCodeInvalidFormat,
			fmt.Sprintf("unsupported document format: %s", format), nil)
	}
}

func pdfText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(reader.Len()))
	if err != nil {
		return "", appErrors.NewParseError(appErrors.ErrCodeParseFailure,
			"failed to read PDF document", err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // Skip unreadable pages, keep what we have
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

// docxParagraphs marks paragraph boundaries in the raw document XML
var (
	docxParagraphs = regexp.MustCompile(`</w:p>`)
	docxTags       = regexp.MustCompile(`<[^>]+>`)
)

func docxText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		return "", appErrors.NewParseError(appErrors.ErrCodeParseFailure,
			"failed to read DOCX document", err)
	}
	defer doc.Close()

	// GetContent returns the document XML; keep paragraph breaks and
	// strip the rest of the markup.
	content := doc.Editable().GetContent()
	content = docxParagraphs.ReplaceAllString(content, "\n")
	content = docxTags.ReplaceAllString(content, "")

	return content, nil
}
