package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

// MaxDocumentBytes caps the size of a single uploaded document.
const MaxDocumentBytes = 10 << 20

// Format is a supported source document format.
type Format string

// Format constants
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// MIME types recognised by DetectFormat.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeHTML = "text/html"
	MimeText = "text/plain"
)

var mimeFormats = map[string]Format{
	MimePDF:         FormatPDF,
	MimeDOCX:        FormatDOCX,
	MimeHTML:        FormatHTML,
	"text/markdown": FormatText,
	MimeText:        FormatText,
}

var extFormats = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".html": FormatHTML,
	".htm":  FormatHTML,
	".txt":  FormatText,
	".md":   FormatText,
	".text": FormatText,
}

// DetectFormat resolves the document format from the declared MIME type, falling back to
// the file extension and finally to the content itself.
func DetectFormat(mimeType, name string, data []byte) (Format, error) {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if f, ok := mimeFormats[clean]; ok {
		return f, nil
	}
	if clean == "application/zip" && isDOCX(data) {
		return FormatDOCX, nil
	}
	if f, ok := extFormats[strings.ToLower(filepath.Ext(name))]; ok {
		return f, nil
	}

	switch sniffed := http.DetectContentType(data); {
	case strings.HasPrefix(sniffed, MimePDF):
		return FormatPDF, nil
	case sniffed == "application/zip" && isDOCX(data):
		return FormatDOCX, nil
	case strings.HasPrefix(sniffed, MimeHTML):
		return FormatHTML, nil
	case strings.HasPrefix(sniffed, MimeText):
		return FormatText, nil
	}
	if clean == "" {
		clean = "unknown"
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, clean)
}

// ExtractDocument recovers text and layout signals from an in-memory document.
func ExtractDocument(ctx context.Context, data []byte, mimeType, name string) (*types.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &ExtractError{Name: name, Message: "document is empty"}
	}
	if len(data) > MaxDocumentBytes {
		return nil, &ExtractError{Name: name, Message: fmt.Sprintf("document exceeds %d bytes", MaxDocumentBytes)}
	}

	format, err := DetectFormat(mimeType, name, data)
	if err != nil {
		return nil, &ExtractError{Name: name, Message: "cannot determine format", Cause: err}
	}

	var doc *types.Document
	switch format {
	case FormatPDF:
		doc, err = extractPDF(data)
	case FormatDOCX:
		doc, err = extractDOCX(data)
	case FormatHTML:
		doc, err = extractHTML(data)
	default:
		doc = &types.Document{Text: string(data)}
	}
	if err != nil {
		return nil, &ExtractError{Name: name, Message: fmt.Sprintf("failed to read %s", format), Cause: err}
	}

	doc.Name = name
	doc.MimeType = formatMime(format)
	doc.Text = CleanText(doc.Text)
	slog.Debug("extracted document",
		slog.String("name", name),
		slog.String("format", string(format)),
		slog.Int("chars", len(doc.Text)),
		slog.Any("layout", doc.Layout))
	return doc, nil
}

// ExtractFile reads path and extracts it like ExtractDocument.
func ExtractFile(ctx context.Context, path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ExtractDocument(ctx, data, "", filepath.Base(path))
}

func formatMime(f Format) string {
	switch f {
	case FormatPDF:
		return MimePDF
	case FormatDOCX:
		return MimeDOCX
	case FormatHTML:
		return MimeHTML
	default:
		return MimeText
	}
}
