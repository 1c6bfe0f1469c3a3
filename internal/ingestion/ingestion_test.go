package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/fetch"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"line endings", "A\r\nB\rC", "A\nB\nC"},
		{"runs of blanks", "Go    and\t\tPython", "Go and Python"},
		{"blank lines collapse", "A\n\n\n\n\nB", "A\n\nB"},
		{"bullet glyphs unified", "● Led a team\n▪ Cut costs\n· Shipped", "• Led a team\n• Cut costs\n• Shipped"},
		{"zero width removed", "Jane\u200b Doe\ufeff", "Jane Doe"},
		{"outer whitespace trimmed", "\n\n  Jane  \n\n", "Jane"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestHash(t *testing.T) {
	assert.Len(t, Hash("resume"), 64)
	assert.Equal(t, Hash("resume"), Hash("resume"))
	assert.NotEqual(t, Hash("resume"), Hash("resume "))
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		mime string
		file string
		data []byte
		want Format
	}{
		{"declared pdf", "application/pdf", "", nil, FormatPDF},
		{"declared with params", "text/html; charset=utf-8", "", nil, FormatHTML},
		{"extension", "", "resume.DOCX", nil, FormatDOCX},
		{"markdown", "", "resume.md", nil, FormatText},
		{"sniffed pdf", "application/octet-stream", "upload", []byte("%PDF-1.7\n..."), FormatPDF},
		{"sniffed html", "", "upload", []byte("<!DOCTYPE html><html><body>x</body></html>"), FormatHTML},
		{"sniffed text", "", "upload", []byte("Jane Doe\nEngineer"), FormatText},
		{"zip holding docx", "application/zip", "upload", docxBytes(t, "<w:p><w:r><w:t>x</w:t></w:r></w:p>"), FormatDOCX},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.mime, tt.file, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectFormat("image/png", "photo", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`

func docxBytes(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDocument_DOCX(t *testing.T) {
	body := `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/></w:numPr></w:pPr><w:r><w:t>Built APIs</w:t></w:r><w:r><w:tab/><w:t>2021</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Go</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:drawing><a:blip/></w:drawing></w:r></w:p>` +
		`<w:p><w:r><w:txbxContent><w:p><w:r><w:t>Boxed</w:t></w:r></w:p></w:txbxContent></w:r></w:p>` +
		`<w:sectPr><w:cols w:num="2"/></w:sectPr>`

	doc, err := ExtractDocument(context.Background(), docxBytes(t, body), MimeDOCX, "jane.docx")
	require.NoError(t, err)

	assert.Equal(t, "jane.docx", doc.Name)
	assert.Equal(t, MimeDOCX, doc.MimeType)
	assert.Equal(t, "Jane Doe\n• Built APIs 2021\nGo\n\nBoxed", doc.Text)
	assert.Equal(t, 1, doc.Layout.TableCount)
	assert.Equal(t, 1, doc.Layout.ImageCount)
	assert.Equal(t, 1, doc.Layout.TextBoxCount)
	assert.True(t, doc.Layout.MultiColumn)
}

func TestExtractDocument_HTML(t *testing.T) {
	html := `<html><head><style>body{}</style></head><body>
		<h1>Jane Doe</h1>
		<div style="column-count: 2"><p>Backend engineer</p></div>
		<ul><li>Built APIs</li><li>Cut costs by 30%</li></ul>
		<table><tr><td>Go</td><td>Python</td></tr></table>
		<img src="me.png">
		<script>alert(1)</script>
	</body></html>`

	doc, err := ExtractDocument(context.Background(), []byte(html), "", "jane.html")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nBackend engineer\n• Built APIs\n• Cut costs by 30%\nGo Python", doc.Text)
	assert.Equal(t, 1, doc.Layout.TableCount)
	assert.Equal(t, 1, doc.Layout.ImageCount)
	assert.True(t, doc.Layout.MultiColumn)
	assert.NotContains(t, doc.Text, "alert")
}

func TestExtractDocument_Text(t *testing.T) {
	doc, err := ExtractDocument(context.Background(), []byte("Jane   Doe\r\n\r\n\r\n\r\nSKILLS"), MimeText, "jane.txt")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nSKILLS", doc.Text)
	assert.Zero(t, doc.Layout)
}

func TestExtractDocument_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := ExtractDocument(ctx, nil, MimeText, "empty.txt")
	var xe *ExtractError
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, "empty.txt", xe.Name)

	_, err = ExtractDocument(ctx, make([]byte, MaxDocumentBytes+1), MimeText, "huge.txt")
	assert.ErrorAs(t, err, &xe)

	_, err = ExtractDocument(ctx, []byte("not a pdf"), MimePDF, "broken.pdf")
	require.ErrorAs(t, err, &xe)
	assert.Contains(t, err.Error(), "failed to read pdf")

	_, err = ExtractDocument(ctx, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, "image/png", "photo.png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ExtractDocument(cancelled, []byte("x"), MimeText, "x.txt")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("Senior Go Engineer\n\n\n\nRequirements"), 0o644))

	text, err := JobFromFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer\n\nRequirements", text)

	_, err = ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestJobFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="job-description"><h2>Backend   Engineer</h2><ul><li>Go</li></ul></div></body></html>`))
	}))
	defer srv.Close()

	page, err := JobFromURL(context.Background(), srv.URL, fetch.JobOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer\nGo", page.Text)

	_, err = JobFromURL(context.Background(), "nope", fetch.JobOptions{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to fetch job description"))
}
