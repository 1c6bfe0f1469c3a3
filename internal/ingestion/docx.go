package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

const docxBody = "word/document.xml"

func isDOCX(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == docxBody {
			return true
		}
	}
	return false
}

func extractDOCX(data []byte) (*types.Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var body *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return nil, errors.New("document.xml not found")
	}

	rc, err := body.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	raw, err := io.ReadAll(io.LimitReader(rc, 4*MaxDocumentBytes))
	if err != nil {
		return nil, err
	}
	return parseDocumentXML(raw)
}

// parseDocumentXML walks WordprocessingML, emitting paragraph text and counting the
// constructs ATS parsers struggle with.
func parseDocumentXML(raw []byte) (*types.Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	var (
		buf    strings.Builder
		layout types.DocumentLayout
		inText bool
		listed bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			case "br", "cr":
				buf.WriteString("\n")
			case "numPr":
				listed = true
			case "tbl":
				layout.TableCount++
			case "txbxContent":
				layout.TextBoxCount++
			case "blip", "imagedata":
				layout.ImageCount++
			case "cols":
				if columnCount(t) > 1 {
					layout.MultiColumn = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.WriteString("\n")
			case "pPr":
				if listed {
					buf.WriteString("• ")
					listed = false
				}
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return &types.Document{Text: buf.String(), Layout: layout}, nil
}

func columnCount(el xml.StartElement) int {
	for _, a := range el.Attr {
		if a.Name.Local == "num" {
			n, _ := strconv.Atoi(a.Value)
			return n
		}
	}
	return 1
}
