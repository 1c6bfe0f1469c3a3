package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	// minWordsPerPage below which a PDF with images is treated as scanned.
	minWordsPerPage = 20
	// columnGapShare is the horizontal gap, as a share of page width, that separates columns.
	columnGapShare = 0.12
	// splitRowShare of rows must show a column gap before a page counts as multi-column.
	splitRowShare     = 0.5
	minRowsForColumns = 8
)

func extractPDF(data []byte) (doc *types.Document, err error) {
	// The PDF reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return nil, err
	}

	layout := types.DocumentLayout{PageCount: r.NumPage()}
	for i := 1; i <= layout.PageCount; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		layout.ImageCount += countImages(p.Resources())
		if !layout.MultiColumn && hasColumns(p.Content().Text) {
			layout.MultiColumn = true
		}
	}

	text := buf.String()
	words := len(strings.Fields(text))
	if layout.PageCount > 0 && words < minWordsPerPage*layout.PageCount && (layout.ImageCount > 0 || words == 0) {
		layout.ImageBased = true
	}
	return &types.Document{Text: text, Layout: layout}, nil
}

func countImages(resources pdf.Value) int {
	xobjects := resources.Key("XObject")
	n := 0
	for _, name := range xobjects.Keys() {
		if xobjects.Key(name).Key("Subtype").Name() == "Image" {
			n++
		}
	}
	return n
}

// hasColumns reports whether most text rows on a page contain a wide horizontal gap.
func hasColumns(glyphs []pdf.Text) bool {
	if len(glyphs) == 0 {
		return false
	}
	rows := make(map[int][]pdf.Text)
	left, right := math.MaxFloat64, 0.0
	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		y := int(math.Round(g.Y))
		rows[y] = append(rows[y], g)
		left = math.Min(left, g.X)
		right = math.Max(right, g.X+g.W)
	}
	width := right - left
	if len(rows) < minRowsForColumns || width <= 0 {
		return false
	}

	split := 0
	for _, row := range rows {
		sort.Slice(row, func(i, j int) bool { return row[i].X < row[j].X })
		for i := 1; i < len(row); i++ {
			if row[i].X-(row[i-1].X+row[i-1].W) > columnGapShare*width {
				split++
				break
			}
		}
	}
	return float64(split)/float64(len(rows)) >= splitRowShare
}
