package ingestion

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-scorer/internal/types"
)

var columnStyle = regexp.MustCompile(`(?i)column-count\s*:\s*[2-9]|columns\s*:\s*[2-9]|grid-template-columns\s*:[^;]*\S+\s+\S+`)

const blockElements = "p, div, section, article, header, footer, li, tr, h1, h2, h3, h4, h5, h6, br, table, ul, ol"

// ExtractHTMLText renders HTML to plain text with one line per block element and "•" for
// list items.
func ExtractHTMLText(html string) (string, error) {
	doc, err := extractHTML([]byte(html))
	if err != nil {
		return "", err
	}
	return CleanText(doc.Text), nil
}

func extractHTML(data []byte) (*types.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, noscript, template").Remove()

	layout := types.DocumentLayout{
		TableCount: doc.Find("table").Length(),
		ImageCount: doc.Find("img, svg, picture").Length(),
	}
	doc.Find("[style]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		if columnStyle.MatchString(style) {
			layout.MultiColumn = true
			return false
		}
		return true
	})
	doc.Find("textarea, [contenteditable]").Each(func(_ int, _ *goquery.Selection) {
		layout.TextBoxCount++
	})

	doc.Find("td, th").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("• ")
	})
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	var lines []string
	for _, l := range strings.Split(root.Text(), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return &types.Document{Text: strings.Join(lines, "\n"), Layout: layout}, nil
}
