// Package analyzers provides the metric extractors that turn resume text and structured
// resume data into fixed-shape signal sets. Extractors never fail: missing or malformed
// input yields zero values that are reflected in the score.
package analyzers

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

// minSentenceWords is the shortest un-glyphed line accepted as a bullet.
const minSentenceWords = 5

var titleLine = regexp.MustCompile(`\s[|@]\s|\b(19|20)\d{2}\b\s*(-|–|—|to)`)

func tables() *rubric.Rubric {
	return rubric.Default()
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ExtractBullets returns the de-duplicated bullet lines of text, stripped of glyphs.
func ExtractBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		if sections.IsBullet(line) {
			bullets = append(bullets, sections.StripBullet(line))
		}
	}
	return dedupe(bullets)
}

// sectionBullets extracts bullets from a section body. Glyph lines win; when a section has
// none, sentence-shaped lines that are not entry titles are used instead.
func sectionBullets(content string) []string {
	if bullets := ExtractBullets(content); len(bullets) > 0 {
		return bullets
	}
	var bullets []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if WordCount(line) < minSentenceWords || titleLine.MatchString(line) {
			continue
		}
		bullets = append(bullets, line)
	}
	return dedupe(bullets)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

// FirstWord returns the lower-cased first word of s without surrounding punctuation.
func FirstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Trim(fields[0], ".,;:!?()[]\"'"))
}

// sectionOrText returns the named section's body, or the whole text when no sections were found.
func sectionOrText(text string, sec *types.SectionAnalysis, name string) string {
	if sec.Has(name) {
		return sec.Content(name)
	}
	if sec == nil || len(sec.Present) <= 1 {
		return text
	}
	return ""
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// splitLines returns the trimmed, non-empty lines of s.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
