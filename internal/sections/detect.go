// Package sections splits raw resume text into canonical sections and checks their order.
package sections

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	// headerScanLines is how many non-empty lines are inspected for the contact block
	headerScanLines = 10
	// maxHeadingChars guards against treating long all-caps body text as a heading
	maxHeadingChars = 50
	// orderPenaltyPerPosition is charged for each position a section is displaced
	orderPenaltyPerPosition = 2
)

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:^|[^\d])(\+?\d{1,3}[\s.\-])?(\(?\d{3}\)?[\s.\-]?)?\d{3}[\s.\-]?\d{4}\b`)
	namePattern     = regexp.MustCompile(`^[A-Z][a-zA-Z'.\-]+(\s+[A-Z][a-zA-Z'.\-]*){1,3}$`)
	bulletLine      = regexp.MustCompile(`^\s*([•·▪◦●‣■□➢➤►*\-–—]|\d{1,2}[.)])\s+`)
	headingTrimmers = " \t:|-–—#*_="
)

// sectionPatterns holds one heading pattern per canonical section.
var sectionPatterns = map[string]*regexp.Regexp{
	types.SectionHeader:         regexp.MustCompile(`(?i)^(contact|contact (info|information|details)|personal (info|information|details))$`),
	types.SectionSummary:        regexp.MustCompile(`(?i)^(professional |career |executive )?(summary|profile|objective|about( me)?|overview)$`),
	types.SectionSkills:         regexp.MustCompile(`(?i)^(technical |core |key |relevant )?(skills|competencies|technologies|tech stack|expertise)( (&|and) (tools|technologies|interests))?$`),
	types.SectionExperience:     regexp.MustCompile(`(?i)^(professional |work |relevant |employment )?(experience|history|employment)( history)?$`),
	types.SectionProjects:       regexp.MustCompile(`(?i)^(academic |personal |key |selected |side )?projects?$`),
	types.SectionEducation:      regexp.MustCompile(`(?i)^(education|academic (background|qualifications)|qualifications|educational background)$`),
	types.SectionCertifications: regexp.MustCompile(`(?i)^(certifications?|licenses?( (&|and) certifications?)?|certificates?|courses( (&|and) certifications?)?)$`),
	types.SectionAchievements:   regexp.MustCompile(`(?i)^(achievements?|awards?( (&|and) (honors|achievements))?|honors( (&|and) awards)?|accomplishments)$`),
}

var canonicalIndex = func() map[string]int {
	m := make(map[string]int, len(types.CanonicalSections))
	for i, s := range types.CanonicalSections {
		m[s] = i
	}
	return m
}()

// MatchHeading returns the canonical section a line introduces, if any.
func MatchHeading(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > maxHeadingChars {
		return "", false
	}
	candidate := strings.Trim(trimmed, headingTrimmers)
	for _, name := range types.CanonicalSections {
		if sectionPatterns[name].MatchString(candidate) {
			return name, true
		}
	}
	return "", false
}

// IsBullet reports whether a line starts with a bullet glyph or list number.
func IsBullet(line string) bool {
	return bulletLine.MatchString(line)
}

// StripBullet removes a leading bullet glyph or list number.
func StripBullet(line string) string {
	return strings.TrimSpace(bulletLine.ReplaceAllString(line, ""))
}

// Detect splits text into sections and validates their order against the canonical order.
func Detect(text string) *types.SectionAnalysis {
	analysis := &types.SectionAnalysis{
		Positions:    make(map[string]int),
		WordCounts:   make(map[string]int),
		BulletCounts: make(map[string]int),
		Contents:     make(map[string]string),
		Present:      []string{},
		Missing:      []string{},
		OrderIssues:  []types.OrderIssue{},
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	analysis.Header = scanHeader(lines)

	var order []string
	current := ""
	content := make(map[string]*strings.Builder)

	start := func(name string) {
		current = name
		if _, seen := analysis.Positions[name]; !seen {
			analysis.Positions[name] = len(order)
			order = append(order, name)
			content[name] = &strings.Builder{}
		}
	}

	if headerDetected(analysis.Header) {
		start(types.SectionHeader)
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if name, ok := MatchHeading(trimmed); ok {
			start(name)
			continue
		}
		if current == "" {
			continue
		}
		sb := content[current]
		sb.WriteString(trimmed)
		sb.WriteString("\n")
		analysis.WordCounts[current] += len(strings.Fields(StripBullet(trimmed)))
		if IsBullet(trimmed) {
			analysis.BulletCounts[current]++
		}
	}

	for name, sb := range content {
		analysis.Contents[name] = strings.TrimSpace(sb.String())
	}

	analysis.Present = append(analysis.Present, order...)
	for _, name := range types.CanonicalSections {
		if _, ok := analysis.Positions[name]; !ok {
			analysis.Missing = append(analysis.Missing, name)
		}
	}

	analysis.OrderIssues = validateOrder(order)
	for _, issue := range analysis.OrderIssues {
		analysis.OrderPenalty += issue.PenaltyPoints
	}
	analysis.OrderCorrect = len(analysis.OrderIssues) == 0

	return analysis
}

// validateOrder compares each section's actual index with the index it would hold if the
// present sections were in canonical order.
func validateOrder(order []string) []types.OrderIssue {
	issues := []types.OrderIssue{}
	for actual, name := range order {
		expected := 0
		for _, other := range order {
			if canonicalIndex[other] < canonicalIndex[name] {
				expected++
			}
		}
		delta := actual - expected
		if delta == 0 {
			continue
		}
		if delta < 0 {
			delta = -delta
		}
		issues = append(issues, types.OrderIssue{
			Section:        name,
			ActualIndex:    actual,
			ExpectedIndex:  expected,
			PenaltyPoints:  orderPenaltyPerPosition * delta,
			Recommendation: fmt.Sprintf("Move %s to position %d", strings.ToUpper(name), expected+1),
		})
	}
	return issues
}

// scanHeader inspects the first non-empty lines for contact signals.
func scanHeader(lines []string) types.HeaderInfo {
	var info types.HeaderInfo
	seen := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if seen >= headerScanLines {
			break
		}
		if _, isHeading := MatchHeading(trimmed); isHeading && seen > 0 {
			break
		}
		lower := strings.ToLower(trimmed)
		if seen == 0 && namePattern.MatchString(trimmed) && !strings.ContainsAny(trimmed, "@0123456789") {
			info.HasName = true
			info.Name = trimmed
		}
		if emailPattern.MatchString(trimmed) {
			info.HasEmail = true
		}
		if phonePattern.MatchString(trimmed) {
			info.HasPhone = true
		}
		if strings.Contains(lower, "linkedin") {
			info.HasLinkedIn = true
		}
		if strings.Contains(lower, "github") {
			info.HasGitHub = true
		}
		seen++
	}
	return info
}

func headerDetected(h types.HeaderInfo) bool {
	return h.HasEmail || h.HasPhone || h.HasLinkedIn || h.HasGitHub
}

// FindEmail returns the first email address in text.
func FindEmail(text string) string {
	return emailPattern.FindString(text)
}

// HasPhone reports whether text contains a phone number.
func HasPhone(text string) bool {
	return phonePattern.MatchString(text)
}
