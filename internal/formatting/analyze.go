// Package formatting grades ATS parsing hazards in a resume document and checks its own
// output for consistency.
package formatting

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Issue types
const (
	IssueTables       = "tables"
	IssueMultiColumn  = "multi_column"
	IssueTextBoxes    = "text_boxes"
	IssueImages       = "images"
	IssueOCROrigin    = "ocr_origin"
	IssueWhitespace   = "excessive_whitespace"
	IssueUnusualChars = "unusual_characters"
	IssueHeaderCasing = "inconsistent_header_casing"
)

const (
	highCompatMin      = 85.0
	mediumCompatMin    = 70.0
	maxModerateForHigh = 2
)

var (
	columnGap  = regexp.MustCompile(`\S\s{4,}\S`)
	tabbedCell = regexp.MustCompile(`\S\t+\S.*\t+\S`)
)

// validate is swapped in tests to force inconsistent assessments.
var validate = Validate

// typographic runes that ATS parsers handle fine
const allowedSymbols = "•·–—‘’“”…€£₹°©®™"

type finding struct {
	issueType      string
	severity       types.IssueSeverity
	description    string
	recommendation string
}

type detector func(doc types.Document) []finding

// detectors run in order; each returns zero or more findings.
var detectors = []detector{
	detectOCR,
	detectTables,
	detectMultiColumn,
	detectTextBoxes,
	detectImages,
	detectWhitespace,
	detectUnusualCharacters,
	detectHeaderCasing,
}

// AnalyzeText grades a plain-text resume with no layout signals.
func AnalyzeText(text string) types.FormattingAssessment {
	return Analyze(types.Document{Text: text})
}

// Analyze grades a document. An internal failure yields a neutral fallback assessment
// marked Fallback rather than an error.
func Analyze(doc types.Document) (a types.FormattingAssessment) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("formatting analysis failed, using fallback", "document", doc.Name, "panic", r)
			a = Fallback(fmt.Sprint(r))
		}
	}()

	tables := &rubric.Default().Formatting
	a.Issues = []types.FormattingIssue{}
	for _, detect := range detectors {
		for _, f := range detect(doc) {
			penalty := tables.Penalty(f.issueType, f.severity)
			a.Issues = append(a.Issues, types.FormattingIssue{
				Type:           f.issueType,
				Severity:       f.severity,
				Penalty:        penalty,
				Description:    f.description,
				Recommendation: f.recommendation,
			})
			a.TotalPenalty += penalty
		}
	}
	a.OverallScore = math.Max(0, math.Min(100, 100-float64(a.TotalPenalty)))
	a.ATSCompatibility = Compatibility(a.OverallScore, a.Issues)

	if v := validate(a); len(v) > 0 {
		a.Violations = v
		slog.Warn("formatting assessment failed self-validation", "document", doc.Name, "violations", len(v))
	}
	return a
}

// Fallback is the neutral assessment used when analysis cannot complete.
func Fallback(reason string) types.FormattingAssessment {
	return types.FormattingAssessment{
		OverallScore:     rubric.Default().Formatting.FallbackScore,
		ATSCompatibility: types.ATSMedium,
		Issues:           []types.FormattingIssue{},
		Fallback:         true,
		FallbackReason:   reason,
	}
}

// Compatibility labels a score: any Severe issue or more than two Moderate issues is Low,
// otherwise the score decides.
func Compatibility(score float64, issues []types.FormattingIssue) types.ATSCompatibility {
	moderate := 0
	for _, i := range issues {
		switch i.Severity {
		case types.IssueSevere:
			return types.ATSLow
		case types.IssueModerate:
			moderate++
		}
	}
	switch {
	case moderate > maxModerateForHigh:
		return types.ATSLow
	case score >= highCompatMin:
		return types.ATSHigh
	case score >= mediumCompatMin:
		return types.ATSMedium
	default:
		return types.ATSLow
	}
}

func countSeverity(n int) types.IssueSeverity {
	switch {
	case n > 2:
		return types.IssueSevere
	case n > 1:
		return types.IssueModerate
	default:
		return types.IssueMinor
	}
}

func detectOCR(doc types.Document) []finding {
	if !doc.Layout.ImageBased {
		return nil
	}
	return []finding{{
		issueType:      IssueOCROrigin,
		severity:       types.IssueSevere,
		description:    "Document is image-based; text had to be recovered by OCR or not at all",
		recommendation: "Export the resume from a word processor so the text is selectable",
	}}
}

func detectTables(doc types.Document) []finding {
	count := doc.Layout.TableCount
	if count == 0 && textTableLines(doc.Text) >= 3 {
		count = 1
	}
	if count == 0 {
		return nil
	}
	return []finding{{
		issueType:      IssueTables,
		severity:       countSeverity(count),
		description:    fmt.Sprintf("%d table(s) detected", count),
		recommendation: "Replace tables with plain headings and bullet lists",
	}}
}

func textTableLines(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if tabbedCell.MatchString(line) {
			n++
		}
	}
	return n
}

func detectMultiColumn(doc types.Document) []finding {
	lines := nonEmptyLines(doc.Text)
	gapped := 0
	for _, line := range lines {
		if columnGap.MatchString(strings.TrimSpace(line)) {
			gapped++
		}
	}
	share := 0.0
	if len(lines) >= 6 {
		share = float64(gapped) / float64(len(lines))
	}
	if !doc.Layout.MultiColumn && share < 0.3 {
		return nil
	}
	sev := types.IssueModerate
	if share >= 0.6 {
		sev = types.IssueSevere
	}
	return []finding{{
		issueType:      IssueMultiColumn,
		severity:       sev,
		description:    "Multi-column layout detected; ATS parsers may interleave columns",
		recommendation: "Use a single-column layout",
	}}
}

func detectTextBoxes(doc types.Document) []finding {
	if doc.Layout.TextBoxCount == 0 {
		return nil
	}
	return []finding{{
		issueType:      IssueTextBoxes,
		severity:       countSeverity(doc.Layout.TextBoxCount),
		description:    fmt.Sprintf("%d text box(es) detected", doc.Layout.TextBoxCount),
		recommendation: "Move text box content into the main document flow",
	}}
}

func detectImages(doc types.Document) []finding {
	n := doc.Layout.ImageCount
	if n == 0 || doc.Layout.ImageBased {
		return nil
	}
	sev := types.IssueMinor
	if n > 2 {
		sev = types.IssueModerate
	}
	return []finding{{
		issueType:      IssueImages,
		severity:       sev,
		description:    fmt.Sprintf("%d embedded image(s); their content is invisible to ATS", n),
		recommendation: "Remove photos, logos and skill-bar graphics",
	}}
}

func detectWhitespace(doc types.Document) []finding {
	lines := strings.Split(doc.Text, "\n")
	blank, run, longRuns := 0, 0, 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank++
			run++
			if run == 3 {
				longRuns++
			}
			continue
		}
		run = 0
	}

	var sev types.IssueSeverity
	switch {
	case len(lines) >= 10 && float64(blank)/float64(len(lines)) > 0.5:
		sev = types.IssueSevere
	case longRuns >= 3:
		sev = types.IssueModerate
	case longRuns >= 1:
		sev = types.IssueMinor
	default:
		return nil
	}
	return []finding{{
		issueType:      IssueWhitespace,
		severity:       sev,
		description:    fmt.Sprintf("%d blank line(s), %d run(s) of three or more", blank, longRuns),
		recommendation: "Remove stacked blank lines and spacer paragraphs",
	}}
}

func detectUnusualCharacters(doc types.Document) []finding {
	total, unusual := 0, 0
	for _, r := range doc.Text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if !isOrdinary(r) {
			unusual++
		}
	}
	if total == 0 || unusual < 3 {
		return nil
	}

	density := float64(unusual) / float64(total)
	var sev types.IssueSeverity
	switch {
	case density > 0.05:
		sev = types.IssueSevere
	case density > 0.02:
		sev = types.IssueModerate
	case density > 0.005:
		sev = types.IssueMinor
	default:
		return nil
	}
	return []finding{{
		issueType:      IssueUnusualChars,
		severity:       sev,
		description:    fmt.Sprintf("%d unusual character(s) (%.1f%% of text), often icon fonts or symbols", unusual, density*100),
		recommendation: "Replace icons and decorative symbols with plain text",
	}}
}

func isOrdinary(r rune) bool {
	if r < unicode.MaxASCII && unicode.IsPrint(r) {
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(allowedSymbols, r)
}

func detectHeaderCasing(doc types.Document) []finding {
	styles := make(map[string]bool)
	for _, line := range nonEmptyLines(doc.Text) {
		if _, ok := sections.MatchHeading(line); !ok {
			continue
		}
		styles[casingStyle(strings.Trim(strings.TrimSpace(line), " :"))] = true
	}
	if len(styles) < 2 {
		return nil
	}
	sev := types.IssueMinor
	if len(styles) > 2 {
		sev = types.IssueModerate
	}
	return []finding{{
		issueType:      IssueHeaderCasing,
		severity:       sev,
		description:    fmt.Sprintf("Section headings use %d different casing styles", len(styles)),
		recommendation: "Use one casing style for every section heading",
	}}
}

func casingStyle(heading string) string {
	switch {
	case heading == strings.ToUpper(heading):
		return "upper"
	case heading == strings.ToLower(heading):
		return "lower"
	}
	for _, w := range strings.Fields(heading) {
		r := []rune(w)
		if len(r) > 0 && unicode.IsLower(r[0]) && len(w) > 3 {
			return "mixed"
		}
	}
	return "title"
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
