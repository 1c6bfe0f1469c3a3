// Package observability provides logging setup and formatted summaries for CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-scorer/internal/scoring"
	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer writes human-readable summaries
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	inner := boxWidth - 4
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to n runes; fmt widths count bytes, not runes.
func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

// bar renders pct (0-100) as a 20-cell bar.
func bar(pct float64) string {
	filled := int(pct/5 + 0.5)
	filled = max(0, min(filled, 20))
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}

// list appends up to limit items, then a count of the rest.
func list(sb *strings.Builder, items []string, limit int, prefix string) {
	for i, item := range items {
		if i == limit {
			fmt.Fprintf(sb, "%s... and %d more\n", prefix, len(items)-limit)
			return
		}
		fmt.Fprintf(sb, "%s• %s\n", prefix, item)
	}
}

// PrintScore outputs the headline score, the tier breakdown and the top fixes.
func (p *Printer) PrintScore(res *scoring.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	f := res.Final
	fmt.Fprintf(&sb, "Overall:     %.1f / 100  (%s)\n", f.Overall, f.MatchBand)
	fmt.Fprintf(&sb, "Interview:   %s\n", f.InterviewProbabilityRange)
	fmt.Fprintf(&sb, "Confidence:  %s\n", f.Confidence)
	fmt.Fprintf(&sb, "Mode:        %s   Level: %s\n", res.Mode, res.Level)
	if !res.Trustworthy {
		sb.WriteString("\n! Input failed the quality gate; treat this score as provisional.\n")
	}
	sb.WriteString("\n")

	for _, t := range res.Tiers {
		marker := ""
		if t.Degraded {
			marker = " *"
		}
		fmt.Fprintf(&sb, "%2d %-22s %s %5.1f%%%s\n", t.TierNumber, truncate(t.Name, 22), bar(t.Percentage), t.Percentage, marker)
	}

	if cm := res.CriticalMetrics; cm != nil {
		fmt.Fprintf(&sb, "\nBig 5: %.1f / %.0f\n", cm.TotalScore, cm.MaxScore)
	}
	if res.RedFlags.TotalPenalty > 0 {
		fmt.Fprintf(&sb, "Red flags: %d (-%d)\n", len(res.RedFlags.Flags), res.RedFlags.TotalPenalty)
	}

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))

	if issues := topIssues(res); len(issues) > 0 {
		var fixes strings.Builder
		list(&fixes, issues, maxItemsToShow, "")
		p.printBox("TOP FIXES", strings.TrimSuffix(fixes.String(), "\n"))
	}
	if len(res.MissingKeywords) > 0 {
		p.PrintMissingKeywords(res.MissingKeywords)
	}
	if len(res.Warnings) > 0 {
		var w strings.Builder
		list(&w, res.Warnings, maxItemsToShow, "")
		p.printBox("WARNINGS", strings.TrimSuffix(w.String(), "\n"))
	}
}

// topIssues gathers the first issue of each tier, weakest tiers first.
func topIssues(res *scoring.Result) []string {
	tiers := append([]types.TierScore(nil), res.Tiers...)
	for i := 1; i < len(tiers); i++ {
		for j := i; j > 0 && tiers[j].Percentage < tiers[j-1].Percentage; j-- {
			tiers[j], tiers[j-1] = tiers[j-1], tiers[j]
		}
	}
	var out []string
	for _, t := range tiers {
		if len(t.TopIssues) > 0 {
			out = append(out, t.TopIssues[0])
		}
	}
	return out
}

// PrintMissingKeywords outputs job keywords absent from the resume.
func (p *Printer) PrintMissingKeywords(keywords []types.MissingKeyword) {
	if len(keywords) == 0 {
		return
	}
	var sb strings.Builder
	for i, k := range keywords {
		if i == maxItemsToShow*2 {
			fmt.Fprintf(&sb, "... and %d more\n", len(keywords)-i)
			break
		}
		fmt.Fprintf(&sb, "%-20s %-14s → %s\n", truncate(k.Keyword, 20), k.Tier, k.SuggestedPlacement)
	}
	p.printBox("MISSING KEYWORDS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuality outputs the input quality gate result.
func (p *Printer) PrintQuality(q types.InputQualityAssessment) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Quality:  %s (%d/100)\n", q.Quality, q.QualityScore)
	fmt.Fprintf(&sb, "Valid:    %t\n", q.IsValid)
	if len(q.Issues) > 0 {
		sb.WriteString("\nIssues:\n")
		list(&sb, q.Issues, maxItemsToShow, "  ")
	}
	p.printBox("INPUT QUALITY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSections outputs detected and missing sections.
func (p *Printer) PrintSections(a *types.SectionAnalysis) {
	if a == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Present:  %s\n", strings.Join(a.Present, ", "))
	fmt.Fprintf(&sb, "Missing:  %s\n", strings.Join(a.Missing, ", "))
	fmt.Fprintf(&sb, "Order:    %s\n", map[bool]string{true: "conventional", false: "unconventional"}[a.OrderCorrect])
	for _, issue := range a.OrderIssues {
		fmt.Fprintf(&sb, "  • %s (-%d)\n", issue.Recommendation, issue.PenaltyPoints)
	}
	p.printBox("SECTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRole outputs a role classification.
func (p *Printer) PrintRole(r types.RoleClassification) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Role:       %s\n", r.RoleType)
	if len(r.SecondaryRoles) > 0 {
		fmt.Fprintf(&sb, "Also:       %s\n", strings.Join(r.SecondaryRoles, ", "))
	}
	fmt.Fprintf(&sb, "Domain:     %s\n", r.DomainType)
	fmt.Fprintf(&sb, "Seniority:  %s (%.0f%%)\n", r.Seniority, r.SeniorityConfidence*100)
	fmt.Fprintf(&sb, "Tone:       %s\n", r.Tone)
	if len(r.FocusAreas) > 0 {
		fmt.Fprintf(&sb, "Focus:      %s\n", strings.Join(r.FocusAreas, ", "))
	}
	p.printBox("ROLE CLASSIFICATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFormatting outputs formatting issues by severity.
func (p *Printer) PrintFormatting(a types.FormattingAssessment) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Score:  %.0f / 100   ATS: %s\n", a.OverallScore, a.ATSCompatibility)
	if a.Fallback {
		fmt.Fprintf(&sb, "! Analysis failed: %s\n", a.FallbackReason)
	}
	for _, i := range a.Issues {
		fmt.Fprintf(&sb, "\n[%s] %s\n  → %s\n", i.Severity, i.Description, i.Recommendation)
	}
	if len(a.Violations) > 0 {
		sb.WriteString("\nSelf-check violations:\n")
		for _, v := range a.Violations {
			fmt.Fprintf(&sb, "  • %s: %s\n", v.Type, v.Details)
		}
	}
	p.printBox("FORMATTING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvidence outputs the evidence-locked components and the blocked ones.
func (p *Printer) PrintEvidence(e types.EvidenceLockedScore) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Evidence-locked score: %.1f  (%s)\n\n", e.Overall, e.RoleCategory)
	for _, c := range e.Components {
		fmt.Fprintf(&sb, "%-24s %5.1f / %-5.1f %d evidence\n", truncate(c.Name, 24), c.Score, c.MaxScore, len(c.Evidence))
	}
	if len(e.BlockedScores) > 0 {
		sb.WriteString("\nBlocked:\n")
		for _, b := range e.BlockedScores {
			fmt.Fprintf(&sb, "  • %s: %s\n", b.Component, b.Reason)
		}
	}
	p.printBox("EVIDENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBulletFixes outputs before and after text for each fixed bullet.
func (p *Printer) PrintBulletFixes(fixes []types.BulletFix) {
	if len(fixes) == 0 {
		p.printBox("BULLET FIXES", "All bullets fit the length budget.")
		return
	}
	var sb strings.Builder
	for i, f := range fixes {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[%s] %s\n", f.Strategy, f.Before)
		for _, a := range f.After {
			fmt.Fprintf(&sb, "  → %s\n", a)
		}
		if len(f.LostMetrics) > 0 {
			fmt.Fprintf(&sb, "  ! lost metrics: %s\n", strings.Join(f.LostMetrics, ", "))
		}
	}
	p.printBox(fmt.Sprintf("BULLET FIXES (%d)", len(fixes)), strings.TrimSuffix(sb.String(), "\n"))
}
