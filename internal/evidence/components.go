package evidence

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-scorer/internal/analyzers"
	"github.com/jonathan/resume-scorer/internal/formatting"
	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	maxSnippetChars   = 160
	maxEvidence       = 5
	maxBulletEvidence = 3
)

func technicalSkills(ev *rubric.EvidenceTables, in Input, category string) component {
	c := newComponent(ev, ComponentTechnicalSkills)
	if !hasJD(in.JobDescription) {
		return c.block("no job description to compare against")
	}

	var keywords []analyzers.JDKeyword
	for _, k := range analyzers.ExtractJDKeywords(in.JobDescription) {
		if k.Tech {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return c.block("job description names no technical skills")
	}

	c.Score, c.Evidence = weightedMatch(ev, in, keywords, category)
	c.Score = round1(c.Score * c.MaxScore)
	if len(c.Evidence) == 0 {
		return c.block("no technical skill from the job description appears in the resume")
	}
	return c
}

func keywordMatch(ev *rubric.EvidenceTables, in Input, category string) component {
	c := newComponent(ev, ComponentKeywordMatch)
	if !hasJD(in.JobDescription) {
		return c.block("no job description to compare against")
	}
	keywords := analyzers.ExtractJDKeywords(in.JobDescription)
	if len(keywords) == 0 {
		return c.block("no keywords could be extracted from the job description")
	}

	c.Score, c.Evidence = weightedMatch(ev, in, keywords, category)
	c.Score = round1(c.Score * c.MaxScore)
	if len(c.Evidence) == 0 {
		return c.block("no job description keyword appears in the resume")
	}
	return c
}

// weightedMatch returns the weighted share of keywords found in the resume and the evidence
// for each match. The job-description line behind the first match is attached as context.
func weightedMatch(ev *rubric.EvidenceTables, in Input, keywords []analyzers.JDKeyword, category string) (float64, []types.EvidenceSource) {
	evidence := []types.EvidenceSource{}
	var total, matched float64
	firstMatch := ""
	for _, k := range keywords {
		w := analyzers.TierWeight(k.Tier) * ev.KeywordWeight(category, k.Term)
		total += w
		src, ok := findEvidence(in.Text, k.Term)
		if !ok {
			continue
		}
		matched += w
		if firstMatch == "" {
			firstMatch = k.Term
		}
		if len(evidence) < maxEvidence {
			evidence = append(evidence, src)
		}
	}
	if total == 0 {
		return 0, evidence
	}
	if firstMatch != "" {
		evidence = append(evidence, types.EvidenceSource{
			Kind:        types.EvidenceJDText,
			Snippet:     snippet(in.JobDescription, firstMatch),
			Explanation: fmt.Sprintf("job description asks for %q", firstMatch),
		})
	}
	return matched / total, evidence
}

// findEvidence is the hybrid matcher: a literal whole-word hit in the resume, or failing
// that a known synonym of the term.
func findEvidence(text, term string) (types.EvidenceSource, bool) {
	if rubric.ContainsTerm(text, term) {
		return types.EvidenceSource{Kind: types.EvidenceResumeText, Snippet: snippet(text, term)}, true
	}
	for _, alias := range aliases(term) {
		if rubric.ContainsTerm(text, alias) {
			return types.EvidenceSource{
				Kind:        types.EvidenceSemanticMatch,
				Snippet:     snippet(text, alias),
				Explanation: fmt.Sprintf("%q is equivalent to %q", alias, term),
			}, true
		}
	}
	return types.EvidenceSource{}, false
}

// aliases returns the other spellings of term known to the synonym table, sorted.
func aliases(term string) []string {
	tech := &rubric.Default().Tech
	lower := strings.ToLower(term)
	canonical := tech.Canonical(lower)

	set := make(map[string]bool)
	if canonical != lower {
		set[canonical] = true
	}
	for short, long := range tech.Synonyms {
		if long == canonical && short != lower {
			set[short] = true
		}
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func experienceMatch(ev *rubric.EvidenceTables, in Input, sec *types.SectionAnalysis) component {
	c := newComponent(ev, ComponentExperienceMatch)
	bullets := analyzers.ExperienceBullets(in.Text, in.Data, sec)
	if len(bullets) == 0 {
		return c.block("no experience bullets found")
	}

	impacts := make([]analyzers.BulletImpact, 0, len(bullets))
	total := 0
	for _, b := range bullets {
		impact := analyzers.ScoreBullet(b)
		impacts = append(impacts, impact)
		total += impact.Score
	}
	sort.SliceStable(impacts, func(i, j int) bool { return impacts[i].Score > impacts[j].Score })

	coverage := math.Min(float64(len(bullets))/float64(ev.ExperienceTargetBullets), 1)
	avg := float64(total) / float64(len(bullets)) / 100
	c.Score = round1(c.MaxScore * (0.5*coverage + 0.5*avg))

	for _, b := range impacts {
		if len(c.Evidence) == maxBulletEvidence {
			break
		}
		c.Evidence = append(c.Evidence, types.EvidenceSource{
			Kind:        types.EvidenceResumeText,
			Snippet:     truncate(b.Text),
			Explanation: fmt.Sprintf("impact %d/100", b.Score),
		})
	}
	return c
}

func quantifiedAchievements(ev *rubric.EvidenceTables, in Input, sec *types.SectionAnalysis) component {
	c := newComponent(ev, ComponentQuantifiedAchievements)
	metrics := &rubric.Default().Metrics

	bullets := analyzers.ExtractBullets(in.Text)
	bullets = append(bullets, analyzers.ExperienceBullets(in.Text, in.Data, sec)...)
	bullets = append(bullets, in.Data.AllBullets()...)

	seen := make(map[string]bool)
	count := 0
	for _, b := range bullets {
		key := strings.ToLower(strings.TrimSpace(b))
		if seen[key] || !metrics.HasMetric(b) {
			continue
		}
		seen[key] = true
		count++
		if len(c.Evidence) < maxEvidence {
			c.Evidence = append(c.Evidence, types.EvidenceSource{
				Kind:        types.EvidenceResumeText,
				Snippet:     truncate(b),
				Explanation: quantities(metrics.Tokens(b)),
			})
		}
	}
	if count == 0 {
		return c.block("no quantified results found")
	}
	c.Score = round1(c.MaxScore * math.Min(float64(count)/float64(ev.QuantifiedTargetBullets), 1))
	return c
}

func quantities(tokens []string) string {
	if len(tokens) == 0 {
		return "quantified outcome"
	}
	return "quantified: " + strings.Join(tokens, ", ")
}

func formattingComponent(ev *rubric.EvidenceTables, in Input, sec *types.SectionAnalysis) component {
	c := newComponent(ev, ComponentFormatting)
	if analyzers.WordCount(in.Text) == 0 {
		return c.block("no resume text")
	}

	fa := in.Formatting
	if fa == nil {
		a := formatting.AnalyzeText(in.Text)
		fa = &a
	}
	if fa.Fallback {
		return c.block("formatting analysis did not complete: " + fa.FallbackReason)
	}
	c.Score = round1(c.MaxScore * fa.OverallScore / 100)

	shown := strings.Join(sec.Present, ", ")
	if shown == "" {
		shown = firstLine(in.Text)
	}
	c.Evidence = append(c.Evidence, types.EvidenceSource{
		Kind:        types.EvidenceResumeText,
		Snippet:     truncate(shown),
		Explanation: fmt.Sprintf("%d formatting issue(s), ATS compatibility %s", len(fa.Issues), fa.ATSCompatibility),
	})
	return c
}

// snippet returns the first line of text containing term.
func snippet(text, term string) string {
	for _, line := range strings.Split(text, "\n") {
		if rubric.ContainsTerm(line, term) {
			return truncate(strings.TrimSpace(line))
		}
	}
	return term
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxSnippetChars {
		return s
	}
	return string(r[:maxSnippetChars-3]) + "..."
}
