package tiers

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/types"
)

// MaxScore is the raw ceiling of every tier.
const MaxScore = 10.0

const (
	maxSummaryWords  = 80
	targetBullets    = 6
	minBodyShare     = 0.4
	minSkills        = 8
	maxSkills        = 25
	grammarTolerance = 4
	penaltyPerPoint  = 3
	elitePrestige    = 85
	strongPrestige   = 70
)

// competitiveSignals are the achievement kinds rewarded by the competitive tier.
var competitiveSignals = []struct {
	kind   string
	points float64
}{
	{"awards", 2},
	{"open_source", 2},
	{"publications", 1.5},
	{"patents", 1.5},
	{"leadership", 1.5},
	{"hackathons", 1},
}

func tables() *rubric.Rubric {
	return rubric.Default()
}

// Analyzer scores one tier from a Context.
type Analyzer struct {
	Key     types.TierKey
	Analyze func(*Context) types.TierScore
}

// All returns the ten analyzers in tier order.
func All() []Analyzer {
	return []Analyzer{
		{types.TierBasicStructure, BasicStructure},
		{types.TierContentStructure, ContentStructure},
		{types.TierExperience, Experience},
		{types.TierEducation, Education},
		{types.TierSkillsKeywords, SkillsKeywords},
		{types.TierProjects, Projects},
		{types.TierContentQuality, ContentQuality},
		{types.TierFormatting, Formatting},
		{types.TierRedFlags, RedFlags},
		{types.TierCompetitive, Competitive},
	}
}

// Neutral is the half-score stand-in for a tier whose analyzer failed.
func Neutral(key types.TierKey, reason string) types.TierScore {
	ts := types.NewTierScore(key, MaxScore/2, MaxScore, 0, 0, 0, []string{"Analysis unavailable for this section"})
	ts.Degraded = true
	ts.FallbackReason = reason
	return ts
}

// tally accumulates points, pass counts and issues for one tier.
type tally struct {
	score  float64
	passed int
	total  int
	issues []string
}

// check awards points when ok holds and records issue otherwise.
func (t *tally) check(points float64, ok bool, issue string) {
	t.total++
	if ok {
		t.passed++
		t.score += points
		return
	}
	t.note(issue)
}

// scale awards points×frac for a continuous metric. It passes at frac >= passAt.
func (t *tally) scale(points, frac, passAt float64, issue string) {
	frac = math.Max(0, math.Min(frac, 1))
	t.total++
	t.score += points * frac
	if frac >= passAt {
		t.passed++
		return
	}
	t.note(issue)
}

func (t *tally) note(issues ...string) {
	for _, i := range issues {
		if i != "" {
			t.issues = append(t.issues, i)
		}
	}
}

func (t *tally) result(key types.TierKey) types.TierScore {
	return types.NewTierScore(key, round1(t.score), MaxScore, 0, t.passed, t.total, t.issues)
}

// BasicStructure scores contact details and the presence of the essential sections.
func BasicStructure(c *Context) types.TierScore {
	ct := c.Contact()
	sec := c.Sections()

	var t tally
	t.check(1, ct.HasName, "Add your full name at the top")
	t.check(2, ct.HasEmail, "Add a professional email address")
	t.check(1.5, ct.HasPhone, "Add a phone number")
	t.check(1, ct.HasLinkedIn || ct.HasGitHub || ct.HasPortfolio, "Add a LinkedIn, GitHub or portfolio link")
	t.check(0.5, ct.HasLocation, "Add your city or region")
	t.check(1, sec.Has(types.SectionExperience) || sec.Has(types.SectionProjects), "Add an experience or projects section")
	t.check(1, sec.Has(types.SectionEducation), "Add an education section")
	t.check(1, sec.Has(types.SectionSkills), "Add a skills section")
	t.check(1, sec.Has(types.SectionSummary), "Add a short professional summary")
	return t.result(types.TierBasicStructure)
}

// ContentStructure scores section order, the summary, bullet usage and content balance.
func ContentStructure(c *Context) types.TierScore {
	sec := c.Sections()
	var t tally

	if sec.OrderCorrect {
		t.check(3, true, "")
	} else {
		t.scale(3, 1-float64(len(sec.OrderIssues))/3, 1, "")
		for _, oi := range sec.OrderIssues {
			t.note(oi.Recommendation)
		}
	}

	summaryWords := sec.WordCounts[types.SectionSummary]
	switch {
	case !sec.Has(types.SectionSummary):
		t.check(2, false, "Open with a two or three line summary")
	case summaryWords > maxSummaryWords:
		t.score++
		t.check(0, false, fmt.Sprintf("Summary is %d words; keep it under %d", summaryWords, maxSummaryWords))
	default:
		t.check(2, true, "")
	}

	bullets := 0
	for _, n := range sec.BulletCounts {
		bullets += n
	}
	t.scale(3, float64(bullets)/targetBullets, 1, "Use bullet points to describe your work")

	words, body := 0, 0
	for name, n := range sec.WordCounts {
		words += n
		if name == types.SectionExperience || name == types.SectionProjects {
			body += n
		}
	}
	share := 0.0
	if words > 0 {
		share = float64(body) / float64(words)
	}
	t.scale(2, share/minBodyShare, 1, "Most of the resume should describe experience or projects")
	return t.result(types.TierContentStructure)
}

// Experience scores bullet impact, metrics, action verbs and achievement focus.
func Experience(c *Context) types.TierScore {
	m := c.Experience()
	var t tally
	if m.BulletCount == 0 {
		t.check(MaxScore, false, "No experience bullets found")
		t.note(m.Issues...)
		return t.result(types.TierExperience)
	}

	t.scale(4, m.AverageImpact/100, 0.6, "Lead bullets with an action verb and a measurable result")
	t.scale(2, m.MetricsRatio, 0.5, "Quantify more bullets with numbers, percentages or money")
	t.scale(2, m.ActionVerbRatio, 0.7, "Start more bullets with a strong action verb")
	t.scale(2, m.AchievementRatio, 0.5, "Describe achievements rather than responsibilities")
	t.note(m.Issues...)
	return t.result(types.TierExperience)
}

// Education blends the degree rubric with certifications.
func Education(c *Context) types.TierScore {
	m := c.Education()
	var t tally
	t.scale(6, m.EducationScore/MaxScore, 0.6, "")
	t.scale(4, m.CertificationScore/MaxScore, 0.5, "")
	t.note(m.Issues...)
	return t.result(types.TierEducation)
}

// SkillsKeywords scores job-description keyword coverage in JD mode and skill breadth otherwise.
func SkillsKeywords(c *Context) types.TierScore {
	skills := c.Skills()
	q := c.Quality()
	var t tally

	if km := c.Keywords(); km != nil && len(km.Keywords) > 0 {
		t.scale(6, km.WeightedRatio, 0.7, fmt.Sprintf("Resume matches %d of %d job keywords", len(km.Matched), len(km.Keywords)))
		t.scale(2, q.TechStackCompleteness/100, 0.6, "Round out your tech stack")
		t.scale(2, skillBand(skills.UniqueCount)/2, 1, skillBandIssue(skills.UniqueCount))
		var critical []string
		for _, k := range km.Missing {
			if k.Tier == types.KeywordCritical {
				critical = append(critical, k.Term)
			}
		}
		if len(critical) > 0 {
			t.note("Missing critical keywords: " + strings.Join(critical, ", "))
		}
		return t.result(types.TierSkillsKeywords)
	}

	t.scale(5, q.TechStackCompleteness/100, 0.6, "Round out your tech stack")
	t.scale(3, skillBand(skills.UniqueCount)/2, 1, skillBandIssue(skills.UniqueCount))
	t.check(2, skills.HasSkillsSection, "Add a dedicated skills section")
	return t.result(types.TierSkillsKeywords)
}

// skillBand rates the number of listed skills on 0-2; 8-25 is the sweet spot.
func skillBand(n int) float64 {
	switch {
	case n >= minSkills && n <= maxSkills:
		return 2
	case n >= 5:
		return 1
	default:
		return 0
	}
}

func skillBandIssue(n int) string {
	switch {
	case n > maxSkills:
		return fmt.Sprintf("%d skills listed; trim to the %d most relevant", n, maxSkills)
	case n < minSkills:
		return fmt.Sprintf("Only %d skills listed; aim for at least %d", n, minSkills)
	}
	return ""
}

// Projects scores project count and depth.
func Projects(c *Context) types.TierScore {
	m := c.Projects()
	var t tally
	if m.Count == 0 {
		t.check(MaxScore, false, "")
		t.note(m.Issues...)
		return t.result(types.TierProjects)
	}

	count := 0.6
	switch {
	case m.Count >= 3:
		count = 1
	case m.Count == 2:
		count = 0.9
	}
	n := float64(m.Count)
	t.scale(5, count, 0.9, "")
	t.scale(2, float64(m.WithTechStack)/n, 1, "")
	t.scale(2, float64(m.WithMetrics)/n, 0.5, "")
	t.scale(1, float64(m.WithLinks)/n, 0.5, "")
	t.note(m.Issues...)
	return t.result(types.TierProjects)
}

// ContentQuality scores bullet clarity, grammar and date consistency.
func ContentQuality(c *Context) types.TierScore {
	q := c.Quality()
	var t tally

	if len(q.BulletClarity) == 0 {
		t.check(5, false, "No bullets to assess for clarity")
	} else {
		t.scale(5, q.AverageClarity/100, 0.7, "Tighten bullets: 10-25 words, one idea, a clear verb")
	}
	t.scale(3, 1-float64(q.GrammarIssues)/grammarTolerance, 1, "")
	t.note(q.GrammarFindings...)
	t.check(2, q.DateConsistent, fmt.Sprintf("Use one date format (found %s)", strings.Join(q.DateFormats, ", ")))
	return t.result(types.TierContentQuality)
}

// Formatting maps the formatting assessment onto the tier scale.
func Formatting(c *Context) types.TierScore {
	a := c.Formatting()
	var t tally
	t.scale(MaxScore, a.OverallScore/100, 0.85, "")
	for _, i := range a.Issues {
		t.note(i.Recommendation)
	}
	ts := t.result(types.TierFormatting)
	if a.Fallback {
		ts.Degraded = true
		ts.FallbackReason = a.FallbackReason
	}
	return ts
}

// RedFlags starts at full marks and loses one point per three penalty points.
func RedFlags(c *Context) types.TierScore {
	r := c.RedFlags()
	flagged := make(map[string]bool, len(r.Flags))
	for _, f := range r.Flags {
		flagged[f.Type] = true
	}

	var t tally
	t.score = math.Max(0, MaxScore-float64(r.TotalPenalty)/penaltyPerPoint)
	t.total = len(tables().RedFlags.Flags)
	t.passed = t.total - len(flagged)
	for _, f := range r.Flags {
		t.note(f.Recommendation)
	}
	return t.result(types.TierRedFlags)
}

// Competitive rewards signals that set a candidate apart. The sum is capped at MaxScore.
func Competitive(c *Context) types.TierScore {
	a := c.Achievements()
	edu := c.Education()

	var t tally
	for _, s := range competitiveSignals {
		t.check(s.points, a.Has(s.kind), "")
	}
	t.check(1, len(edu.RecognizedCertifications) > 0, "")
	switch {
	case edu.PrestigeScore >= elitePrestige:
		t.check(1.5, true, "")
	case edu.PrestigeScore >= strongPrestige:
		t.score += 0.75
		t.check(0, false, "")
	default:
		t.check(1.5, false, "")
	}
	if t.passed == 0 {
		t.note("Add awards, open-source work, publications or leadership to stand out")
	}
	return t.result(types.TierCompetitive)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
