package analyzers

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/resume-scorer/internal/rubric"
)

// nonTechnicalCompleteness is reported for roles where a tech stack is not expected.
const nonTechnicalCompleteness = 85.0

var (
	doublePunctuation = regexp.MustCompile(`[,;:!?]{2,}|[,;:]\.|\.[,;:]|\.\.\s`)
	doubleSpace       = regexp.MustCompile(`\S {2,}\S`)
	caseTransition    = regexp.MustCompile(`[a-z][.!?]\s+[a-z]`)
	pronounI          = regexp.MustCompile(`(^|[^A-Za-z])I([^A-Za-z.]|$)`)
)

// dateFormats are the recognised date styles; mixing more than one is inconsistent.
var dateFormats = []struct {
	name string
	re   *regexp.Regexp
}{
	{"month_abbrev_year", regexp.MustCompile(`\b(Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+(19|20)\d{2}\b`)},
	{"month_full_year", regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(19|20)\d{2}\b`)},
	{"mm_slash_yyyy", regexp.MustCompile(`\b\d{1,2}/(19|20)\d{2}\b`)},
	{"yyyy_dash_mm", regexp.MustCompile(`\b(19|20)\d{2}-\d{2}\b`)},
	{"mm_dash_yyyy", regexp.MustCompile(`\b\d{2}-(19|20)\d{2}\b`)},
}

// presentTenseStems are common bullet verbs whose third-person form signals present tense.
var presentTenseStems = map[string]bool{
	"lead": true, "build": true, "drive": true, "grow": true, "run": true, "write": true,
	"own": true, "manage": true, "develop": true, "design": true, "maintain": true, "create": true,
	"implement": true, "support": true, "deliver": true, "improve": true, "handle": true, "work": true,
}

// QualityMetrics captures writing-quality signals.
type QualityMetrics struct {
	BulletClarity         []float64          `json:"bullet_clarity"`
	AverageClarity        float64            `json:"average_clarity"`
	TechStackCompleteness float64            `json:"tech_stack_completeness"`
	CategoryCoverage      map[string]float64 `json:"category_coverage"`
	NonTechnicalRole      bool               `json:"non_technical_role"`
	FirstPersonCount      int                `json:"first_person_count"`
	GrammarIssues         int                `json:"grammar_issues"`
	GrammarFindings       []string           `json:"grammar_findings"`
	DateFormats           []string           `json:"date_formats"`
	DateConsistent        bool               `json:"date_consistent"`
}

// ClarityScore rates one bullet from 0 to 100.
func ClarityScore(bullet string) float64 {
	r := tables()
	score := 100.0
	length := len(strings.TrimSpace(bullet))
	switch {
	case length < 40:
		score -= 20
	case length > 200:
		score -= 15
	case length > 150:
		score -= 5
	}
	if !r.Language.IsStrongVerb(FirstWord(bullet)) {
		score -= 20
	}
	weak := 0
	for _, w := range strings.Fields(strings.ToLower(bullet)) {
		if r.Language.IsWeakVerb(strings.Trim(w, ".,;:")) {
			weak++
		}
	}
	score -= math.Min(float64(weak)*10, 20)
	if r.Metrics.HasMetric(bullet) {
		score += 10
	}
	return clamp(score, 0, 100)
}

// AnalyzeQuality computes clarity, tech-stack completeness, grammar and date consistency.
// roleContext is the job description or declared role and decides whether a tech stack is expected.
func AnalyzeQuality(text string, bullets []string, roleContext string) QualityMetrics {
	r := tables()
	q := QualityMetrics{
		BulletClarity:    make([]float64, 0, len(bullets)),
		CategoryCoverage: make(map[string]float64),
		GrammarFindings:  []string{},
		DateFormats:      []string{},
	}

	total := 0.0
	for _, b := range bullets {
		c := ClarityScore(b)
		q.BulletClarity = append(q.BulletClarity, c)
		total += c
	}
	if len(bullets) > 0 {
		q.AverageClarity = round1(total / float64(len(bullets)))
	}

	_, q.NonTechnicalRole = rubric.ContainsAny(roleContext, r.Tech.NonTechnicalRoles)
	completeness := 0.0
	for _, cat := range r.Tech.Categories {
		hits := 0
		for _, kw := range cat.Keywords {
			if rubric.ContainsTerm(text, kw) {
				hits++
			}
		}
		coverage := math.Min(float64(hits)/2, 1)
		q.CategoryCoverage[cat.Name] = coverage
		completeness += cat.Weight * coverage * 100
	}
	q.TechStackCompleteness = round1(completeness)
	if q.NonTechnicalRole {
		q.TechStackCompleteness = nonTechnicalCompleteness
	}

	checkGrammar(&q, text, bullets)

	for _, f := range dateFormats {
		if f.re.MatchString(text) {
			q.DateFormats = append(q.DateFormats, f.name)
		}
	}
	q.DateConsistent = len(q.DateFormats) <= 1
	return q
}

func checkGrammar(q *QualityMetrics, text string, bullets []string) {
	r := tables()

	q.FirstPersonCount = len(pronounI.FindAllString(text, -1))
	for _, p := range r.Language.FirstPersonPronouns {
		if p != "i" {
			q.FirstPersonCount += rubric.CountTerm(text, p)
		}
	}
	if q.FirstPersonCount > 0 {
		q.GrammarFindings = append(q.GrammarFindings, "first-person pronouns")
		q.GrammarIssues += q.FirstPersonCount
	}

	var punct, spacing, casing int
	for _, line := range splitLines(text) {
		punct += len(doublePunctuation.FindAllString(line, -1))
		spacing += len(doubleSpace.FindAllString(line, -1))
		casing += len(caseTransition.FindAllString(line, -1))
	}
	if punct > 0 {
		q.GrammarFindings = append(q.GrammarFindings, "double punctuation")
	}
	if spacing > 0 {
		q.GrammarFindings = append(q.GrammarFindings, "double spacing")
	}
	if casing > 0 {
		q.GrammarFindings = append(q.GrammarFindings, "lowercase sentence start")
	}
	q.GrammarIssues += punct + spacing + casing

	if mixedTense(bullets) {
		q.GrammarFindings = append(q.GrammarFindings, "mixed verb tense")
		q.GrammarIssues++
	}
}

// mixedTense reports whether bullets open with both past-tense and present-tense verbs.
func mixedTense(bullets []string) bool {
	lang := &tables().Language
	past, present := 0, 0
	for _, b := range bullets {
		w := FirstWord(b)
		switch {
		case lang.IsStrongVerb(w) || strings.HasSuffix(w, "ed"):
			past++
		case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
			stem := strings.TrimSuffix(w, "s")
			if presentTenseStems[stem] || presentTenseStems[strings.TrimSuffix(stem, "e")] {
				present++
			}
		}
	}
	return past > 0 && present > 0
}
