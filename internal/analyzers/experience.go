package analyzers

import (
	"fmt"
	"math"
	"sort"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Impact score bonuses, summed per bullet and capped at maxImpact.
const (
	strongVerbPoints        = 30
	metricPoints            = 25
	achievementPhrasePoints = 20
	noResponsibilityPoints  = 15
	businessImpactPoints    = 10
	maxImpact               = 100
)

// BulletKind classifies a bullet as achievement- or responsibility-oriented.
type BulletKind string

// BulletKind constants
const (
	KindAchievement    BulletKind = "achievement"
	KindResponsibility BulletKind = "responsibility"
	KindUnclassified   BulletKind = "unclassified"
)

// BulletImpact is the scored breakdown of one bullet.
type BulletImpact struct {
	Text              string     `json:"text"`
	Score             int        `json:"score"`
	StrongVerb        bool       `json:"strong_verb"`
	HasMetric         bool       `json:"has_metric"`
	HasAchievement    bool       `json:"has_achievement"`
	HasResponsibility bool       `json:"has_responsibility"`
	HasBusinessImpact bool       `json:"has_business_impact"`
	Kind              BulletKind `json:"kind"`
}

// ExperienceMetrics summarises the experience section.
type ExperienceMetrics struct {
	Bullets             []BulletImpact `json:"bullets"`
	BulletCount         int            `json:"bullet_count"`
	AverageImpact       float64        `json:"average_impact"`
	MetricsRatio        float64        `json:"metrics_ratio"`
	ActionVerbRatio     float64        `json:"action_verb_ratio"`
	AchievementCount    int            `json:"achievement_count"`
	ResponsibilityCount int            `json:"responsibility_count"`
	AchievementRatio    float64        `json:"achievement_ratio"`
	PositionCount       int            `json:"position_count"`
	HasDates            bool           `json:"has_dates"`
	YearsOfExperience   float64        `json:"years_of_experience"`
	GapsMonths          []int          `json:"gaps_months,omitempty"`
	ShortTenures        int            `json:"short_tenures"`
	Titles              []string       `json:"titles,omitempty"`
	Issues              []string       `json:"issues"`
}

// ScoreBullet computes the impact score and classification for one bullet.
func ScoreBullet(bullet string) BulletImpact {
	r := tables()
	lang := &r.Language

	b := BulletImpact{Text: bullet}
	b.StrongVerb = lang.IsStrongVerb(FirstWord(bullet))
	b.HasMetric = r.Metrics.HasMetric(bullet)
	_, b.HasAchievement = rubric.ContainsAny(bullet, lang.AchievementPhrases)
	_, b.HasResponsibility = rubric.ContainsAny(bullet, lang.ResponsibilityPhrases)
	_, b.HasBusinessImpact = rubric.ContainsAny(bullet, lang.BusinessImpactKeywords)

	score := 0
	if b.StrongVerb {
		score += strongVerbPoints
	}
	if b.HasMetric {
		score += metricPoints
	}
	if b.HasAchievement {
		score += achievementPhrasePoints
	}
	if !b.HasResponsibility {
		score += noResponsibilityPoints
	}
	if b.HasBusinessImpact {
		score += businessImpactPoints
	}
	if score > maxImpact {
		score = maxImpact
	}
	b.Score = score

	switch {
	case b.HasMetric || b.HasAchievement:
		b.Kind = KindAchievement
	case b.HasResponsibility:
		b.Kind = KindResponsibility
	default:
		b.Kind = KindUnclassified
	}
	return b
}

// ExperienceBullets returns the bullets attributed to work experience.
func ExperienceBullets(text string, data *types.ResumeData, sec *types.SectionAnalysis) []string {
	if data != nil && len(data.WorkExperience) > 0 {
		var bullets []string
		for _, exp := range data.WorkExperience {
			bullets = append(bullets, exp.Bullets...)
		}
		return dedupe(bullets)
	}
	body := sectionOrText(text, sec, types.SectionExperience)
	if !sec.Has(types.SectionExperience) {
		return ExtractBullets(body)
	}
	return sectionBullets(body)
}

// AnalyzeExperience extracts experience metrics from text and optional structured data.
func AnalyzeExperience(text string, data *types.ResumeData, sec *types.SectionAnalysis) ExperienceMetrics {
	r := tables()
	m := ExperienceMetrics{Bullets: []BulletImpact{}, Issues: []string{}}

	bullets := ExperienceBullets(text, data, sec)
	m.BulletCount = len(bullets)

	weakStarts := make(map[string]int)
	var impactTotal, metricCount, verbCount int
	for _, bullet := range bullets {
		b := ScoreBullet(bullet)
		m.Bullets = append(m.Bullets, b)
		impactTotal += b.Score
		if b.HasMetric {
			metricCount++
		}
		if b.StrongVerb {
			verbCount++
		}
		switch b.Kind {
		case KindAchievement:
			m.AchievementCount++
		case KindResponsibility:
			m.ResponsibilityCount++
		}
		for _, phrase := range r.Language.ResponsibilityPhrases {
			if hasPrefixFold(bullet, phrase) {
				weakStarts[phrase]++
				break
			}
		}
	}

	if m.BulletCount > 0 {
		m.AverageImpact = math.Round(float64(impactTotal)/float64(m.BulletCount)*10) / 10
	}
	m.MetricsRatio = ratio(metricCount, m.BulletCount)
	m.ActionVerbRatio = ratio(verbCount, m.BulletCount)
	if classified := m.AchievementCount + m.ResponsibilityCount; classified > 0 {
		m.AchievementRatio = ratio(m.AchievementCount, classified)
	} else {
		m.AchievementRatio = 0.5
	}

	analyzeTenure(&m, data, sec, r.RedFlags.GapMonths, r.RedFlags.ShortTenureMonths)
	m.Issues = append(m.Issues, experienceIssues(m, weakStarts)...)
	return m
}

func analyzeTenure(m *ExperienceMetrics, data *types.ResumeData, sec *types.SectionAnalysis, gapLimit, shortLimit int) {
	var ranges []DateRange
	if data != nil && len(data.WorkExperience) > 0 {
		m.PositionCount = len(data.WorkExperience)
		for _, exp := range data.WorkExperience {
			m.Titles = append(m.Titles, exp.Role)
			ranges = append(ranges, ParseDateRanges(exp.Year)...)
		}
	} else if sec.Has(types.SectionExperience) {
		body := sec.Content(types.SectionExperience)
		ranges = ParseDateRanges(body)
		m.PositionCount = len(ranges)
		m.Titles = entryTitles(body)
		if m.PositionCount == 0 && len(m.Titles) > 0 {
			m.PositionCount = len(m.Titles)
		}
	}

	m.HasDates = len(ranges) > 0
	for _, rg := range ranges {
		if rg.Months() < shortLimit {
			m.ShortTenures++
		}
	}
	merged := mergeRanges(ranges)
	total := 0
	for _, rg := range merged {
		total += rg.Months()
	}
	m.YearsOfExperience = math.Round(float64(total)/12*10) / 10
	m.GapsMonths = gapsOver(merged, gapLimit)
}

// entryTitles returns lines in an experience body that look like position headings.
func entryTitles(body string) []string {
	var titles []string
	for _, line := range splitLines(body) {
		if titleLine.MatchString(line) {
			titles = append(titles, line)
		}
	}
	return titles
}

func experienceIssues(m ExperienceMetrics, weakStarts map[string]int) []string {
	var issues []string
	if m.BulletCount == 0 {
		return []string{"No experience bullets found"}
	}

	phrases := make([]string, 0, len(weakStarts))
	for p := range weakStarts {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)
	for _, p := range phrases {
		issues = append(issues, fmt.Sprintf("%d bullet(s) start with weak phrase %q", weakStarts[p], p))
	}

	if m.MetricsRatio < 0.5 {
		issues = append(issues, fmt.Sprintf("Only %.0f%% of bullets include quantified results", m.MetricsRatio*100))
	}
	if m.ActionVerbRatio < 0.5 {
		issues = append(issues, "Fewer than half of bullets start with a strong action verb")
	}
	if m.AchievementRatio < 0.5 {
		issues = append(issues, "Bullets describe responsibilities more than achievements")
	}
	return issues
}
