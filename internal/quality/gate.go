// Package quality decides whether resume input carries enough content to be scored
// and scales scores by how trustworthy the input is.
package quality

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-scorer/internal/analyzers"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Issue messages
const (
	IssueTooShort     = "Resume text too short"
	IssueNoContent    = "No substantive content detected"
	IssueNoContact    = "No contact information found"
	IssueNoSkills     = "No skills section or recognizable skills"
	IssueNoExperience = "No work experience or projects"
	IssueFewBullets   = "Too few bullet points to evaluate impact"
)

const (
	minWords        = 50
	minValidScore   = 20
	fresherBonus    = 5.0
	fresherMinSkill = 5
	minSkillSignals = 3
)

// Content points per detected area.
const (
	contactPoints    = 5
	skillsPoints     = 8
	educationPoints  = 5
	experiencePoints = 7
	projectsPoints   = 5
)

var multipliers = map[types.QualityTier]float64{
	types.QualityExcellent: 1.0,
	types.QualityGood:      0.95,
	types.QualityFair:      0.85,
	types.QualityPoor:      0.65,
	types.QualityInvalid:   0.40,
}

// Multiplier returns the score multiplier for a quality tier.
func Multiplier(q types.QualityTier) float64 {
	if m, ok := multipliers[q]; ok {
		return m
	}
	return multipliers[types.QualityInvalid]
}

// AssessInputQuality rates how much scoreable content the input carries.
func AssessInputQuality(text string, data *types.ResumeData) types.InputQualityAssessment {
	if text == "" && data != nil {
		text = data.Text()
	}
	return Assess(text, data, sections.Detect(text))
}

// Assess is AssessInputQuality with a precomputed section analysis. Input under 50 words
// is invalid only when it also has no sections and no bullets; otherwise its tier is capped at fair.
func Assess(text string, data *types.ResumeData, sec *types.SectionAnalysis) types.InputQualityAssessment {
	m := contentMetrics(text, data, sec)
	issues := []string{}

	score := wordPoints(m.WordCount)
	if m.WordCount < minWords {
		issues = append(issues, IssueTooShort)
	}

	if m.HasContactInfo {
		score += contactPoints
	} else {
		issues = append(issues, IssueNoContact)
	}
	if m.HasSkills {
		score += skillsPoints
	} else {
		issues = append(issues, IssueNoSkills)
	}
	if m.HasEducation {
		score += educationPoints
	}
	if m.HasExperience {
		score += experiencePoints
	}
	if m.HasProjects {
		score += projectsPoints
	}
	if !m.HasExperience && !m.HasProjects {
		issues = append(issues, IssueNoExperience)
	}

	score += bulletPoints(m.BulletCount) + skillPoints(m.UniqueSkillCount)
	score += sectionPoints(m.SectionCount)

	noContent := m.SectionCount == 0 && m.BulletCount == 0
	if noContent {
		issues = append(issues, IssueNoContent)
	} else if m.BulletCount < 3 {
		issues = append(issues, IssueFewBullets)
	}

	a := types.InputQualityAssessment{
		QualityScore:   score,
		Issues:         issues,
		ContentMetrics: m,
	}
	a.IsValid = score >= minValidScore && !(m.WordCount < minWords && noContent)
	a.Quality = tierFor(score)
	switch {
	case !a.IsValid:
		a.Quality = types.QualityInvalid
	case m.WordCount < minWords && a.Quality.Rank() > types.QualityFair.Rank():
		a.Quality = types.QualityFair
	}
	return a
}

// CalculateAdjustedScore scales base by the input-quality multiplier and adds a bonus for
// freshers whose resume shows projects and a broad skill set.
func CalculateAdjustedScore(base float64, q types.InputQualityAssessment, level types.CandidateLevel) float64 {
	adjusted := base * Multiplier(q.Quality)
	if level == types.LevelFresher && q.Quality != types.QualityInvalid &&
		q.ContentMetrics.HasProjects && q.ContentMetrics.UniqueSkillCount >= fresherMinSkill {
		adjusted += fresherBonus
	}
	return math.Max(0, math.Min(100, math.Round(adjusted*10)/10))
}

// Summary is a one-line description of an assessment.
func Summary(a types.InputQualityAssessment) string {
	return fmt.Sprintf("%s input (%d/100, %d words)", a.Quality, a.QualityScore, a.ContentMetrics.WordCount)
}

func contentMetrics(text string, data *types.ResumeData, sec *types.SectionAnalysis) types.ContentMetrics {
	skills := analyzers.AnalyzeSkills(text, data, sec)
	projects := analyzers.AnalyzeProjects(data, sec)
	bullets := analyzers.ExperienceBullets(text, data, sec)

	m := types.ContentMetrics{
		WordCount:        analyzers.WordCount(text),
		HasContactInfo:   analyzers.AnalyzeContact(text, data, sec).HasContactInfo(),
		HasSkills:        skills.HasSkillsSection || skills.UniqueCount >= minSkillSignals,
		HasEducation:     sec.Has(types.SectionEducation),
		HasExperience:    sec.Has(types.SectionExperience),
		HasProjects:      projects.Count > 0,
		BulletCount:      len(bullets) + projects.BulletCount,
		UniqueSkillCount: skills.UniqueCount,
	}
	if data != nil {
		m.HasEducation = m.HasEducation || len(data.Education) > 0
		m.HasExperience = m.HasExperience || len(data.WorkExperience) > 0
	}
	if sec != nil {
		for _, s := range sec.Present {
			if s != types.SectionHeader {
				m.SectionCount++
			}
		}
	}
	return m
}

func wordPoints(words int) int {
	switch {
	case words < minWords:
		return 0
	case words < 100:
		return 5
	case words < 200:
		return 10
	case words < 400:
		return 15
	default:
		return 20
	}
}

func bulletPoints(n int) int {
	switch {
	case n == 0:
		return 0
	case n <= 2:
		return 5
	case n <= 5:
		return 10
	default:
		return 15
	}
}

func skillPoints(n int) int {
	switch {
	case n == 0:
		return 0
	case n <= 2:
		return 3
	case n <= 4:
		return 6
	case n <= 9:
		return 10
	default:
		return 15
	}
}

func sectionPoints(n int) int {
	if n >= 4 {
		return 20
	}
	return n * 5
}

func tierFor(score int) types.QualityTier {
	switch {
	case score >= 80:
		return types.QualityExcellent
	case score >= 60:
		return types.QualityGood
	case score >= 40:
		return types.QualityFair
	case score >= 20:
		return types.QualityPoor
	default:
		return types.QualityInvalid
	}
}
