// Package evidence implements evidence-locked scoring: a component counts toward the overall
// score only when it is backed by at least one snippet from the resume or a semantic match.
package evidence

import (
	"math"
	"strings"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Component names
const (
	ComponentTechnicalSkills        = "technical_skills"
	ComponentExperienceMatch        = "experience_match"
	ComponentQuantifiedAchievements = "quantified_achievements"
	ComponentKeywordMatch           = "keyword_match"
	ComponentFormatting             = "formatting"
)

// Role categories
const (
	CategorySoftwareDev  = "software_dev"
	CategoryOpsDataEntry = "ops_data_entry"
	CategoryGeneral      = "general"
)

const defaultBlockReason = "no supporting evidence found"

// Input is everything the evidence-locked scorer can use. Only Text is required.
type Input struct {
	Text           string
	Data           *types.ResumeData
	JobDescription string
	Role           *types.RoleClassification
	// Formatting is reused when the caller already analyzed the document.
	Formatting *types.FormattingAssessment
}

// component is a scored component plus the reason it would be blocked.
type component struct {
	types.ScoredComponent
	reason string
}

func newComponent(ev *rubric.EvidenceTables, name string) component {
	def, _ := ev.Component(name)
	return component{ScoredComponent: types.ScoredComponent{
		Name:     name,
		MaxScore: def.MaxScore,
		Evidence: []types.EvidenceSource{},
	}}
}

func (c component) block(reason string) component {
	c.Score = 0
	c.Evidence = []types.EvidenceSource{}
	c.reason = reason
	return c
}

// ScoreWithEvidence scores resume text against an optional job description and role.
func ScoreWithEvidence(resumeText, jd string, role *types.RoleClassification) types.EvidenceLockedScore {
	return Score(Input{Text: resumeText, JobDescription: jd, Role: role})
}

// Score runs every component and averages only those with evidence.
func Score(in Input) types.EvidenceLockedScore {
	if in.Text == "" && in.Data != nil {
		in.Text = in.Data.Text()
	}
	ev := &rubric.Default().Evidence
	category := RoleCategory(in.JobDescription, in.Role)
	sec := sections.Detect(in.Text)

	parts := []component{
		technicalSkills(ev, in, category),
		experienceMatch(ev, in, sec),
		quantifiedAchievements(ev, in, sec),
		keywordMatch(ev, in, category),
		formattingComponent(ev, in, sec),
	}
	scored := make([]types.ScoredComponent, len(parts))
	reasons := make(map[string]string, len(parts))
	for i, p := range parts {
		scored[i] = p.ScoredComponent
		reasons[p.Name] = p.reason
	}
	return aggregate(scored, category, reasons)
}

// Aggregate computes the overall score from evidence-backed components only. Components
// without evidence are listed in BlockedScores and contribute nothing.
func Aggregate(components []types.ScoredComponent, category string) types.EvidenceLockedScore {
	return aggregate(components, category, nil)
}

func aggregate(components []types.ScoredComponent, category string, reasons map[string]string) types.EvidenceLockedScore {
	out := types.EvidenceLockedScore{
		Components:    make([]types.ScoredComponent, len(components)),
		BlockedScores: []types.BlockedScore{},
		RoleCategory:  category,
	}
	var earned, possible float64
	for i, c := range components {
		c.HasEvidence = len(c.Evidence) > 0
		out.Components[i] = c
		if !c.HasEvidence {
			reason := reasons[c.Name]
			if reason == "" {
				reason = defaultBlockReason
			}
			out.BlockedScores = append(out.BlockedScores, types.BlockedScore{Component: c.Name, Reason: reason})
			continue
		}
		earned += c.Score
		possible += c.MaxScore
	}
	if possible > 0 {
		out.Overall = math.Round(earned/possible*1000) / 10
	}
	return out
}

// RoleCategory picks the keyword weighting profile for a job description and role.
func RoleCategory(jd string, role *types.RoleClassification) string {
	cats := rubric.Default().Evidence.RoleCategories
	if _, ok := rubric.ContainsAny(jd, cats[CategoryOpsDataEntry].Markers); ok {
		return CategoryOpsDataEntry
	}
	if role != nil {
		for _, r := range cats[CategorySoftwareDev].Roles {
			if r == role.RoleType {
				return CategorySoftwareDev
			}
		}
	}
	return CategoryGeneral
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func hasJD(jd string) bool {
	return strings.TrimSpace(jd) != ""
}
