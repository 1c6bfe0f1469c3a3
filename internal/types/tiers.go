package types

import (
	"math"
	"sort"
)

// TierKey is the fixed identity of a scoring tier.
type TierKey string

// The ten scoring tiers, in tier-number order.
const (
	TierBasicStructure   TierKey = "basic_structure"
	TierContentStructure TierKey = "content_structure"
	TierExperience       TierKey = "experience"
	TierEducation        TierKey = "education"
	TierSkillsKeywords   TierKey = "skills_keywords"
	TierProjects         TierKey = "projects"
	TierContentQuality   TierKey = "content_quality"
	TierFormatting       TierKey = "formatting"
	TierRedFlags         TierKey = "red_flags"
	TierCompetitive      TierKey = "competitive"
)

// AllTiers lists every tier key in tier-number order.
var AllTiers = []TierKey{
	TierBasicStructure,
	TierContentStructure,
	TierExperience,
	TierEducation,
	TierSkillsKeywords,
	TierProjects,
	TierContentQuality,
	TierFormatting,
	TierRedFlags,
	TierCompetitive,
}

var tierNames = map[TierKey]string{
	TierBasicStructure:   "Basic Structure",
	TierContentStructure: "Content Structure",
	TierExperience:       "Experience",
	TierEducation:        "Education & Certifications",
	TierSkillsKeywords:   "Skills & Keywords",
	TierProjects:         "Projects",
	TierContentQuality:   "Content Quality",
	TierFormatting:       "Formatting & ATS",
	TierRedFlags:         "Red Flags",
	TierCompetitive:      "Competitive Edge",
}

// Number returns the 1-based tier number, or 0 for an unknown key.
func (k TierKey) Number() int {
	for i, t := range AllTiers {
		if t == k {
			return i + 1
		}
	}
	return 0
}

// Name returns the display name of the tier.
func (k TierKey) Name() string {
	return tierNames[k]
}

// maxTopIssues caps the issue list carried by a TierScore.
const maxTopIssues = 5

// TierScore is the immutable result of one tier analyzer.
type TierScore struct {
	TierNumber           int      `json:"tier_number"`
	Key                  TierKey  `json:"key"`
	Name                 string   `json:"tier_name"`
	Score                float64  `json:"score"`
	MaxScore             float64  `json:"max_score"`
	Percentage           float64  `json:"percentage"`
	Weight               float64  `json:"weight"`
	WeightedContribution float64  `json:"weighted_contribution"`
	MetricsPassed        int      `json:"metrics_passed"`
	MetricsTotal         int      `json:"metrics_total"`
	TopIssues            []string `json:"top_issues"`

	// Degraded marks a neutral fallback produced after an analyzer failure.
	Degraded       bool   `json:"degraded,omitempty"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// NewTierScore builds a TierScore, deriving the percentage and weighted contribution.
// Score is clamped to [0, maxScore]; issues are truncated to the top five.
func NewTierScore(key TierKey, score, maxScore, weight float64, passed, total int, issues []string) TierScore {
	if maxScore <= 0 {
		maxScore = 1
	}
	score = math.Max(0, math.Min(score, maxScore))

	if len(issues) > maxTopIssues {
		issues = issues[:maxTopIssues]
	}
	if issues == nil {
		issues = []string{}
	}

	pct := math.Round(score / maxScore * 100)
	return TierScore{
		TierNumber:           key.Number(),
		Key:                  key,
		Name:                 key.Name(),
		Score:                score,
		MaxScore:             maxScore,
		Percentage:           pct,
		Weight:               weight,
		WeightedContribution: pct * weight / 100,
		MetricsPassed:        passed,
		MetricsTotal:         total,
		TopIssues:            issues,
	}
}

// WithWeight returns a copy of the tier score re-weighted. Percentage is unchanged.
func (t TierScore) WithWeight(weight float64) TierScore {
	t.Weight = weight
	t.WeightedContribution = t.Percentage * weight / 100
	t.TopIssues = append([]string(nil), t.TopIssues...)
	return t
}

// Valid reports whether the record can take part in weighting.
func (t TierScore) Valid() bool {
	return t.Key.Number() > 0 && !math.IsNaN(t.Percentage) && t.Percentage >= 0 && t.Percentage <= 100
}

// TierScores maps tier keys to their scores.
type TierScores map[TierKey]TierScore

// Ordered returns the scores sorted by tier number.
func (ts TierScores) Ordered() []TierScore {
	out := make([]TierScore, 0, len(ts))
	for _, t := range ts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TierNumber < out[j].TierNumber })
	return out
}

// TotalWeight sums the weights of all tiers.
func (ts TierScores) TotalWeight() float64 {
	total := 0.0
	for _, t := range ts {
		total += t.Weight
	}
	return total
}

// WeightedTotal sums the weighted contributions of all tiers.
func (ts TierScores) WeightedTotal() float64 {
	total := 0.0
	for _, t := range ts {
		total += t.WeightedContribution
	}
	return total
}

// DegradedCount returns the number of tiers that fell back to a neutral score.
func (ts TierScores) DegradedCount() int {
	n := 0
	for _, t := range ts {
		if t.Degraded {
			n++
		}
	}
	return n
}
