package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-scorer/internal/analyzers"
	"github.com/jonathan/resume-scorer/internal/roles"
	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/tiers"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Big 5 maxima; they total 19.
const (
	maxKeywordMatch       = 5.0
	maxTechAlignment      = 5.0
	maxQuantified         = 3.0
	maxTitleRelevance     = 3.0
	maxExperienceRelevant = 3.0

	quantifiedTarget = 4
	maxTitleWords    = 8
)

// Big5Max is the highest possible Big 5 total.
const Big5Max = maxKeywordMatch + maxTechAlignment + maxQuantified + maxTitleRelevance + maxExperienceRelevant

func criticalMetric(score, maxScore float64, details string) types.CriticalMetric {
	score = math.Max(0, math.Min(score, maxScore))
	pct := math.Round(score / maxScore * 100)
	return types.CriticalMetric{
		Score:      round1(score),
		MaxScore:   maxScore,
		Percentage: pct,
		Status:     types.StatusForPercentage(pct),
		Details:    details,
	}
}

// CriticalMetrics computes the Big 5 job-fit predictors. jobTitle may be empty, in which case
// the first short line of the job description is used.
func CriticalMetrics(c *tiers.Context, jobTitle string) types.CriticalMetrics {
	m := types.CriticalMetrics{
		JDKeywordMatch:           keywordMatchMetric(c.Keywords()),
		TechnicalSkillsAlignment: techAlignmentMetric(c),
		QuantifiedResults:        quantifiedMetric(c),
		JobTitleRelevance:        titleMetric(c, jobTitle),
		ExperienceRelevance:      experienceMetric(c),
		MaxScore:                 Big5Max,
	}
	m.TotalScore = round1(m.JDKeywordMatch.Score + m.TechnicalSkillsAlignment.Score +
		m.QuantifiedResults.Score + m.JobTitleRelevance.Score + m.ExperienceRelevance.Score)
	return m
}

func keywordMatchMetric(km *analyzers.KeywordMatch) types.CriticalMetric {
	if km == nil || len(km.Keywords) == 0 {
		return criticalMetric(0, maxKeywordMatch, "no keywords found in the job description")
	}
	return criticalMetric(km.MatchRatio*maxKeywordMatch, maxKeywordMatch,
		fmt.Sprintf("%d of %d job keywords found", len(km.Matched), len(km.Keywords)))
}

func techAlignmentMetric(c *tiers.Context) types.CriticalMetric {
	km := c.Keywords()
	total, found := 0, 0
	if km != nil {
		matched := make(map[string]bool, len(km.Matched))
		for _, t := range km.Matched {
			matched[t] = true
		}
		for _, k := range km.Keywords {
			if !k.Tech {
				continue
			}
			total++
			if matched[k.Term] {
				found++
			}
		}
	}
	if total == 0 {
		completeness := c.Quality().TechStackCompleteness
		return criticalMetric(completeness/100*maxTechAlignment, maxTechAlignment,
			fmt.Sprintf("job names no technologies; tech stack completeness %.0f%%", completeness))
	}
	return criticalMetric(float64(found)/float64(total)*maxTechAlignment, maxTechAlignment,
		fmt.Sprintf("%d of %d required technologies found", found, total))
}

func quantifiedMetric(c *tiers.Context) types.CriticalMetric {
	n := 0
	for _, b := range c.Experience().Bullets {
		if b.HasMetric {
			n++
		}
	}
	n += c.Projects().WithMetrics
	return criticalMetric(math.Min(float64(n)/quantifiedTarget, 1)*maxQuantified, maxQuantified,
		fmt.Sprintf("%d quantified results", n))
}

func titleMetric(c *tiers.Context, jobTitle string) types.CriticalMetric {
	target := strings.TrimSpace(jobTitle)
	if target == "" {
		target = titleFromJD(c.JobDescription)
	}
	titles := append([]string(nil), c.Experience().Titles...)
	if c.Data != nil && c.Data.Summary != "" {
		titles = append(titles, c.Data.Summary)
	}

	if target != "" {
		best, bestTitle := 0.0, ""
		for _, t := range titles {
			if o := titleOverlap(target, t); o > best {
				best, bestTitle = o, t
			}
		}
		if best > 0 {
			return criticalMetric(best*maxTitleRelevance, maxTitleRelevance,
				fmt.Sprintf("%q matches target title %q", bestTitle, target))
		}
	}

	if c.Role != nil {
		for _, r := range rubric.Default().Roles.Roles {
			if r.Name != c.Role.RoleType {
				continue
			}
			for _, t := range titles {
				if kw, ok := rubric.ContainsAny(t, r.Keywords); ok {
					return criticalMetric(maxTitleRelevance/2, maxTitleRelevance,
						fmt.Sprintf("%q mentions %q for a %s role", t, kw, r.Name))
				}
			}
		}
	}
	if target == "" {
		return criticalMetric(0, maxTitleRelevance, "no target job title found")
	}
	return criticalMetric(0, maxTitleRelevance, fmt.Sprintf("no previous title resembles %q", target))
}

// titleFromJD returns the first non-empty line of jd when it is short enough to be a title.
func titleFromJD(jd string) string {
	for _, line := range strings.Split(jd, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if n := len(strings.Fields(line)); n <= maxTitleWords {
			return strings.TrimRight(line, ":")
		}
		return ""
	}
	return ""
}

// titleOverlap is the share of the target title's significant words found in title.
func titleOverlap(target, title string) float64 {
	words := analyzers.Tokenize(target)
	if len(words) == 0 {
		return 0
	}
	hits := 0
	for _, w := range words {
		if rubric.ContainsTerm(title, w) {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

func experienceMetric(c *tiers.Context) types.CriticalMetric {
	m := c.Experience()
	required, ok := roles.RequiredYears(c.JobDescription)
	switch {
	case ok && required > 0:
		return criticalMetric(math.Min(m.YearsOfExperience/float64(required), 1)*maxExperienceRelevant, maxExperienceRelevant,
			fmt.Sprintf("%.1f years against %d required", m.YearsOfExperience, required))
	case m.PositionCount > 0:
		return criticalMetric(maxExperienceRelevant, maxExperienceRelevant,
			fmt.Sprintf("%d positions; no experience requirement stated", m.PositionCount))
	default:
		return criticalMetric(maxExperienceRelevant/2, maxExperienceRelevant, "no positions found; no experience requirement stated")
	}
}
