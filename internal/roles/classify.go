// Package roles classifies a job description by role type, industry domain and seniority.
package roles

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Tone values
const (
	ToneFormal   = "formal"
	ToneBalanced = "balanced"
	ToneCasual   = "casual"
)

const generalRole = "general"

// yearPhrase matches "5+ years", "3-5 years", "7 to 10 yrs" and similar.
var yearPhrase = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:(?:-|–|to)\s*(\d{1,2})\s*)?(?:years?|yrs?)\b`)

// Classify scores jd against the role, domain and seniority tables. companyName is optional
// and only echoed into the result.
func Classify(jd, companyName string) types.RoleClassification {
	t := &rubric.Default().Roles

	roleScores := scoreRoles(t, jd)
	roleType := winner(t.Roles, roleScores)

	domain := generalRole
	best := 0.0
	for _, d := range t.Domains {
		s := countAll(jd, d.Keywords)
		if s > best {
			best, domain = s, d.Name
		}
	}

	seniority, confidence := classifySeniority(t, jd)

	c := types.RoleClassification{
		RoleType:            roleType,
		RoleScores:          roleScores,
		SecondaryRoles:      secondaryRoles(t, roleScores, roleType),
		DomainType:          domain,
		Seniority:           seniority,
		SeniorityConfidence: confidence,
		CompanyName:         strings.TrimSpace(companyName),
	}
	c.Tone = tone(&t.Tones, seniority, domain)
	c.FocusAreas = focusAreas(t, c)
	return c
}

func scoreRoles(t *rubric.RoleTables, jd string) map[string]float64 {
	scores := make(map[string]float64, len(t.Roles))
	for _, r := range t.Roles {
		scores[r.Name] = countAll(jd, r.Keywords) * r.Multiplier
	}
	if scores["fullstack"] > 0 {
		scores["fullstack"] += t.FullstackSynergy * (scores["backend"] + scores["frontend"])
	}
	return scores
}

// winner returns the highest-scoring non-general role; earlier table entries win ties.
func winner(entries []rubric.RoleEntry, scores map[string]float64) string {
	name, best := generalRole, 0.0
	for _, r := range entries {
		if r.Name == generalRole {
			continue
		}
		if s := scores[r.Name]; s > best {
			name, best = r.Name, s
		}
	}
	return name
}

func secondaryRoles(t *rubric.RoleTables, scores map[string]float64, primary string) []string {
	type scored struct {
		name  string
		score float64
		index int
	}
	var candidates []scored
	for i, r := range t.Roles {
		if r.Name == primary || r.Name == generalRole {
			continue
		}
		if s := scores[r.Name]; s >= t.SecondaryFloor {
			candidates = append(candidates, scored{r.Name, s, i})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].index < candidates[j].index
	})

	out := []string{}
	for _, c := range candidates {
		if len(out) == t.MaxSecondaryRoles {
			break
		}
		out = append(out, c.name)
	}
	return out
}

func classifySeniority(t *rubric.RoleTables, jd string) (string, float64) {
	years := RequiredYearsAll(jd)

	name, best := t.DefaultSeniority, 0.0
	for _, level := range t.Seniority {
		s := countAll(jd, level.Keywords) * t.SeniorityKeywordPoints
		for _, y := range years {
			if y >= level.MinYears && y <= level.MaxYears {
				s += t.YearMatchPoints
				break
			}
		}
		s += countAll(jd, level.ResponsibilityVerbs) * t.ResponsibilityVerbPoints
		if s > best {
			name, best = level.Name, s
		}
	}
	if best == 0 {
		return t.DefaultSeniority, 0
	}
	confidence := best / t.ConfidenceDivisor
	if confidence > 1 {
		confidence = 1
	}
	return name, confidence
}

// RequiredYearsAll returns every year count stated in jd. A range contributes both ends.
func RequiredYearsAll(jd string) []int {
	var years []int
	for _, m := range yearPhrase.FindAllStringSubmatch(jd, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			years = append(years, n)
		}
		if m[2] != "" {
			if n, err := strconv.Atoi(m[2]); err == nil {
				years = append(years, n)
			}
		}
	}
	return years
}

// RequiredYears returns the first minimum year count stated in jd.
func RequiredYears(jd string) (int, bool) {
	m := yearPhrase.FindStringSubmatch(jd)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

func tone(rules *rubric.ToneRules, seniority, domain string) string {
	switch {
	case contains(rules.FormalSeniority, seniority) || contains(rules.FormalDomains, domain):
		return ToneFormal
	case contains(rules.CasualSeniority, seniority) || contains(rules.CasualDomains, domain):
		return ToneCasual
	default:
		return ToneBalanced
	}
}

func focusAreas(t *rubric.RoleTables, c types.RoleClassification) []string {
	var areas []string
	seen := make(map[string]bool)
	add := func(list []string) {
		for _, a := range list {
			if !seen[a] {
				seen[a] = true
				areas = append(areas, a)
			}
		}
	}

	for _, name := range append([]string{c.RoleType}, c.SecondaryRoles...) {
		for _, r := range t.Roles {
			if r.Name == name {
				add(r.FocusAreas)
			}
		}
	}
	for _, d := range t.Domains {
		if d.Name == c.DomainType {
			add(d.FocusAreas)
		}
	}
	for _, s := range t.Seniority {
		if s.Name == c.Seniority {
			add(s.FocusAreas)
		}
	}

	if len(areas) > t.MaxFocusAreas {
		areas = areas[:t.MaxFocusAreas]
	}
	if areas == nil {
		areas = []string{}
	}
	return areas
}

func countAll(text string, terms []string) float64 {
	n := 0
	for _, term := range terms {
		n += rubric.CountTerm(text, term)
	}
	return float64(n)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
