package analyzers

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/types"
)

// maxJDKeywords caps how many job-description keywords are tracked.
const maxJDKeywords = 30

var (
	tokenPattern   = regexp.MustCompile(`[a-z][a-z0-9+#.\-]*[a-z0-9+#]|[a-z]`)
	skillSeparator = regexp.MustCompile(`[,;|•·/\n]+`)
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"aws":        "AWS",
	"gcp":        "GCP",
	"sql":        "SQL",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// All-caps single words that aren't known acronyms get a leading capital only
	if normalized == strings.ToUpper(normalized) && len(normalized) > 4 && !strings.Contains(lower, " ") {
		return strings.ToUpper(normalized[:1]) + strings.ToLower(normalized[1:])
	}

	// Mixed case is kept as written
	if normalized != strings.ToLower(normalized) {
		return normalized
	}

	if !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}
	return normalized
}

// SkillMetrics summarises the listed and detected skills.
type SkillMetrics struct {
	Listed           []string `json:"listed"`
	TechSkills       []string `json:"tech_skills"`
	UniqueCount      int      `json:"unique_count"`
	HasSkillsSection bool     `json:"has_skills_section"`
}

// AnalyzeSkills collects listed skills and dictionary technologies mentioned anywhere.
func AnalyzeSkills(text string, data *types.ResumeData, sec *types.SectionAnalysis) SkillMetrics {
	r := tables()
	m := SkillMetrics{Listed: []string{}, TechSkills: []string{}}
	m.HasSkillsSection = sec.Has(types.SectionSkills) || (data != nil && len(data.Skills) > 0)

	var raw []string
	if data != nil && len(data.AllSkills()) > 0 {
		raw = data.AllSkills()
	} else {
		for _, line := range splitLines(sec.Content(types.SectionSkills)) {
			if idx := strings.Index(line, ":"); idx >= 0 && idx < 30 {
				line = line[idx+1:]
			}
			raw = append(raw, skillSeparator.Split(line, -1)...)
		}
	}

	unique := make(map[string]bool)
	for _, s := range raw {
		s = strings.TrimSpace(strings.Trim(s, "-*()"))
		if s == "" || len(s) > 40 {
			continue
		}
		name := NormalizeSkillName(s)
		key := r.Tech.Canonical(name)
		if unique[key] {
			continue
		}
		unique[key] = true
		m.Listed = append(m.Listed, name)
	}

	for _, kw := range r.Tech.AllKeywords() {
		if rubric.ContainsTerm(text, kw) {
			m.TechSkills = append(m.TechSkills, kw)
			unique[r.Tech.Canonical(kw)] = true
		}
	}
	m.UniqueCount = len(unique)
	return m
}

// JDKeyword is a keyword extracted from a job description.
type JDKeyword struct {
	Term      string            `json:"term"`
	Frequency int               `json:"frequency"`
	Tier      types.KeywordTier `json:"tier"`
	Tech      bool              `json:"tech"`
}

// KeywordMatch compares job-description keywords with a resume.
type KeywordMatch struct {
	Keywords      []JDKeyword `json:"keywords"`
	Matched       []string    `json:"matched"`
	Missing       []JDKeyword `json:"missing"`
	MatchRatio    float64     `json:"match_ratio"`
	WeightedRatio float64     `json:"weighted_ratio"`
}

// MissingByTier counts missing keywords of the given tier.
func (k KeywordMatch) MissingByTier(tier types.KeywordTier) int {
	n := 0
	for _, m := range k.Missing {
		if m.Tier == tier {
			n++
		}
	}
	return n
}

// Tokenize lower-cases text and splits it into keyword tokens, keeping technology
// spellings such as c++, c# and node.js intact.
func Tokenize(text string) []string {
	lang := &tables().Language
	var out []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		tok = strings.TrimRight(tok, ".-")
		if len(tok) < 2 || lang.IsStopWord(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

type termContext int

const (
	contextNeutral termContext = iota
	contextRequired
	contextPreferred
)

// ExtractJDKeywords pulls technology terms, role vocabulary and repeated words from a
// job description and tiers them by where and how often they appear.
func ExtractJDKeywords(jd string) []JDKeyword {
	r := tables()
	if strings.TrimSpace(jd) == "" {
		return nil
	}

	vocabulary := make(map[string]bool)
	for _, kw := range r.Tech.AllKeywords() {
		vocabulary[kw] = true
	}
	for _, role := range r.Roles.Roles {
		if role.Name == "general" {
			continue
		}
		for _, kw := range role.Keywords {
			vocabulary[strings.ToLower(kw)] = true
		}
	}

	found := make(map[string]*JDKeyword)
	var order []string
	firstContext := make(map[string]termContext)

	mode := contextNeutral
	for _, line := range splitLines(jd) {
		if _, ok := rubric.ContainsAny(line, r.Language.RequiredMarkers); ok {
			mode = contextRequired
		} else if _, ok := rubric.ContainsAny(line, r.Language.PreferredMarkers); ok {
			mode = contextPreferred
		}

		add := func(term string, n int) {
			if k, ok := found[term]; ok {
				k.Frequency += n
				return
			}
			found[term] = &JDKeyword{Term: term, Frequency: n, Tech: r.Tech.IsTechKeyword(term)}
			firstContext[term] = mode
			order = append(order, term)
		}

		for term := range vocabulary {
			if n := rubric.CountTerm(line, term); n > 0 {
				add(term, n)
			}
		}
		counts := make(map[string]int)
		for _, tok := range Tokenize(line) {
			if !vocabulary[tok] {
				counts[tok]++
			}
		}
		for tok, n := range counts {
			add(tok, n)
		}
	}

	var keywords []JDKeyword
	for _, term := range order {
		k := found[term]
		if !vocabulary[term] && k.Frequency < 2 {
			continue
		}
		k.Tier = keywordTier(*k, firstContext[term])
		keywords = append(keywords, *k)
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		ri, rj := tierRank(keywords[i].Tier), tierRank(keywords[j].Tier)
		if ri != rj {
			return ri > rj
		}
		if keywords[i].Frequency != keywords[j].Frequency {
			return keywords[i].Frequency > keywords[j].Frequency
		}
		return keywords[i].Term < keywords[j].Term
	})
	if len(keywords) > maxJDKeywords {
		keywords = keywords[:maxJDKeywords]
	}
	return keywords
}

func keywordTier(k JDKeyword, ctx termContext) types.KeywordTier {
	switch {
	case ctx == contextRequired:
		return types.KeywordCritical
	case ctx == contextPreferred:
		return types.KeywordNiceToHave
	case k.Frequency >= 3:
		return types.KeywordCritical
	case k.Tech || k.Frequency == 2:
		return types.KeywordImportant
	default:
		return types.KeywordNiceToHave
	}
}

func tierRank(t types.KeywordTier) int {
	switch t {
	case types.KeywordCritical:
		return 3
	case types.KeywordImportant:
		return 2
	default:
		return 1
	}
}

// TierWeight is the relative importance of a keyword tier.
func TierWeight(t types.KeywordTier) float64 {
	return float64(tierRank(t))
}

// ResumeHasTerm reports whether the resume contains term literally or via a known synonym.
func ResumeHasTerm(resumeText, term string) bool {
	if rubric.ContainsTerm(resumeText, term) {
		return true
	}
	tech := &tables().Tech
	canonical := tech.Canonical(term)
	if canonical != strings.ToLower(term) && rubric.ContainsTerm(resumeText, canonical) {
		return true
	}
	for short, long := range tech.Synonyms {
		if long == canonical && short != strings.ToLower(term) && rubric.ContainsTerm(resumeText, short) {
			return true
		}
	}
	return false
}

// MatchKeywords compares job-description keywords with the resume text.
func MatchKeywords(resumeText, jd string) KeywordMatch {
	km := KeywordMatch{
		Keywords: ExtractJDKeywords(jd),
		Matched:  []string{},
		Missing:  []JDKeyword{},
	}
	if len(km.Keywords) == 0 {
		return km
	}

	var total, matched float64
	for _, k := range km.Keywords {
		w := TierWeight(k.Tier)
		total += w
		if ResumeHasTerm(resumeText, k.Term) {
			km.Matched = append(km.Matched, k.Term)
			matched += w
		} else {
			km.Missing = append(km.Missing, k)
		}
	}
	km.MatchRatio = ratio(len(km.Matched), len(km.Keywords))
	km.WeightedRatio = matched / total
	return km
}
