// Package rubric provides the versioned lookup tables that drive resume scoring.
// Tables are stored as JSON files and embedded at compile time so they can be
// tuned and tested independently of the analyzers that consume them.
package rubric

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/resume-scorer/internal/types"
)

//go:embed *.json
var tableFiles embed.FS

// Rubric is the full set of scoring tables.
type Rubric struct {
	Version    string
	Language   Language
	Metrics    Metrics
	Tech       Tech
	Education  EducationTables
	Roles      RoleTables
	Weights    WeightTables
	Bullets    BulletTables
	Formatting FormattingTables
	RedFlags   RedFlagTables
	Evidence   EvidenceTables
}

var (
	defaultOnce   sync.Once
	defaultRubric *Rubric
	defaultErr    error
)

// Default returns the embedded rubric, panicking if the embedded tables are malformed.
func Default() *Rubric {
	defaultOnce.Do(func() {
		defaultRubric, defaultErr = Load(tableFiles)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("failed to load rubric: %v", defaultErr))
	}
	return defaultRubric
}

// Load reads every table from fsys and compiles the pattern tables.
func Load(fsys fs.FS) (*Rubric, error) {
	r := &Rubric{}
	files := []struct {
		name string
		dest any
	}{
		{"language.json", &r.Language},
		{"metrics.json", &r.Metrics},
		{"tech.json", &r.Tech},
		{"education.json", &r.Education},
		{"roles.json", &r.Roles},
		{"weights.json", &r.Weights},
		{"bullets.json", &r.Bullets},
		{"formatting.json", &r.Formatting},
		{"redflags.json", &r.RedFlags},
		{"evidence.json", &r.Evidence},
	}
	for _, f := range files {
		if err := loadFile(fsys, f.name, f.dest); err != nil {
			return nil, err
		}
	}

	r.Version = r.Language.Version
	r.Language.index()
	r.Tech.index()
	if err := r.Metrics.compile(); err != nil {
		return nil, err
	}
	if err := r.Bullets.compile(); err != nil {
		return nil, err
	}
	if err := r.Weights.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func loadFile(fsys fs.FS, filename string, dest any) error {
	data, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return fmt.Errorf("failed to read rubric file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse rubric file %s: %w", filename, err)
	}
	return nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = true
	}
	return set
}

// Language holds verb and phrase lists used by the text analyzers.
type Language struct {
	Version                string   `json:"version"`
	StrongActionVerbs      []string `json:"strong_action_verbs"`
	WeakVerbs              []string `json:"weak_verbs"`
	ResponsibilityPhrases  []string `json:"responsibility_phrases"`
	AchievementPhrases     []string `json:"achievement_phrases"`
	BusinessImpactKeywords []string `json:"business_impact_keywords"`
	FirstPersonPronouns    []string `json:"first_person_pronouns"`
	StopWords              []string `json:"stop_words"`
	RequiredMarkers        []string `json:"required_markers"`
	PreferredMarkers       []string `json:"preferred_markers"`

	// CompetitiveSignals groups distinguishing achievements by kind.
	CompetitiveSignals map[string][]string `json:"competitive_signals"`

	strong map[string]bool
	weak   map[string]bool
	stop   map[string]bool
}

func (l *Language) index() {
	l.strong = toSet(l.StrongActionVerbs)
	l.weak = toSet(l.WeakVerbs)
	l.stop = toSet(l.StopWords)
}

// IsStrongVerb reports whether word is a strong action verb.
func (l *Language) IsStrongVerb(word string) bool {
	return l.strong[strings.ToLower(word)]
}

// IsWeakVerb reports whether word is a weak verb.
func (l *Language) IsWeakVerb(word string) bool {
	return l.weak[strings.ToLower(word)]
}

// IsStopWord reports whether word carries no keyword signal.
func (l *Language) IsStopWord(word string) bool {
	return l.stop[strings.ToLower(word)]
}

// Metrics holds the quantified-result patterns.
type Metrics struct {
	Patterns     []string `json:"metric_patterns"`
	TokenPattern string   `json:"metric_token_pattern"`

	compiled []*regexp.Regexp
	token    *regexp.Regexp
}

func (m *Metrics) compile() error {
	m.compiled = make([]*regexp.Regexp, 0, len(m.Patterns))
	for _, p := range m.Patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return fmt.Errorf("invalid metric pattern %q: %w", p, err)
		}
		m.compiled = append(m.compiled, re)
	}
	re, err := regexp.Compile("(?i)" + m.TokenPattern)
	if err != nil {
		return fmt.Errorf("invalid metric token pattern: %w", err)
	}
	m.token = re
	return nil
}

// HasMetric reports whether text contains a quantified result.
func (m *Metrics) HasMetric(text string) bool {
	for _, re := range m.compiled {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// TokenSpans returns the byte offsets of every metric token in text.
func (m *Metrics) TokenSpans(text string) [][]int {
	return m.token.FindAllStringIndex(text, -1)
}

// Tokens returns every numeric, percentage or currency token in text, normalized
// to lower case with spaces and thousands separators removed.
func (m *Metrics) Tokens(text string) []string {
	raw := m.token.FindAllString(text, -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(t)
		t = strings.ReplaceAll(t, ",", "")
		t = strings.ReplaceAll(t, " ", "")
		t = strings.TrimSuffix(t, ".")
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// TechCategory is a weighted group of technology keywords.
type TechCategory struct {
	Name     string   `json:"name"`
	Weight   float64  `json:"weight"`
	Keywords []string `json:"keywords"`
}

// Tech holds technology dictionaries.
type Tech struct {
	Categories        []TechCategory    `json:"categories"`
	NonTechnicalRoles []string          `json:"non_technical_roles"`
	Synonyms          map[string]string `json:"synonyms"`
	OutdatedSkills    []string          `json:"outdated_skills"`

	all map[string]bool
}

func (t *Tech) index() {
	t.all = make(map[string]bool)
	for _, c := range t.Categories {
		for _, k := range c.Keywords {
			t.all[strings.ToLower(k)] = true
		}
	}
}

// IsTechKeyword reports whether term is a known technology.
func (t *Tech) IsTechKeyword(term string) bool {
	return t.all[strings.ToLower(term)]
}

// AllKeywords returns every technology keyword, sorted.
func (t *Tech) AllKeywords() []string {
	out := make([]string, 0, len(t.all))
	for k := range t.all {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Canonical maps a known abbreviation to its long form; other terms are returned lower-cased.
func (t *Tech) Canonical(term string) string {
	lower := strings.ToLower(strings.TrimSpace(term))
	if long, ok := t.Synonyms[lower]; ok {
		return long
	}
	return lower
}

// DegreeLevel maps degree patterns to rubric points.
type DegreeLevel struct {
	Level    string   `json:"level"`
	Points   float64  `json:"points"`
	Patterns []string `json:"patterns"`
}

// EducationTables holds degree, institution and certification tables.
type EducationTables struct {
	DegreeLevels           []DegreeLevel       `json:"degree_levels"`
	RelevantFields         []string            `json:"relevant_fields"`
	Institutions           map[string][]string `json:"institutions"`
	PrestigeScores         map[string]float64  `json:"prestige_scores"`
	CertificationProviders []string            `json:"certification_providers"`
}

// institutionTiers is the lookup order for Prestige.
var institutionTiers = []string{"elite", "strong", "recognized"}

// Prestige returns the institution tier and its prestige score. Unlisted schools
// fall back to the default score.
func (e *EducationTables) Prestige(school string) (string, float64) {
	for _, tier := range institutionTiers {
		for _, name := range e.Institutions[tier] {
			if ContainsTerm(school, name) {
				return tier, e.PrestigeScores[tier]
			}
		}
	}
	return "default", e.PrestigeScores["default"]
}

// RoleEntry is one role category in the classifier table.
type RoleEntry struct {
	Name       string   `json:"name"`
	Multiplier float64  `json:"multiplier"`
	Keywords   []string `json:"keywords"`
	FocusAreas []string `json:"focus_areas"`
}

// DomainEntry is one industry domain.
type DomainEntry struct {
	Name       string   `json:"name"`
	Keywords   []string `json:"keywords"`
	FocusAreas []string `json:"focus_areas"`
}

// SeniorityLevel is one rung of the seniority ladder.
type SeniorityLevel struct {
	Name                string   `json:"name"`
	MinYears            int      `json:"min_years"`
	MaxYears            int      `json:"max_years"`
	Keywords            []string `json:"keywords"`
	ResponsibilityVerbs []string `json:"responsibility_verbs"`
	FocusAreas          []string `json:"focus_areas"`
}

// ToneRules selects a writing tone from seniority and domain.
type ToneRules struct {
	FormalSeniority []string `json:"formal_seniority"`
	FormalDomains   []string `json:"formal_domains"`
	CasualSeniority []string `json:"casual_seniority"`
	CasualDomains   []string `json:"casual_domains"`
}

// RoleTables holds the role, domain and seniority classifier tables.
type RoleTables struct {
	Roles                    []RoleEntry      `json:"roles"`
	FullstackSynergy         float64          `json:"fullstack_synergy"`
	SecondaryFloor           float64          `json:"secondary_floor"`
	MaxSecondaryRoles        int              `json:"max_secondary_roles"`
	MaxFocusAreas            int              `json:"max_focus_areas"`
	Domains                  []DomainEntry    `json:"domains"`
	Seniority                []SeniorityLevel `json:"seniority"`
	SeniorityKeywordPoints   float64          `json:"seniority_keyword_points"`
	YearMatchPoints          float64          `json:"year_match_points"`
	ResponsibilityVerbPoints float64          `json:"responsibility_verb_points"`
	ConfidenceDivisor        float64          `json:"confidence_divisor"`
	DefaultSeniority         string           `json:"default_seniority"`
	Tones                    ToneRules        `json:"tones"`
}

// WeightTables holds the per-level tier weights.
type WeightTables struct {
	Levels           map[types.CandidateLevel]map[types.TierKey]float64 `json:"levels"`
	GeneralModeShift map[types.TierKey]float64                          `json:"general_mode_shift"`
}

func (w *WeightTables) validate() error {
	for _, level := range types.AllLevels {
		table, ok := w.Levels[level]
		if !ok {
			return fmt.Errorf("weight table for level %q is missing", level)
		}
		sum := 0.0
		for _, key := range types.AllTiers {
			sum += table[key]
		}
		if sum != 100 {
			return fmt.Errorf("weight table for level %q sums to %.2f, expected 100", level, sum)
		}
	}
	shift := 0.0
	for _, v := range w.GeneralModeShift {
		shift += v
	}
	if shift != 0 {
		return fmt.Errorf("general mode weight shift sums to %.2f, expected 0", shift)
	}
	return nil
}

// Replacement rewrites a verbose phrase.
type Replacement struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SplitPattern is a candidate boundary for splitting a long bullet.
type SplitPattern struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`

	// KeepConnective starts the second part with the matched connective.
	KeepConnective bool `json:"keep_connective,omitempty"`

	re *regexp.Regexp
}

// Regexp returns the compiled, case-insensitive boundary pattern.
func (p SplitPattern) Regexp() *regexp.Regexp {
	return p.re
}

// BulletTables holds the bullet-shortening tables.
type BulletTables struct {
	MaxChars       int            `json:"max_chars"`
	MinSplitChars  int            `json:"min_split_chars"`
	FillerPhrases  []string       `json:"filler_phrases"`
	VerbosePhrases []Replacement  `json:"verbose_phrases"`
	Intensifiers   []string       `json:"intensifiers"`
	SplitPatterns  []SplitPattern `json:"split_patterns"`
}

func (b *BulletTables) compile() error {
	for i := range b.SplitPatterns {
		re, err := regexp.Compile("(?i)" + b.SplitPatterns[i].Pattern)
		if err != nil {
			return fmt.Errorf("invalid split pattern %q: %w", b.SplitPatterns[i].Name, err)
		}
		b.SplitPatterns[i].re = re
	}
	// Longer phrases first so "applications" wins over "application".
	sort.SliceStable(b.VerbosePhrases, func(i, j int) bool {
		return len(b.VerbosePhrases[i].From) > len(b.VerbosePhrases[j].From)
	})
	return nil
}

// FormattingTables holds penalty points per formatting issue and severity.
type FormattingTables struct {
	Penalties      map[string]map[types.IssueSeverity]int `json:"penalties"`
	DefaultPenalty map[types.IssueSeverity]int            `json:"default_penalty"`
	FallbackScore  float64                                `json:"fallback_score"`
}

// Penalty returns the point penalty for an issue type at a severity.
func (f *FormattingTables) Penalty(issueType string, sev types.IssueSeverity) int {
	if table, ok := f.Penalties[issueType]; ok {
		if p, ok := table[sev]; ok {
			return p
		}
	}
	return f.DefaultPenalty[sev]
}

// FlagDefinition is a red flag template.
type FlagDefinition struct {
	Type           string                `json:"type"`
	Category       types.RedFlagCategory `json:"category"`
	Severity       types.FlagSeverity    `json:"severity"`
	Penalty        int                   `json:"penalty"`
	Description    string                `json:"description"`
	Recommendation string                `json:"recommendation"`
}

// RedFlagTables holds red flag templates and thresholds.
type RedFlagTables struct {
	Flags                   []FlagDefinition `json:"flags"`
	AutoRejectCriticalCount int              `json:"auto_reject_critical_count"`
	MaxSkills               int              `json:"max_skills"`
	MinWords                int              `json:"min_words"`
	MaxWords                int              `json:"max_words"`
	UnprofessionalEmail     []string         `json:"unprofessional_email_terms"`
	ShortTenureMonths       int              `json:"short_tenure_months"`
	GapMonths               int              `json:"gap_months"`
}

// Flag instantiates the red flag with the given type.
func (r *RedFlagTables) Flag(flagType string) (types.RedFlag, bool) {
	for _, f := range r.Flags {
		if f.Type == flagType {
			return types.RedFlag{
				Type:           f.Type,
				Category:       f.Category,
				Severity:       f.Severity,
				Penalty:        f.Penalty,
				Description:    f.Description,
				Recommendation: f.Recommendation,
			}, true
		}
	}
	return types.RedFlag{}, false
}

// ComponentDef names an evidence-locked component and its maximum.
type ComponentDef struct {
	Name     string  `json:"name"`
	MaxScore float64 `json:"max_score"`
}

// RoleCategory is a keyword weighting profile for evidence-locked scoring.
type RoleCategory struct {
	Roles   []string           `json:"roles"`
	Markers []string           `json:"markers"`
	Weights map[string]float64 `json:"weights"`
}

// EvidenceTables holds the evidence-locked scorer tables.
type EvidenceTables struct {
	Components              []ComponentDef          `json:"components"`
	RoleCategories          map[string]RoleCategory `json:"role_categories"`
	ExperienceTargetBullets int                     `json:"experience_target_bullets"`
	QuantifiedTargetBullets int                     `json:"quantified_target_bullets"`
}

// Component returns the definition with the given name.
func (e *EvidenceTables) Component(name string) (ComponentDef, bool) {
	for _, c := range e.Components {
		if c.Name == name {
			return c, true
		}
	}
	return ComponentDef{}, false
}

// KeywordWeight returns the multiplier for keyword under a role category, defaulting to 1.
func (e *EvidenceTables) KeywordWeight(category, keyword string) float64 {
	if rc, ok := e.RoleCategories[category]; ok {
		if w, ok := rc.Weights[strings.ToLower(keyword)]; ok {
			return w
		}
	}
	return 1.0
}
