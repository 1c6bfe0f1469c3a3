package rubric

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/types"
)

func TestDefault_LoadsEmbeddedTables(t *testing.T) {
	r := Default()
	require.NotNil(t, r)

	assert.NotEmpty(t, r.Version)
	assert.GreaterOrEqual(t, len(r.Language.StrongActionVerbs), 40)
	assert.Len(t, r.Metrics.Patterns, 8)
	assert.Len(t, r.Tech.Categories, 5)
	assert.Len(t, r.Roles.Roles, 11)
	assert.Len(t, r.Roles.Seniority, 8)
	assert.Len(t, r.Evidence.Components, 5)
	assert.Equal(t, 120, r.Bullets.MaxChars)
	assert.Same(t, r, Default())
}

func TestWeightTables_SumTo100(t *testing.T) {
	r := Default()
	for _, level := range types.AllLevels {
		sum := 0.0
		for _, key := range types.AllTiers {
			sum += r.Weights.Levels[level][key]
		}
		assert.Equal(t, 100.0, sum, "level %s", level)
	}
}

func TestTechCategoryWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, c := range Default().Tech.Categories {
		sum += c.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestLanguage_Lookups(t *testing.T) {
	l := &Default().Language
	assert.True(t, l.IsStrongVerb("Developed"))
	assert.False(t, l.IsStrongVerb("helped"))
	assert.True(t, l.IsWeakVerb("helped"))
	assert.True(t, l.IsStopWord("The"))
}

func TestMetrics(t *testing.T) {
	m := &Default().Metrics

	tests := []struct {
		text string
		want bool
	}{
		{"Improved throughput by 40%", true},
		{"Saved $1.2M in annual costs", true},
		{"Served 10,000 users daily", true},
		{"Cut build time to 90 seconds", true},
		{"Doubled conversion", true},
		{"Built a caching layer", false},
		{"Worked there from 2019 to 2021", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.HasMetric(tt.text), tt.text)
	}

	assert.Equal(t, []string{"40%", "$1.5m", "3x"}, m.Tokens("Grew revenue 40% to $1.5M, a 3x jump"))
	assert.Equal(t, []string{"10000"}, m.Tokens("Reached 10,000 members."))
}

func TestCountTerm(t *testing.T) {
	tests := []struct {
		text string
		term string
		want int
	}{
		{"Go and golang", "go", 1},
		{"C++ and c++ code", "c++", 2},
		{"node.js, Node.js", "node.js", 2},
		{"REST APIs and a restful api", "rest", 1},
		{"full-stack developer", "full-stack", 1},
		{"anything", "", 0},
		{"MIT graduate", "mit", 1},
		{"Smith Summit", "mit", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CountTerm(tt.text, tt.term), "%q in %q", tt.term, tt.text)
	}

	term, ok := ContainsAny("Deployed on Kubernetes", []string{"docker", "kubernetes"})
	assert.True(t, ok)
	assert.Equal(t, "kubernetes", term)
}

func TestPrestige(t *testing.T) {
	e := &Default().Education
	tier, score := e.Prestige("Stanford University")
	assert.Equal(t, "elite", tier)
	assert.Equal(t, 95.0, score)

	_, score = e.Prestige("Georgia Tech")
	assert.Equal(t, 75.0, score)

	_, score = e.Prestige("Purdue University")
	assert.Equal(t, 70.0, score)

	tier, score = e.Prestige("Springfield Community College")
	assert.Equal(t, "default", tier)
	assert.Equal(t, 60.0, score)
}

func TestFormattingPenalty(t *testing.T) {
	f := &Default().Formatting
	assert.Equal(t, 20, f.Penalty("tables", types.IssueSevere))
	assert.Equal(t, 40, f.Penalty("ocr_origin", types.IssueSevere))
	assert.Equal(t, 7, f.Penalty("unknown_issue", types.IssueModerate))
}

func TestRedFlagTemplate(t *testing.T) {
	flag, ok := Default().RedFlags.Flag("missing_contact")
	require.True(t, ok)
	assert.Equal(t, types.SeverityCritical, flag.Severity)
	assert.Equal(t, types.FlagFormatting, flag.Category)

	_, ok = Default().RedFlags.Flag("nope")
	assert.False(t, ok)
}

func TestEvidenceKeywordWeight(t *testing.T) {
	e := &Default().Evidence
	assert.Greater(t, e.KeywordWeight("ops_data_entry", "MS Office"), 1.0)
	assert.Less(t, e.KeywordWeight("software_dev", "ms office"), 1.0)
	assert.Equal(t, 1.0, e.KeywordWeight("general", "python"))
}

func TestVerbosePhrasesOrderedLongestFirst(t *testing.T) {
	phrases := Default().Bullets.VerbosePhrases
	for i := 1; i < len(phrases); i++ {
		assert.GreaterOrEqual(t, len(phrases[i-1].From), len(phrases[i].From))
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(fstest.MapFS{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "language.json")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		fsys := fstest.MapFS{"language.json": {Data: []byte("{not json")}}
		_, err := Load(fsys)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})
}
