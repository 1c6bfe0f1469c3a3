package tiers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/types"
)

const johnDoe = "John Doe\njohn@x.com\n555-1234\n\nEXPERIENCE\nDeveloped a caching layer, improving throughput by 40%.\n\nSKILLS\nPython, AWS, Docker"

func TestMode(t *testing.T) {
	assert.Equal(t, types.ModeGeneral, Mode(""))
	assert.Equal(t, types.ModeGeneral, Mode(strings.Repeat("a", MinJDChars-1)))
	assert.Equal(t, types.ModeJD, Mode(strings.Repeat("a", MinJDChars)))
	assert.Equal(t, types.ModeGeneral, Mode("   "+strings.Repeat("a", MinJDChars-1)+"   "))
}

func TestAll_CoversEveryTierInOrder(t *testing.T) {
	var keys []types.TierKey
	for _, a := range All() {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, types.AllTiers, keys)
}

func TestAll_ProducesValidScores(t *testing.T) {
	inputs := map[string]*Context{
		"minimal resume": NewContext(johnDoe, nil, ""),
		"empty":          NewContext("", nil, ""),
		"structured only": NewContext("", &types.ResumeData{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			WorkExperience: []types.WorkExperience{{
				Role: "Engineer", Company: "Analytical", Year: "2019 - 2023",
				Bullets: []string{"Built a compiler used by 300 engineers"},
			}},
		}, ""),
	}
	for name, c := range inputs {
		t.Run(name, func(t *testing.T) {
			for _, a := range All() {
				ts := a.Analyze(c)
				assert.Equal(t, a.Key, ts.Key)
				assert.Equal(t, a.Key.Number(), ts.TierNumber)
				assert.True(t, ts.Valid(), a.Key)
				assert.GreaterOrEqual(t, ts.Score, 0.0)
				assert.LessOrEqual(t, ts.Score, MaxScore)
				assert.LessOrEqual(t, ts.MetricsPassed, ts.MetricsTotal)
				assert.LessOrEqual(t, len(ts.TopIssues), 5)
			}
		})
	}
}

func TestBasicStructure(t *testing.T) {
	ts := BasicStructure(NewContext(johnDoe, nil, ""))

	// name 1 + email 2 + phone 1.5 + experience 1 + skills 1
	assert.InDelta(t, 6.5, ts.Score, 1e-9)
	assert.Equal(t, 65.0, ts.Percentage)
	assert.Equal(t, 5, ts.MetricsPassed)
	assert.Equal(t, 9, ts.MetricsTotal)
	assert.Contains(t, ts.TopIssues, "Add an education section")
	assert.Contains(t, ts.TopIssues, "Add a short professional summary")
}

func TestExperience(t *testing.T) {
	ts := Experience(NewContext(johnDoe, nil, ""))
	// impact 80/100*4 + metrics 2 + verbs 2 + achievements 2
	assert.InDelta(t, 9.2, ts.Score, 1e-9)
	assert.Equal(t, 4, ts.MetricsPassed)

	ts = Experience(NewContext("SKILLS\nGo", nil, ""))
	assert.Equal(t, 0.0, ts.Score)
	assert.Contains(t, ts.TopIssues, "No experience bullets found")
}

func TestProjects(t *testing.T) {
	data := &types.ResumeData{Projects: []types.Project{
		{Title: "Ledger", Bullets: []string{"Cut reconciliation time by 70%"}, TechStack: []string{"PostgreSQL"}},
		{Title: "Chat bot", Bullets: []string{"Answers team questions"}, TechStack: []string{"Python"}},
	}}
	ts := Projects(NewContext("", data, ""))

	// count 0.9*5 + tech stack 2 + metrics 0.5*2 + links 0
	assert.InDelta(t, 7.5, ts.Score, 1e-9)
	assert.Equal(t, 3, ts.MetricsPassed)
	assert.Equal(t, 4, ts.MetricsTotal)
	assert.Contains(t, ts.TopIssues, "Add repository or demo links to projects")

	ts = Projects(NewContext(johnDoe, nil, ""))
	assert.Equal(t, 0.0, ts.Score)
	assert.Contains(t, ts.TopIssues, "No projects listed")
}

func TestFormatting_UsesAssessment(t *testing.T) {
	c := NewContext(johnDoe, nil, "")
	c.SetFormatting(types.FormattingAssessment{
		OverallScore:     78,
		ATSCompatibility: types.ATSMedium,
		Issues:           []types.FormattingIssue{{Type: "tables", Recommendation: "Replace tables with plain text"}},
	})
	ts := Formatting(c)
	assert.InDelta(t, 7.8, ts.Score, 1e-9)
	assert.Equal(t, []string{"Replace tables with plain text"}, ts.TopIssues)
	assert.False(t, ts.Degraded)

	c.SetFormatting(types.FormattingAssessment{OverallScore: 50, Fallback: true, FallbackReason: "boom"})
	ts = Formatting(c)
	assert.True(t, ts.Degraded)
	assert.Equal(t, "boom", ts.FallbackReason)
}

func TestRedFlags_PenaltyScale(t *testing.T) {
	c := NewContext(johnDoe, nil, "")
	c.redFlags = lazy[types.RedFlagReport]{done: true, v: types.RedFlagReport{
		Flags:        []types.RedFlag{{Type: "resume_too_short", Penalty: 6, Recommendation: "Expand your resume"}},
		TotalPenalty: 6,
	}}
	ts := RedFlags(c)

	assert.InDelta(t, 8.0, ts.Score, 1e-9)
	assert.Equal(t, ts.MetricsTotal-1, ts.MetricsPassed)
	assert.Equal(t, []string{"Expand your resume"}, ts.TopIssues)

	c.redFlags = lazy[types.RedFlagReport]{done: true, v: types.RedFlagReport{TotalPenalty: 45}}
	assert.Equal(t, 0.0, RedFlags(c).Score)
}

func TestCompetitive(t *testing.T) {
	text := "ACHIEVEMENTS\n• Won first prize at a hackathon\n• Maintainer of an open source library\n• Led a team of 4"
	ts := Competitive(NewContext(text, nil, ""))

	// awards 2 + open source 2 + leadership 1.5 + hackathons 1
	assert.InDelta(t, 6.5, ts.Score, 1e-9)
	assert.Equal(t, 4, ts.MetricsPassed)
	assert.Equal(t, 8, ts.MetricsTotal)

	ts = Competitive(NewContext(johnDoe, nil, ""))
	assert.Equal(t, 0.0, ts.Score)
	require.Len(t, ts.TopIssues, 1)
}

func TestSkillsKeywords_ModeSwitch(t *testing.T) {
	jd := "We are hiring a backend engineer. Requirements: Python, AWS, Docker, Kubernetes, PostgreSQL and Terraform. " +
		"You will design APIs, operate services in production and work closely with product managers. " +
		"Experience with CI/CD pipelines and observability tooling is required. Go experience is a plus."
	require.Equal(t, types.ModeJD, Mode(jd))

	withJD := NewContext(johnDoe, nil, jd)
	require.NotNil(t, withJD.Keywords())
	general := NewContext(johnDoe, nil, "")
	assert.Nil(t, general.Keywords())

	jdScore := SkillsKeywords(withJD)
	assert.Greater(t, jdScore.Score, 0.0)
	assert.Equal(t, 3, jdScore.MetricsTotal)

	genScore := SkillsKeywords(general)
	assert.Equal(t, 3, genScore.MetricsTotal)
	assert.GreaterOrEqual(t, genScore.Score, 2.0, "skills section is credited")
}

func TestSkillBand(t *testing.T) {
	assert.Equal(t, 0.0, skillBand(3))
	assert.Equal(t, 1.0, skillBand(5))
	assert.Equal(t, 2.0, skillBand(8))
	assert.Equal(t, 2.0, skillBand(25))
	assert.Equal(t, 1.0, skillBand(26))
	assert.Contains(t, skillBandIssue(30), "trim")
	assert.Empty(t, skillBandIssue(10))
}

func TestNeutral(t *testing.T) {
	ts := Neutral(types.TierProjects, "index out of range")

	assert.True(t, ts.Degraded)
	assert.Equal(t, "index out of range", ts.FallbackReason)
	assert.Equal(t, 5.0, ts.Score)
	assert.Equal(t, 50.0, ts.Percentage)
	assert.True(t, ts.Valid())
}

func TestLazy_PanicIsNotMemoized(t *testing.T) {
	var l lazy[int]
	calls := 0
	boom := func() int {
		calls++
		panic("boom")
	}
	assert.Panics(t, func() { l.get(boom) })
	assert.Panics(t, func() { l.get(boom) })
	assert.Equal(t, 2, calls)

	assert.Equal(t, 7, l.get(func() int { return 7 }))
	assert.Equal(t, 7, l.get(func() int { return 9 }))
}
