package scoring

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/types"
)

const sampleResume = `Jane Smith
jane.smith@example.com | (555) 123-4567 | linkedin.com/in/janesmith | Austin, TX

SUMMARY
Backend engineer with six years of experience building payment and data platforms in Go and Python.

EXPERIENCE
Senior Backend Engineer, Acme Payments, Jan 2020 - Present
• Led migration of the billing platform to Go microservices on Kubernetes, cutting infra spend by 35%
• Designed an event pipeline on Kafka processing 2M events per day with 99.95% availability
• Mentored 4 engineers and introduced code review standards adopted across 3 teams
Software Engineer, Globex, Jun 2017 - Dec 2019
• Built REST APIs in Python and PostgreSQL serving 500 requests per second
• Reduced deployment time from 2 hours to 15 minutes by automating CI/CD with Terraform

EDUCATION
B.S. Computer Science, University of Texas, 2017

SKILLS
Go, Python, PostgreSQL, Kafka, Kubernetes, Docker, Terraform, AWS, Redis, gRPC

PROJECTS
Ledger: open source double-entry accounting library in Go with 1,200 GitHub stars
`

const sampleJD = `Senior Backend Engineer
We are hiring a senior backend engineer to build our payments platform. Requirements: 5+ years of experience with Go,
PostgreSQL, Kafka and Kubernetes. You will design APIs, operate services in production and mentor other engineers.
Experience with Terraform, AWS and CI/CD pipelines is required. Familiarity with gRPC and Redis is a plus.`

func TestScore_GeneralMode(t *testing.T) {
	res, err := Score(context.Background(), Input{Text: sampleResume, SourceName: "jane.txt"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Equal(t, "jane.txt", res.SourceName)
	assert.Equal(t, types.ModeGeneral, res.Mode)
	assert.Equal(t, types.ModeGeneral, res.Final.Mode)
	assert.Len(t, res.Tiers, len(types.AllTiers))
	for i, ts := range res.Tiers {
		assert.Equal(t, i+1, ts.TierNumber)
	}
	assert.Empty(t, res.Warnings)
	assert.Nil(t, res.CriticalMetrics)
	assert.Nil(t, res.Role)
	assert.Empty(t, res.MissingKeywords)
	assert.NotNil(t, res.Sections)

	assert.True(t, res.Trustworthy)
	assert.True(t, res.Quality.IsValid)
	assert.GreaterOrEqual(t, res.Final.Overall, 0.0)
	assert.LessOrEqual(t, res.Final.Overall, 100.0)
	assert.Equal(t, MatchBand(res.Final.Overall), res.Final.MatchBand)
	assert.Equal(t, InterviewProbability(res.Final.Overall), res.Final.InterviewProbabilityRange)
	assert.NotEqual(t, types.ConfidenceHigh, res.Final.Confidence, "general mode never reaches high confidence")
	assert.NotEmpty(t, res.Evidence.Components)
}

func TestScore_JDMode(t *testing.T) {
	require.GreaterOrEqual(t, len(strings.TrimSpace(sampleJD)), 250)

	res, err := Score(context.Background(), Input{Text: sampleResume, JobDescription: sampleJD})
	require.NoError(t, err)

	assert.Equal(t, types.ModeJD, res.Mode)
	require.NotNil(t, res.Role)
	require.NotNil(t, res.CriticalMetrics)
	assert.Equal(t, Big5Max, res.CriticalMetrics.MaxScore)
	assert.LessOrEqual(t, res.CriticalMetrics.TotalScore, Big5Max)
	assert.Greater(t, res.CriticalMetrics.JobTitleRelevance.Score, 0.0, "resume lists the target title")
	assert.Greater(t, res.CriticalMetrics.JDKeywordMatch.Score, 0.0)
	assert.Empty(t, res.Warnings)
}

func TestScore_ShortJDFallsBackToGeneral(t *testing.T) {
	res, err := Score(context.Background(), Input{Text: sampleResume, JobDescription: "Go engineer wanted"})
	require.NoError(t, err)

	assert.Equal(t, types.ModeGeneral, res.Mode)
	assert.Nil(t, res.CriticalMetrics)
	assert.NotNil(t, res.Role, "role is still classified from a short description")
}

func TestScore_StructuredData(t *testing.T) {
	data := &types.ResumeData{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		WorkExperience: []types.WorkExperience{{
			Role: "Engineer", Company: "Analytical", Year: "2019 - 2023",
			Bullets: []string{
				"Built a compiler used by 300 engineers",
				"Led a cross-functional initiative to consolidate the build pipelines of every product team into a single shared system, which made builds faster",
			},
		}},
	}
	res, err := Score(context.Background(), Input{Data: data, MaxBulletChars: 100})
	require.NoError(t, err)

	require.Len(t, res.BulletViolations, 1)
	assert.Equal(t, 0, res.BulletViolations[0].EntryIndex)
	assert.Equal(t, 1, res.BulletViolations[0].BulletIndex)
}

func TestScore_EmptyInputIsUntrustworthy(t *testing.T) {
	res, err := Score(context.Background(), Input{})
	require.NoError(t, err)

	assert.False(t, res.Trustworthy)
	assert.Equal(t, types.ConfidenceLow, res.Final.Confidence)
	assert.Len(t, res.Tiers, len(types.AllTiers))
}

func TestScore_InvalidData(t *testing.T) {
	_, err := Score(context.Background(), Input{Data: &types.ResumeData{Email: "not-an-email"}})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestScore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Score(ctx, Input{Text: sampleResume})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScore_LevelOverride(t *testing.T) {
	res, err := Score(context.Background(), Input{Text: sampleResume, Level: types.LevelJunior})
	require.NoError(t, err)
	assert.Equal(t, types.LevelJunior, res.Level)
}

func TestScoreBatch(t *testing.T) {
	inputs := []Input{
		{Text: sampleResume, SourceName: "a"},
		{Text: "Jane Smith\njane@example.com", SourceName: "b"},
		{Text: sampleResume, JobDescription: sampleJD, SourceName: "c"},
	}
	results, err := ScoreBatch(context.Background(), inputs, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, inputs[i].SourceName, res.SourceName)
	}
	assert.Equal(t, types.ModeJD, results[2].Mode)
}

func TestScoreBatch_Error(t *testing.T) {
	inputs := []Input{
		{Text: sampleResume},
		{Data: &types.ResumeData{Email: "bad"}},
	}
	_, err := ScoreBatch(context.Background(), inputs, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to score input 1")
}
