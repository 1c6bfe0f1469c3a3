package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/analyzers"
	"github.com/jonathan/resume-scorer/internal/types"
)

func TestMatchBand(t *testing.T) {
	tests := []struct {
		score float64
		band  types.MatchBand
		prob  string
	}{
		{100, types.BandExcellent, "70-85%"},
		{90, types.BandExcellent, "70-85%"},
		{89.9, types.BandVeryGood, "55-70%"},
		{70, types.BandGood, "40-55%"},
		{65, types.BandFair, "25-40%"},
		{50, types.BandBelowAverage, "15-25%"},
		{45, types.BandPoor, "8-15%"},
		{30, types.BandVeryPoor, "3-8%"},
		{20, types.BandInadequate, "1-3%"},
		{19.9, types.BandMinimal, "<1%"},
		{0, types.BandMinimal, "<1%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.band, MatchBand(tt.score), "score %v", tt.score)
		assert.Equal(t, tt.prob, InterviewProbability(tt.score), "score %v", tt.score)
	}
}

func TestBaseScore(t *testing.T) {
	scores := types.TierScores{
		types.TierExperience: {Key: types.TierExperience, WeightedContribution: 40},
		types.TierFormatting: {Key: types.TierFormatting, WeightedContribution: 30},
	}

	assert.Equal(t, 70.0, BaseScore(scores, 0, nil))
	assert.Equal(t, 64.0, BaseScore(scores, 6, nil))

	strong := &types.CriticalMetrics{TotalScore: 19, MaxScore: Big5Max}
	assert.Equal(t, 75.0, BaseScore(scores, 0, strong))
	weak := &types.CriticalMetrics{TotalScore: 0, MaxScore: Big5Max}
	assert.Equal(t, 65.0, BaseScore(scores, 0, weak))

	assert.Equal(t, 0.0, BaseScore(scores, 90, nil))
	over := types.TierScores{types.TierExperience: {WeightedContribution: 99}}
	assert.Equal(t, 100.0, BaseScore(over, 0, strong))
}

func TestConfidenceFor(t *testing.T) {
	good := types.InputQualityAssessment{IsValid: true, Quality: types.QualityGood}
	fair := types.InputQualityAssessment{IsValid: true, Quality: types.QualityFair}
	poor := types.InputQualityAssessment{IsValid: true, Quality: types.QualityPoor}
	invalid := types.InputQualityAssessment{Quality: types.QualityInvalid}

	tests := []struct {
		name     string
		mode     types.ScoringMode
		q        types.InputQualityAssessment
		degraded int
		want     types.Confidence
	}{
		{"jd and good input", types.ModeJD, good, 0, types.ConfidenceHigh},
		{"general mode caps at medium", types.ModeGeneral, good, 0, types.ConfidenceMedium},
		{"one degraded tier", types.ModeJD, good, 1, types.ConfidenceMedium},
		{"fair input", types.ModeJD, fair, 0, types.ConfidenceMedium},
		{"poor input", types.ModeJD, poor, 0, types.ConfidenceLow},
		{"invalid input", types.ModeJD, invalid, 0, types.ConfidenceLow},
		{"two degraded tiers", types.ModeJD, good, 2, types.ConfidenceLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfidenceFor(tt.mode, tt.q, tt.degraded))
		})
	}
}

func TestMissingKeywords(t *testing.T) {
	assert.NotNil(t, MissingKeywords(nil))
	assert.Empty(t, MissingKeywords(nil))

	km := &analyzers.KeywordMatch{Missing: []analyzers.JDKeyword{
		{Term: "mentoring", Tier: types.KeywordNiceToHave},
		{Term: "terraform", Tier: types.KeywordImportant, Tech: true},
		{Term: "kubernetes", Tier: types.KeywordCritical, Tech: true},
		{Term: "stakeholders", Tier: types.KeywordCritical},
	}}
	got := MissingKeywords(km)
	require.Len(t, got, 4)

	assert.Equal(t, "kubernetes", got[0].Keyword)
	assert.Equal(t, "stakeholders", got[1].Keyword)
	assert.Equal(t, "terraform", got[2].Keyword)
	assert.Equal(t, "mentoring", got[3].Keyword)

	assert.Equal(t, 5.0, got[0].Impact)
	assert.Equal(t, "red", got[0].Color)
	assert.Contains(t, got[0].SuggestedPlacement, "Skills")
	assert.Equal(t, "Summary and experience bullets", got[1].SuggestedPlacement)
	assert.Equal(t, "orange", got[2].Color)
	assert.Equal(t, 1.0, got[3].Impact)
	assert.Equal(t, "yellow", got[3].Color)
}

func TestGuard(t *testing.T) {
	assert.Nil(t, guard("ok", func() {}))

	err := guard("sections", func() { panic("index out of range") })
	require.NotNil(t, err)
	assert.Equal(t, "sections", err.Analyzer)
	assert.Equal(t, "index out of range", err.Message)
	assert.Equal(t, "analyzer sections failed: index out of range", err.Error())

	cause := errors.New("nil map")
	err = guard("red_flags", func() { panic(cause) })
	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "analyzer red_flags failed: panic: nil map", err.Error())
}

func TestTitleFromJD(t *testing.T) {
	assert.Equal(t, "Senior Backend Engineer", titleFromJD("\n  Senior Backend Engineer:\nWe build things."))
	assert.Empty(t, titleFromJD("We are looking for an engineer who loves distributed systems and coffee."))
	assert.Empty(t, titleFromJD(""))
}

func TestTitleOverlap(t *testing.T) {
	assert.Equal(t, 1.0, titleOverlap("Backend Platform Engineer", "Senior Backend Platform Engineer"))
	assert.Equal(t, 0.5, titleOverlap("Backend Platform Engineer", "Data Platform Engineer"))
	assert.Equal(t, 0.0, titleOverlap("Backend Platform Engineer", "Product Designer"))
	assert.Equal(t, 0.0, titleOverlap("Senior Engineer", "Senior Engineer"), "only generic words")
}

func TestCriticalMetric(t *testing.T) {
	m := criticalMetric(7, maxKeywordMatch, "over")
	assert.Equal(t, maxKeywordMatch, m.Score)
	assert.Equal(t, 100.0, m.Percentage)

	m = criticalMetric(1.5, maxTitleRelevance, "half")
	assert.Equal(t, 50.0, m.Percentage)
	assert.Equal(t, types.StatusForPercentage(50), m.Status)
	assert.Equal(t, 19.0, Big5Max)
}
