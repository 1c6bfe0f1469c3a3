package scoring

import (
	"math"
	"sort"

	"github.com/jonathan/resume-scorer/internal/analyzers"
	"github.com/jonathan/resume-scorer/internal/types"
)

// big5Swing is how many points the Big 5 total can move the score either way in JD mode.
const big5Swing = 10.0

// band is one row of the final-score band table.
type band struct {
	min         float64
	name        types.MatchBand
	probability string
}

var bands = []band{
	{90, types.BandExcellent, "70-85%"},
	{80, types.BandVeryGood, "55-70%"},
	{70, types.BandGood, "40-55%"},
	{60, types.BandFair, "25-40%"},
	{50, types.BandBelowAverage, "15-25%"},
	{40, types.BandPoor, "8-15%"},
	{30, types.BandVeryPoor, "3-8%"},
	{20, types.BandInadequate, "1-3%"},
	{0, types.BandMinimal, "<1%"},
}

func bandFor(score float64) band {
	for _, b := range bands {
		if score >= b.min {
			return b
		}
	}
	return bands[len(bands)-1]
}

// MatchBand returns the band label for a final score.
func MatchBand(score float64) types.MatchBand {
	return bandFor(score).name
}

// InterviewProbability returns the interview-probability range for a final score.
func InterviewProbability(score float64) string {
	return bandFor(score).probability
}

// BaseScore combines weighted tier contributions with the red-flag penalty and, in JD
// mode, the Big 5 adjustment. The result is clamped to [0, 100].
func BaseScore(scores types.TierScores, redFlagPenalty int, big5 *types.CriticalMetrics) float64 {
	base := scores.WeightedTotal() - float64(redFlagPenalty)
	if big5 != nil && big5.MaxScore > 0 {
		base += (big5.TotalScore/big5.MaxScore - 0.5) * big5Swing
	}
	return round1(math.Max(0, math.Min(100, base)))
}

// ConfidenceFor rates how far the final score can be trusted.
func ConfidenceFor(mode types.ScoringMode, q types.InputQualityAssessment, degraded int) types.Confidence {
	switch {
	case !q.IsValid || q.Quality.Rank() <= types.QualityPoor.Rank() || degraded >= 2:
		return types.ConfidenceLow
	case mode == types.ModeJD && q.Quality.Rank() >= types.QualityGood.Rank() && degraded == 0:
		return types.ConfidenceHigh
	default:
		return types.ConfidenceMedium
	}
}

var keywordImpact = map[types.KeywordTier]float64{
	types.KeywordCritical:   5,
	types.KeywordImportant:  3,
	types.KeywordNiceToHave: 1,
}

// MissingKeywords lists job keywords absent from the resume, highest impact first.
func MissingKeywords(km *analyzers.KeywordMatch) []types.MissingKeyword {
	out := []types.MissingKeyword{}
	if km == nil {
		return out
	}
	for _, k := range km.Missing {
		out = append(out, types.MissingKeyword{
			Keyword:            k.Term,
			Tier:               k.Tier,
			Impact:             keywordImpact[k.Tier],
			SuggestedPlacement: placement(k),
			Color:              k.Tier.Color(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Impact > out[j].Impact })
	return out
}

func placement(k analyzers.JDKeyword) string {
	switch {
	case k.Tech:
		return "Skills section and the experience bullets where you used it"
	case k.Tier == types.KeywordCritical:
		return "Summary and experience bullets"
	default:
		return "Experience bullets"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
