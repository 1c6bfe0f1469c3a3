// Package weights selects and applies the per-candidate-level tier weight tables.
package weights

import (
	"log/slog"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Experience thresholds, in years, for InferLevel.
const (
	juniorYears = 2.0
	midYears    = 5.0
	fresherMax  = 1.0
)

// GetNormalizedWeights returns the ten tier weights for level, summing to 100.
// Unknown levels fall back to the mid table.
func GetNormalizedWeights(level types.CandidateLevel) map[types.TierKey]float64 {
	levels := rubric.Default().Weights.Levels
	table, ok := levels[level]
	if !ok {
		table = levels[types.LevelMid]
	}
	out := make(map[types.TierKey]float64, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// GeneralModeWeights returns the weights for level when no usable job description was given.
// Points move away from keyword matching toward content quality and formatting.
func GeneralModeWeights(level types.CandidateLevel) map[types.TierKey]float64 {
	w := GetNormalizedWeights(level)
	for k, delta := range rubric.Default().Weights.GeneralModeShift {
		w[k] += delta
	}
	return w
}

// For returns the weight table for level in the given scoring mode.
func For(level types.CandidateLevel, mode types.ScoringMode) map[types.TierKey]float64 {
	if mode == types.ModeGeneral {
		return GeneralModeWeights(level)
	}
	return GetNormalizedWeights(level)
}

// ApplyNormalizedWeights re-weights scores with the table for level.
func ApplyNormalizedWeights(scores types.TierScores, level types.CandidateLevel) types.TierScores {
	return Apply(scores, GetNormalizedWeights(level))
}

// Apply returns a new set of tier scores carrying the given weights. Percentages are kept;
// weighted contributions are recomputed. Entries that cannot be weighted are skipped.
func Apply(scores types.TierScores, table map[types.TierKey]float64) types.TierScores {
	out := make(types.TierScores, len(scores))
	for key, ts := range scores {
		if !ts.Valid() || ts.Key != key {
			slog.Warn("skipping invalid tier score", "tier", key, "percentage", ts.Percentage)
			continue
		}
		weight, ok := table[key]
		if !ok {
			slog.Warn("no weight for tier, skipping", "tier", key)
			continue
		}
		out[key] = ts.WithWeight(weight)
	}
	return out
}

// InferLevel derives the candidate level from experience evidence and the declared user type.
func InferLevel(years float64, positions int, userType types.UserType) types.CandidateLevel {
	if (userType == types.UserTypeFresher || userType == types.UserTypeStudent) && years < fresherMax {
		return types.LevelFresher
	}
	switch {
	case years == 0 && positions == 0:
		return types.LevelFresher
	case years < juniorYears:
		return types.LevelJunior
	case years < midYears:
		return types.LevelMid
	default:
		return types.LevelSenior
	}
}
