package formatting

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Violation types reported by Validate.
const (
	ViolationScoreBounds   = "score_out_of_bounds"
	ViolationPenaltySum    = "penalty_sum_mismatch"
	ViolationScorePenalty  = "score_penalty_mismatch"
	ViolationCompatibility = "compatibility_mismatch"
)

// Validate cross-checks an assessment: score bounds, penalty totals and the
// severity-to-compatibility rules. It returns every inconsistency found.
func Validate(a types.FormattingAssessment) []types.Violation {
	var violations []types.Violation
	add := func(kind, details string) {
		violations = append(violations, types.Violation{Type: kind, Severity: "error", Details: details})
	}

	if a.OverallScore < 0 || a.OverallScore > 100 {
		add(ViolationScoreBounds, fmt.Sprintf("overall score %.1f is outside [0, 100]", a.OverallScore))
	}

	sum := 0
	for _, i := range a.Issues {
		sum += i.Penalty
	}
	if sum != a.TotalPenalty {
		add(ViolationPenaltySum, fmt.Sprintf("issue penalties sum to %d but total penalty is %d", sum, a.TotalPenalty))
	}
	if !a.Fallback {
		expected := math.Max(0, math.Min(100, 100-float64(a.TotalPenalty)))
		if a.OverallScore != expected {
			add(ViolationScorePenalty, fmt.Sprintf("overall score %.1f does not match 100 - %d", a.OverallScore, a.TotalPenalty))
		}
	}

	if n := a.CountBySeverity(types.IssueSevere); n > 0 && a.ATSCompatibility != types.ATSLow {
		add(ViolationCompatibility, fmt.Sprintf("%d severe issue(s) but compatibility is %s", n, a.ATSCompatibility))
	}
	if n := a.CountBySeverity(types.IssueModerate); n > maxModerateForHigh && a.ATSCompatibility != types.ATSLow {
		add(ViolationCompatibility, fmt.Sprintf("%d moderate issues but compatibility is %s", n, a.ATSCompatibility))
	}
	return violations
}
