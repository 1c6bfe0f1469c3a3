package rewriting

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-scorer/internal/bullets"
	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/types"
)

// maxParts is the most bullets a rewrite may turn one bullet into.
const maxParts = 2

// Check lists the rules a verified rewrite breaks. An empty result means the rewrite can
// replace the original bullet.
func Check(fixer *bullets.Fixer, fix types.BulletFix) []string {
	var problems []string
	switch {
	case len(fix.After) == 0:
		return []string{"returned no bullets"}
	case len(fix.After) > maxParts:
		problems = append(problems, fmt.Sprintf("returned %d bullets, at most %d allowed", len(fix.After), maxParts))
	}

	for i, b := range fix.After {
		if strings.TrimSpace(b) == "" {
			problems = append(problems, fmt.Sprintf("bullet %d is empty", i+1))
			continue
		}
		if !fixer.Fits(b) {
			problems = append(problems, fmt.Sprintf("bullet %d is %d characters, over the %d limit", i+1, len([]rune(b)), fixer.MaxChars()))
		}
		if phrase := fillerIn(b); phrase != "" {
			problems = append(problems, fmt.Sprintf("bullet %d uses the filler phrase %q", i+1, phrase))
		}
	}
	if !fix.MetricsPreserved {
		problems = append(problems, "dropped metrics "+strings.Join(fix.LostMetrics, ", "))
	}
	if !fix.StarPreserved {
		problems = append(problems, "changed the opening action verb or dropped every number")
	}
	return problems
}

func fillerIn(s string) string {
	lower := " " + strings.ToLower(s) + " "
	for _, p := range rubric.Default().Bullets.FillerPhrases {
		if strings.Contains(lower, " "+p) {
			return strings.TrimSpace(p)
		}
	}
	return ""
}
