package analyzers

import (
	"sort"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/types"
)

// AchievementMetrics counts competitive signals by kind.
type AchievementMetrics struct {
	Signals map[string]int `json:"signals"`
	Kinds   []string       `json:"kinds"`
	Count   int            `json:"count"`
}

// Has reports whether at least one signal of kind was found.
func (a AchievementMetrics) Has(kind string) bool {
	return a.Signals[kind] > 0
}

// AnalyzeAchievements looks for awards, publications, open-source work, leadership,
// competitions and patents across the whole resume.
func AnalyzeAchievements(text string, data *types.ResumeData) AchievementMetrics {
	a := AchievementMetrics{Signals: make(map[string]int), Kinds: []string{}}

	corpus := text
	if data != nil {
		for _, s := range data.Achievements {
			corpus += "\n" + s
		}
	}

	for kind, terms := range tables().Language.CompetitiveSignals {
		for _, term := range terms {
			if n := rubric.CountTerm(corpus, term); n > 0 {
				a.Signals[kind] += n
				a.Count += n
			}
		}
		if a.Signals[kind] > 0 {
			a.Kinds = append(a.Kinds, kind)
		}
	}
	sort.Strings(a.Kinds)
	return a
}
