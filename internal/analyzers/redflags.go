package analyzers

import (
	"fmt"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/types"
)

// minMissingCritical is how many critical JD keywords must be missing to raise a flag.
const minMissingCritical = 3

// RedFlagInput bundles the signals red-flag detection needs.
type RedFlagInput struct {
	Text       string
	Contact    ContactMetrics
	Experience ExperienceMetrics
	Projects   ProjectMetrics
	Skills     SkillMetrics
	Quality    QualityMetrics
	Keywords   *KeywordMatch
	ImageBased bool
}

// DetectRedFlags raises every red flag whose condition holds and totals the penalties.
func DetectRedFlags(in RedFlagInput) types.RedFlagReport {
	r := tables()
	rf := &r.RedFlags
	report := types.RedFlagReport{Flags: []types.RedFlag{}}

	raise := func(flagType, detail string) {
		flag, ok := rf.Flag(flagType)
		if !ok {
			return
		}
		if detail != "" {
			flag.Description += " (" + detail + ")"
		}
		report.Flags = append(report.Flags, flag)
	}

	words := WordCount(in.Text)

	if !in.Contact.HasContactInfo() {
		raise("missing_contact", "")
	}
	if in.Contact.UnprofessionalEmail {
		raise("unprofessional_email", in.Contact.Email)
	}
	if len(in.Experience.GapsMonths) > 0 {
		longest := 0
		for _, g := range in.Experience.GapsMonths {
			if g > longest {
				longest = g
			}
		}
		raise("employment_gap", fmt.Sprintf("longest gap %d months", longest))
	}
	if in.Experience.ShortTenures >= 2 && in.Experience.PositionCount >= 3 {
		raise("job_hopping", fmt.Sprintf("%d short positions", in.Experience.ShortTenures))
	}
	if in.Experience.PositionCount > 0 && !in.Experience.HasDates {
		raise("missing_dates", "")
	}
	if in.Experience.BulletCount == 0 && in.Experience.PositionCount == 0 && in.Projects.Count == 0 {
		raise("no_experience_or_projects", "")
	}
	if in.Skills.UniqueCount > rf.MaxSkills {
		raise("skill_stuffing", fmt.Sprintf("%d skills", in.Skills.UniqueCount))
	}
	if in.Keywords != nil {
		if n := in.Keywords.MissingByTier(types.KeywordCritical); n >= minMissingCritical {
			raise("missing_critical_skills", fmt.Sprintf("%d missing", n))
		}
	}
	if term, ok := rubric.ContainsAny(in.Text, r.Tech.OutdatedSkills); ok {
		raise("outdated_skills", term)
	}
	switch {
	case words > 0 && words < rf.MinWords:
		raise("resume_too_short", fmt.Sprintf("%d words", words))
	case words > rf.MaxWords:
		raise("resume_too_long", fmt.Sprintf("%d words", words))
	}
	if in.Quality.FirstPersonCount >= 2 {
		raise("first_person", "")
	}
	if in.ImageBased {
		raise("image_based_document", "")
	}

	for _, f := range report.Flags {
		report.TotalPenalty += f.Penalty
		if f.Severity == types.SeverityCritical {
			report.CriticalCount++
		}
	}
	report.AutoRejectRisk = report.CriticalCount >= rf.AutoRejectCriticalCount
	return report
}
