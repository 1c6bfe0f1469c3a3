// Package tiers implements the ten tier analyzers. Each reads the shared extraction
// results in a Context and returns a 0-10 TierScore; weighting happens elsewhere.
package tiers

import (
	"strings"

	"github.com/jonathan/resume-scorer/internal/analyzers"
	"github.com/jonathan/resume-scorer/internal/formatting"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

// MinJDChars is the shortest job description that switches scoring to JD mode.
const MinJDChars = 250

// Mode returns the scoring mode implied by a job description.
func Mode(jd string) types.ScoringMode {
	if len(strings.TrimSpace(jd)) >= MinJDChars {
		return types.ModeJD
	}
	return types.ModeGeneral
}

// lazy memoizes one extraction. A panicking extraction is not memoized, so every tier that
// depends on it fails the same way.
type lazy[T any] struct {
	done bool
	v    T
}

func (l *lazy[T]) get(f func() T) T {
	if !l.done {
		l.v = f()
		l.done = true
	}
	return l.v
}

// Context is the per-resume state shared by the tier analyzers. Extractions run on first
// use. A Context is not safe for concurrent use.
type Context struct {
	Text           string
	Data           *types.ResumeData
	JobDescription string
	Layout         types.DocumentLayout
	Role           *types.RoleClassification

	sections     lazy[*types.SectionAnalysis]
	contact      lazy[analyzers.ContactMetrics]
	experience   lazy[analyzers.ExperienceMetrics]
	education    lazy[analyzers.EducationMetrics]
	skills       lazy[analyzers.SkillMetrics]
	keywords     lazy[*analyzers.KeywordMatch]
	projects     lazy[analyzers.ProjectMetrics]
	quality      lazy[analyzers.QualityMetrics]
	achievements lazy[analyzers.AchievementMetrics]
	redFlags     lazy[types.RedFlagReport]
	formatting   lazy[types.FormattingAssessment]
}

// NewContext returns a Context for a resume. When text is empty it is rendered from data.
func NewContext(text string, data *types.ResumeData, jd string) *Context {
	if strings.TrimSpace(text) == "" && data != nil {
		text = data.Text()
	}
	return &Context{Text: text, Data: data, JobDescription: jd}
}

// Mode returns the scoring mode for this resume.
func (c *Context) Mode() types.ScoringMode {
	return Mode(c.JobDescription)
}

// Sections returns the detected sections.
func (c *Context) Sections() *types.SectionAnalysis {
	return c.sections.get(func() *types.SectionAnalysis { return sections.Detect(c.Text) })
}

// Contact returns contact signals.
func (c *Context) Contact() analyzers.ContactMetrics {
	return c.contact.get(func() analyzers.ContactMetrics {
		return analyzers.AnalyzeContact(c.Text, c.Data, c.Sections())
	})
}

// Experience returns experience bullet and tenure signals.
func (c *Context) Experience() analyzers.ExperienceMetrics {
	return c.experience.get(func() analyzers.ExperienceMetrics {
		return analyzers.AnalyzeExperience(c.Text, c.Data, c.Sections())
	})
}

// Education returns degree, institution and certification signals.
func (c *Context) Education() analyzers.EducationMetrics {
	return c.education.get(func() analyzers.EducationMetrics {
		return analyzers.AnalyzeEducation(c.Text, c.Data, c.Sections(), c.JobDescription)
	})
}

// Skills returns listed skills.
func (c *Context) Skills() analyzers.SkillMetrics {
	return c.skills.get(func() analyzers.SkillMetrics {
		return analyzers.AnalyzeSkills(c.Text, c.Data, c.Sections())
	})
}

// Keywords returns the job-description keyword match, or nil in general mode.
func (c *Context) Keywords() *analyzers.KeywordMatch {
	return c.keywords.get(func() *analyzers.KeywordMatch {
		if c.Mode() != types.ModeJD {
			return nil
		}
		km := analyzers.MatchKeywords(c.Text, c.JobDescription)
		return &km
	})
}

// Projects returns project signals.
func (c *Context) Projects() analyzers.ProjectMetrics {
	return c.projects.get(func() analyzers.ProjectMetrics {
		return analyzers.AnalyzeProjects(c.Data, c.Sections())
	})
}

// Quality returns clarity, grammar and tech-stack signals over experience and project bullets.
func (c *Context) Quality() analyzers.QualityMetrics {
	return c.quality.get(func() analyzers.QualityMetrics {
		bullets := analyzers.ExperienceBullets(c.Text, c.Data, c.Sections())
		bullets = append(bullets, c.Projects().Bullets...)
		return analyzers.AnalyzeQuality(c.Text, bullets, c.roleContext())
	})
}

// Achievements returns competitive signals.
func (c *Context) Achievements() analyzers.AchievementMetrics {
	return c.achievements.get(func() analyzers.AchievementMetrics {
		return analyzers.AnalyzeAchievements(c.Text, c.Data)
	})
}

// RedFlags returns the red flag report.
func (c *Context) RedFlags() types.RedFlagReport {
	return c.redFlags.get(func() types.RedFlagReport {
		return analyzers.DetectRedFlags(analyzers.RedFlagInput{
			Text:       c.Text,
			Contact:    c.Contact(),
			Experience: c.Experience(),
			Projects:   c.Projects(),
			Skills:     c.Skills(),
			Quality:    c.Quality(),
			Keywords:   c.Keywords(),
			ImageBased: c.Layout.ImageBased,
		})
	})
}

// Formatting returns the formatting assessment.
func (c *Context) Formatting() types.FormattingAssessment {
	return c.formatting.get(func() types.FormattingAssessment {
		return formatting.Analyze(types.Document{Text: c.Text, Layout: c.Layout})
	})
}

// SetFormatting reuses an assessment computed by the caller.
func (c *Context) SetFormatting(a types.FormattingAssessment) {
	c.formatting = lazy[types.FormattingAssessment]{done: true, v: a}
}

func (c *Context) roleContext() string {
	if strings.TrimSpace(c.JobDescription) != "" {
		return c.JobDescription
	}
	if c.Role != nil {
		return c.Role.RoleType
	}
	return ""
}
