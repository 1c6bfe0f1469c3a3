package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-scorer/internal/bullets"
	"github.com/jonathan/resume-scorer/internal/evidence"
	"github.com/jonathan/resume-scorer/internal/formatting"
	"github.com/jonathan/resume-scorer/internal/quality"
	"github.com/jonathan/resume-scorer/internal/roles"
	"github.com/jonathan/resume-scorer/internal/tiers"
	"github.com/jonathan/resume-scorer/internal/types"
	"github.com/jonathan/resume-scorer/internal/weights"
)

// DefaultConcurrency bounds ScoreBatch when no limit is given.
const DefaultConcurrency = 4

// Input is one resume to score. Either Text or Data must carry the resume.
type Input struct {
	Text           string                      `json:"text,omitempty"`
	Data           *types.ResumeData           `json:"resume_data,omitempty"`
	JobDescription string                      `json:"job_description,omitempty"`
	JobTitle       string                      `json:"job_title,omitempty"`
	CompanyName    string                      `json:"company_name,omitempty"`
	UserType       types.UserType              `json:"user_type,omitempty"`
	Level          types.CandidateLevel        `json:"level,omitempty"`
	Layout         types.DocumentLayout        `json:"layout"`
	MaxBulletChars int                         `json:"max_bullet_chars,omitempty"`
	SourceName     string                      `json:"source_name,omitempty"`
	Formatting     *types.FormattingAssessment `json:"-"`
}

// Result is the complete scoring report for one resume.
type Result struct {
	ID         uuid.UUID            `json:"id"`
	CreatedAt  time.Time            `json:"created_at"`
	SourceName string               `json:"source_name,omitempty"`
	Mode       types.ScoringMode    `json:"mode"`
	Level      types.CandidateLevel `json:"level"`

	Final types.FinalScore `json:"final"`
	// Trustworthy is false when the input failed the quality gate; the numeric score must
	// then be shown as provisional.
	Trustworthy bool                         `json:"trustworthy"`
	Quality     types.InputQualityAssessment `json:"input_quality"`

	Tiers           []types.TierScore         `json:"tiers"`
	CriticalMetrics *types.CriticalMetrics    `json:"critical_metrics,omitempty"`
	RedFlags        types.RedFlagReport       `json:"red_flags"`
	MissingKeywords []types.MissingKeyword    `json:"missing_keywords"`
	Role            *types.RoleClassification `json:"role,omitempty"`

	Formatting       types.FormattingAssessment `json:"formatting"`
	Evidence         types.EvidenceLockedScore  `json:"evidence_locked"`
	BulletViolations []types.BulletViolation    `json:"bullet_violations"`
	Sections         *types.SectionAnalysis     `json:"sections"`

	// Warnings lists analyzers that failed and were replaced by neutral values.
	Warnings []string `json:"warnings"`
}

// Score runs the full pipeline over one resume. Content problems never produce an error;
// they surface through Quality, Trustworthy and Warnings. An error is returned only for
// structurally invalid Data or a cancelled context.
func Score(ctx context.Context, in Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Data != nil {
		if err := in.Data.Validate(); err != nil {
			return nil, err
		}
	}

	c := tiers.NewContext(in.Text, in.Data, in.JobDescription)
	c.Layout = in.Layout
	if in.Formatting != nil {
		c.SetFormatting(*in.Formatting)
	}

	res := &Result{
		ID:               uuid.New(),
		CreatedAt:        time.Now().UTC(),
		SourceName:       in.SourceName,
		Mode:             c.Mode(),
		MissingKeywords:  []types.MissingKeyword{},
		BulletViolations: []types.BulletViolation{},
		RedFlags:         types.RedFlagReport{Flags: []types.RedFlag{}},
		Warnings:         []string{},
	}
	warn := func(err *AnalyzerError) {
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
		}
	}

	if strings.TrimSpace(in.JobDescription) != "" {
		warn(guard("role_classifier", func() {
			role := roles.Classify(in.JobDescription, in.CompanyName)
			res.Role = &role
			c.Role = &role
		}))
	}

	warn(guard("sections", func() { res.Sections = c.Sections() }))
	if err := guard("formatting", func() { res.Formatting = c.Formatting() }); err != nil {
		res.Formatting = formatting.Fallback(err.Message)
		c.SetFormatting(res.Formatting)
		warn(err)
	}

	res.Quality = types.InputQualityAssessment{
		Quality: types.QualityInvalid,
		Issues:  []string{"Input quality could not be assessed"},
	}
	warn(guard("input_quality", func() { res.Quality = quality.Assess(c.Text, c.Data, c.Sections()) }))
	res.Trustworthy = res.Quality.IsValid

	res.Level = in.Level
	if res.Level == "" {
		res.Level = types.LevelMid
		warn(guard("level", func() {
			m := c.Experience()
			res.Level = weights.InferLevel(m.YearsOfExperience, m.PositionCount, in.UserType)
		}))
	}

	scores := make(types.TierScores, len(types.AllTiers))
	for _, a := range tiers.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var ts types.TierScore
		err := guard(string(a.Key), func() { ts = a.Analyze(c) })
		if err != nil {
			ts = tiers.Neutral(a.Key, err.Message)
			warn(err)
		}
		scores[a.Key] = ts
	}
	weighted := weights.Apply(scores, weights.For(res.Level, res.Mode))
	res.Tiers = weighted.Ordered()

	warn(guard("red_flags", func() { res.RedFlags = c.RedFlags() }))
	if res.Mode == types.ModeJD {
		warn(guard("critical_metrics", func() {
			m := CriticalMetrics(c, in.JobTitle)
			res.CriticalMetrics = &m
		}))
		warn(guard("missing_keywords", func() { res.MissingKeywords = MissingKeywords(c.Keywords()) }))
	}

	base := BaseScore(weighted, res.RedFlags.TotalPenalty, res.CriticalMetrics)
	overall := quality.CalculateAdjustedScore(base, res.Quality, res.Level)
	res.Final = types.FinalScore{
		Overall:                   overall,
		MatchBand:                 MatchBand(overall),
		Confidence:                ConfidenceFor(res.Mode, res.Quality, weighted.DegradedCount()),
		InterviewProbabilityRange: InterviewProbability(overall),
		BaseScore:                 base,
		Mode:                      res.Mode,
	}

	warn(guard("evidence", func() {
		fa := res.Formatting
		res.Evidence = evidence.Score(evidence.Input{
			Text:           c.Text,
			Data:           c.Data,
			JobDescription: in.JobDescription,
			Role:           res.Role,
			Formatting:     &fa,
		})
	}))
	warn(guard("bullets", func() { res.BulletViolations = bullets.New(in.MaxBulletChars).Scan(in.Data) }))

	slog.Debug("scored resume",
		"id", res.ID,
		"mode", res.Mode,
		"level", res.Level,
		"overall", overall,
		"quality", res.Quality.Quality,
		"warnings", len(res.Warnings))
	return res, nil
}

// ScoreBatch scores inputs with at most concurrency resumes in flight. Results keep the
// order of inputs. The first error cancels the remaining work.
func ScoreBatch(ctx context.Context, inputs []Input, concurrency int) ([]*Result, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	results := make([]*Result, len(inputs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			res, err := Score(gCtx, in)
			if err != nil {
				return fmt.Errorf("failed to score input %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
