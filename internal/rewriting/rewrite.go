package rewriting

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/jonathan/resume-scorer/internal/bullets"
	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/prompts"
	"github.com/jonathan/resume-scorer/internal/types"
)

const promptFile = "rewriting.json"

// DefaultRetries is how many corrective prompts follow a rejected rewrite.
const DefaultRetries = 1

// Result is a bullet fix plus how it was obtained.
type Result struct {
	types.BulletFix
	Attempts int `json:"attempts"`
	// FallbackReason is set when the deterministic fix replaced the model's output.
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// AIRewriter shortens bullets with a language model. Every rewrite goes through the
// fixer's verification; one that still breaks a rule after the retries is replaced by the
// fixer's own result.
type AIRewriter struct {
	client  llm.Client
	fixer   *bullets.Fixer
	tier    llm.ModelTier
	retries int
}

// Option configures an AIRewriter.
type Option func(*AIRewriter)

// WithRetries sets the number of corrective prompts.
func WithRetries(n int) Option {
	return func(r *AIRewriter) {
		if n >= 0 {
			r.retries = n
		}
	}
}

// WithTier selects the model tier.
func WithTier(tier llm.ModelTier) Option {
	return func(r *AIRewriter) { r.tier = tier }
}

// New creates an AIRewriter. A nil fixer uses the default character budget.
func New(client llm.Client, fixer *bullets.Fixer, opts ...Option) *AIRewriter {
	if fixer == nil {
		fixer = bullets.New(0)
	}
	r := &AIRewriter{client: client, fixer: fixer, tier: llm.TierStandard, retries: DefaultRetries}
	for _, o := range opts {
		o(r)
	}
	return r
}

type rewriteResponse struct {
	Bullets []string `json:"bullets"`
}

// Rewrite shortens one bullet. Bullets within budget are returned unchanged without a model
// call. The only error returned is the context's.
func (r *AIRewriter) Rewrite(ctx context.Context, bullet string) (Result, error) {
	if r.fixer.Fits(bullet) {
		return Result{BulletFix: r.fixer.Fix(bullet)}, nil
	}

	metrics := r.fixer.MetricTokens(bullet)
	data := map[string]any{
		"MaxChars": r.fixer.MaxChars(),
		"Metrics":  metricList(metrics),
		"Length":   len([]rune(bullet)),
		"Bullet":   bullet,
	}
	key := "shorten-bullet"

	var reason string
	attempts := 0
	for attempts <= r.retries {
		prompt, err := prompts.Render(promptFile, key, data)
		if err != nil {
			reason = err.Error()
			break
		}
		attempts++

		raw, err := r.client.GenerateJSON(ctx, prompt, r.tier)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			reason = (&APICallError{Message: "failed to rewrite bullet", Cause: err}).Error()
			break
		}

		fix := types.BulletFix{Before: bullet, Strategy: types.StrategyAIRewrite}
		fix.After, err = parseResponse(raw)
		var problems []string
		if err != nil {
			problems = []string{err.Error()}
		} else {
			r.fixer.Verify(&fix)
			problems = Check(r.fixer, fix)
		}
		if len(problems) == 0 {
			return Result{BulletFix: fix, Attempts: attempts}, nil
		}

		reason = strings.Join(problems, "; ")
		key = "shorten-bullet-retry"
		data["Problem"] = reason
		slog.Debug("rewrite rejected", slog.Int("attempt", attempts), slog.String("problems", reason))
	}

	slog.Warn("falling back to deterministic bullet fix", slog.String("reason", reason))
	return Result{BulletFix: r.fixer.Fix(bullet), Attempts: attempts, FallbackReason: reason}, nil
}

// RewriteResume rewrites every over-budget bullet of data, returning a new ResumeData and
// the per-bullet results in document order. data is not modified.
func (r *AIRewriter) RewriteResume(ctx context.Context, data *types.ResumeData) (*types.ResumeData, []Result, error) {
	results := []Result{}
	var firstErr error
	out, _ := r.fixer.Apply(data, func(b string) types.BulletFix {
		if firstErr != nil {
			return types.BulletFix{Before: b, After: []string{b}, Strategy: types.StrategyNone}
		}
		res, err := r.Rewrite(ctx, b)
		if err != nil {
			firstErr = err
			return types.BulletFix{Before: b, After: []string{b}, Strategy: types.StrategyNone}
		}
		results = append(results, res)
		return res.BulletFix
	})
	if firstErr != nil {
		return nil, nil, firstErr
	}
	return out, results, nil
}

func parseResponse(raw string) ([]string, error) {
	var resp rewriteResponse
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &resp); err != nil {
		return nil, &ParseError{Message: "response is not the expected JSON", Cause: err}
	}
	out := make([]string, 0, len(resp.Bullets))
	for _, b := range resp.Bullets {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, &ParseError{Message: "response holds no bullets"}
	}
	return out, nil
}

func metricList(tokens []string) string {
	if len(tokens) == 0 {
		return "(none)"
	}
	return strings.Join(tokens, ", ")
}
