package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/bullets"
	"github.com/jonathan/resume-scorer/internal/llm"
	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/rewriting"
	"github.com/jonathan/resume-scorer/internal/types"
)

var fixBulletsCmd = &cobra.Command{
	Use:   "fix-bullets",
	Short: "Shorten bullets that exceed the length budget",
	Long: `Fixes bullets longer than the budget while keeping every metric.

By default the deterministic fixer compresses, splits or truncates each bullet. With --ai a
Gemini model rewrites them instead; any rewrite that drops a metric or still runs long is
replaced by the deterministic fix.`,
	RunE: runFixBullets,
}

var (
	fixBullet         string
	fixResumeData     string
	fixOutput         string
	fixMaxBulletChars int
	fixAI             bool
	fixAPIKey         string
	fixJSON           bool
)

func init() {
	fixBulletsCmd.Flags().StringVar(&fixBullet, "bullet", "", "A single bullet to fix")
	fixBulletsCmd.Flags().StringVar(&fixResumeData, "resume-data", "", "Path to structured resume JSON whose bullets should be fixed")
	fixBulletsCmd.Flags().StringVarP(&fixOutput, "out", "o", "", "Write the fixed resume JSON to this file")
	fixBulletsCmd.Flags().IntVar(&fixMaxBulletChars, "max-bullet-chars", 0, "Bullet length budget (default 120)")
	fixBulletsCmd.Flags().BoolVar(&fixAI, "ai", false, "Rewrite bullets with Gemini")
	fixBulletsCmd.Flags().StringVar(&fixAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	fixBulletsCmd.Flags().BoolVar(&fixJSON, "json", false, "Print JSON instead of the summary")

	rootCmd.AddCommand(fixBulletsCmd)
}

func runFixBullets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if (fixBullet == "") == (fixResumeData == "") {
		return fmt.Errorf("exactly one of --bullet or --resume-data is required")
	}
	if fixOutput != "" && fixResumeData == "" {
		return fmt.Errorf("--out requires --resume-data")
	}

	maxChars := fixMaxBulletChars
	if maxChars == 0 {
		maxChars = fileConfig.MaxBulletChars
	}
	fixer := bullets.New(maxChars)

	var data *types.ResumeData
	if fixResumeData != "" {
		resume, err := loadResume(ctx, "", fixResumeData)
		if err != nil {
			return err
		}
		data = resume.Data
	}

	var (
		fixed *types.ResumeData
		fixes []types.BulletFix
	)
	if fixAI {
		apiKey := fixAPIKey
		if apiKey == "" {
			apiKey = fileConfig.APIKey
		}
		if apiKey == "" {
			return fmt.Errorf("--ai requires GEMINI_API_KEY or --api-key")
		}
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()

		rewriter := rewriting.New(client, fixer)
		var results []rewriting.Result
		if data != nil {
			fixed, results, err = rewriter.RewriteResume(ctx, data)
		} else {
			var res rewriting.Result
			res, err = rewriter.Rewrite(ctx, fixBullet)
			results = []rewriting.Result{res}
		}
		if err != nil {
			return fmt.Errorf("failed to rewrite bullets: %w", err)
		}
		for _, r := range results {
			if r.FallbackReason != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Used deterministic fix for %q: %s\n", truncateLine(r.Before), r.FallbackReason)
			}
			fixes = append(fixes, r.BulletFix)
		}
	} else if data != nil {
		fixed, fixes = fixer.FixResume(data)
	} else {
		fixes = []types.BulletFix{fixer.Fix(fixBullet)}
	}

	if fixOutput != "" {
		if err := writeJSON(cmd.OutOrStdout(), fixOutput, fixed); err != nil {
			return err
		}
	}
	if fixJSON {
		return writeJSON(cmd.OutOrStdout(), "", fixes)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintBulletFixes(fixes)
	return nil
}

func truncateLine(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}
