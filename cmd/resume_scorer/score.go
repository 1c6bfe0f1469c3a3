package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume, optionally against a job description",
	Long: `Runs the full scoring pipeline over one resume.

With a job description of at least 250 characters the score is job-specific and includes
the Big 5 job-fit predictors and missing keywords; otherwise a general score is produced.`,
	RunE: runScore,
}

var (
	scoreResume         string
	scoreResumeData     string
	scoreJob            string
	scoreJobURL         string
	scoreJobTitle       string
	scoreCompany        string
	scoreUserType       string
	scoreLevel          string
	scoreOutput         string
	scoreJSON           bool
	scoreSave           bool
	scoreUseBrowser     bool
	scoreMaxBulletChars int
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResume, "resume", "r", "", "Path to resume (pdf, docx, html or text)")
	scoreCmd.Flags().StringVar(&scoreResumeData, "resume-data", "", "Path to structured resume JSON (mutually exclusive with --resume)")
	scoreCmd.Flags().StringVarP(&scoreJob, "job", "j", "", "Path to job description file")
	scoreCmd.Flags().StringVar(&scoreJobURL, "job-url", "", "URL to fetch the job description from")
	scoreCmd.Flags().StringVar(&scoreJobTitle, "job-title", "", "Target job title (defaults to the first line of the job description)")
	scoreCmd.Flags().StringVar(&scoreCompany, "company", "", "Company name, used for role classification")
	scoreCmd.Flags().StringVar(&scoreUserType, "user-type", "", "fresher, experienced or student")
	scoreCmd.Flags().StringVar(&scoreLevel, "level", "", "Candidate level override: fresher, junior, mid or senior")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Write the JSON report to this file")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the JSON report instead of the summary")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "Save the report to the configured store")
	scoreCmd.Flags().BoolVar(&scoreUseBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	scoreCmd.Flags().IntVar(&scoreMaxBulletChars, "max-bullet-chars", 0, "Bullet length budget (default 120)")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	flags := config.Config{
		Job:            scoreJob,
		JobURL:         scoreJobURL,
		Resume:         scoreResume,
		ResumeData:     scoreResumeData,
		UserType:       scoreUserType,
		Output:         scoreOutput,
		MaxBulletChars: scoreMaxBulletChars,
	}
	cfg := flags.MergeWithDefaults(fileConfig)
	// A resume or job given on the command line replaces the config file's choice.
	if scoreResume != "" || scoreResumeData != "" {
		cfg.Resume, cfg.ResumeData = scoreResume, scoreResumeData
	}
	if scoreJob != "" || scoreJobURL != "" {
		cfg.Job, cfg.JobURL = scoreJob, scoreJobURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	userType, err := parseUserType(cfg.UserType)
	if err != nil {
		return err
	}
	level, err := parseLevel(scoreLevel)
	if err != nil {
		return err
	}

	resume, err := loadResume(ctx, cfg.Resume, cfg.ResumeData)
	if err != nil {
		return err
	}
	jd, err := loadJob(ctx, cfg.Job, cfg.JobURL, scoreUseBrowser || cfg.UseBrowser)
	if err != nil {
		return err
	}

	res, err := scoring.Score(ctx, scoring.Input{
		Text:           resume.Text,
		Data:           resume.Data,
		JobDescription: jd,
		JobTitle:       scoreJobTitle,
		CompanyName:    scoreCompany,
		UserType:       userType,
		Level:          level,
		Layout:         resume.Layout,
		MaxBulletChars: cfg.MaxBulletChars,
		SourceName:     resume.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}

	if scoreSave {
		if err := saveReport(cmd, cfg, res, resume.Hash); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if cfg.Output != "" {
		if err := writeJSON(out, cfg.Output, res); err != nil {
			return err
		}
	}
	if scoreJSON {
		return writeJSON(out, "", res)
	}
	observability.NewPrinter(out).PrintScore(res)
	if cfg.Output != "" {
		fmt.Fprintf(out, "Report written to %s\n", cfg.Output)
	}
	return nil
}

func saveReport(cmd *cobra.Command, cfg config.Config, res *scoring.Result, hash string) error {
	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	report, err := db.NewReport(res, hash)
	if err != nil {
		return err
	}
	if err := store.SaveReport(cmd.Context(), report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved report %s\n", report.ID)
	return nil
}
