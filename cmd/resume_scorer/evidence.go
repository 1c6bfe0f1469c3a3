package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/evidence"
	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/roles"
	"github.com/jonathan/resume-scorer/internal/types"
)

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Score job fit counting only claims backed by evidence",
	Long: `Scores the resume against a job description where every component must cite
resume evidence. Components without evidence are blocked and contribute nothing.`,
	RunE: runEvidence,
}

var (
	evidenceResume     string
	evidenceResumeData string
	evidenceJob        string
	evidenceJobURL     string
	evidenceCompany    string
	evidenceUseBrowser bool
	evidenceJSON       bool
)

func init() {
	evidenceCmd.Flags().StringVarP(&evidenceResume, "resume", "r", "", "Path to resume (pdf, docx, html or text)")
	evidenceCmd.Flags().StringVar(&evidenceResumeData, "resume-data", "", "Path to structured resume JSON")
	evidenceCmd.Flags().StringVarP(&evidenceJob, "job", "j", "", "Path to job description file")
	evidenceCmd.Flags().StringVar(&evidenceJobURL, "job-url", "", "URL to fetch the job description from")
	evidenceCmd.Flags().StringVar(&evidenceCompany, "company", "", "Company name")
	evidenceCmd.Flags().BoolVar(&evidenceUseBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	evidenceCmd.Flags().BoolVar(&evidenceJSON, "json", false, "Print JSON instead of the summary")

	rootCmd.AddCommand(evidenceCmd)
}

func runEvidence(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	resume, err := loadResume(ctx, evidenceResume, evidenceResumeData)
	if err != nil {
		return err
	}
	jd, err := loadJob(ctx, evidenceJob, evidenceJobURL, evidenceUseBrowser)
	if err != nil {
		return err
	}

	var role *types.RoleClassification
	if strings.TrimSpace(jd) != "" {
		r := roles.Classify(jd, evidenceCompany)
		role = &r
	}
	score := evidence.Score(evidence.Input{
		Text:           resume.Text,
		Data:           resume.Data,
		JobDescription: jd,
		Role:           role,
	})
	if evidenceJSON {
		return writeJSON(cmd.OutOrStdout(), "", score)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintEvidence(score)
	return nil
}
