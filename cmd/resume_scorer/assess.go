package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/quality"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Check whether a resume is complete enough to score reliably",
	RunE:  runAssess,
}

var (
	assessResume     string
	assessResumeData string
	assessJSON       bool
)

func init() {
	assessCmd.Flags().StringVarP(&assessResume, "resume", "r", "", "Path to resume (pdf, docx, html or text)")
	assessCmd.Flags().StringVar(&assessResumeData, "resume-data", "", "Path to structured resume JSON")
	assessCmd.Flags().BoolVar(&assessJSON, "json", false, "Print JSON instead of the summary")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	resume, err := loadResume(cmd.Context(), assessResume, assessResumeData)
	if err != nil {
		return err
	}
	q := quality.AssessInputQuality(resume.Text, resume.Data)
	if assessJSON {
		return writeJSON(cmd.OutOrStdout(), "", q)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintQuality(q)
	return nil
}
