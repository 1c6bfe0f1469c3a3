package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/sections"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Detect resume sections and check their order",
	RunE:  runSections,
}

var (
	sectionsResume string
	sectionsJSON   bool
)

func init() {
	sectionsCmd.Flags().StringVarP(&sectionsResume, "resume", "r", "", "Path to resume (pdf, docx, html or text)")
	sectionsCmd.Flags().BoolVar(&sectionsJSON, "json", false, "Print JSON instead of the summary")
	_ = sectionsCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, _ []string) error {
	resume, err := loadResume(cmd.Context(), sectionsResume, "")
	if err != nil {
		return err
	}
	analysis := sections.Detect(resume.Text)
	if sectionsJSON {
		return writeJSON(cmd.OutOrStdout(), "", analysis)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSections(analysis)
	return nil
}
