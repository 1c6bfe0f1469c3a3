package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/formatting"
	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/types"
)

var formatCheckCmd = &cobra.Command{
	Use:   "format-check",
	Short: "Report formatting that applicant tracking systems misread",
	RunE:  runFormatCheck,
}

var (
	formatResume string
	formatJSON   bool
)

func init() {
	formatCheckCmd.Flags().StringVarP(&formatResume, "resume", "r", "", "Path to resume (pdf, docx, html or text)")
	formatCheckCmd.Flags().BoolVar(&formatJSON, "json", false, "Print JSON instead of the summary")
	_ = formatCheckCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(formatCheckCmd)
}

func runFormatCheck(cmd *cobra.Command, _ []string) error {
	resume, err := loadResume(cmd.Context(), formatResume, "")
	if err != nil {
		return err
	}
	a := formatting.Analyze(types.Document{Name: resume.Name, Text: resume.Text, Layout: resume.Layout})
	if formatJSON {
		return writeJSON(cmd.OutOrStdout(), "", a)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintFormatting(a)
	return nil
}
