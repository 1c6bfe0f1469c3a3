package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/roles"
)

var classifyRoleCmd = &cobra.Command{
	Use:   "classify-role",
	Short: "Classify the role, seniority and domain of a job description",
	RunE:  runClassifyRole,
}

var (
	classifyJob        string
	classifyJobURL     string
	classifyCompany    string
	classifyUseBrowser bool
	classifyJSON       bool
)

func init() {
	classifyRoleCmd.Flags().StringVarP(&classifyJob, "job", "j", "", "Path to job description file")
	classifyRoleCmd.Flags().StringVar(&classifyJobURL, "job-url", "", "URL to fetch the job description from")
	classifyRoleCmd.Flags().StringVar(&classifyCompany, "company", "", "Company name")
	classifyRoleCmd.Flags().BoolVar(&classifyUseBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	classifyRoleCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print JSON instead of the summary")

	rootCmd.AddCommand(classifyRoleCmd)
}

func runClassifyRole(cmd *cobra.Command, _ []string) error {
	jd, err := loadJob(cmd.Context(), classifyJob, classifyJobURL, classifyUseBrowser)
	if err != nil {
		return err
	}
	if strings.TrimSpace(jd) == "" {
		return fmt.Errorf("a job description is required: use --job or --job-url")
	}
	role := roles.Classify(jd, classifyCompany)
	if classifyJSON {
		return writeJSON(cmd.OutOrStdout(), "", role)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRole(role)
	return nil
}
