package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/ingestion"
)

var fetchJobCmd = &cobra.Command{
	Use:   "fetch-job",
	Short: "Fetch a job posting and extract its description",
	RunE:  runFetchJob,
}

var (
	fetchURL        string
	fetchOutput     string
	fetchUseBrowser bool
	fetchJSON       bool
)

func init() {
	fetchJobCmd.Flags().StringVarP(&fetchURL, "url", "u", "", "URL of the job posting")
	fetchJobCmd.Flags().StringVarP(&fetchOutput, "out", "o", "", "Write the description to this file instead of stdout")
	fetchJobCmd.Flags().BoolVar(&fetchUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	fetchJobCmd.Flags().BoolVar(&fetchJSON, "json", false, "Print the page with its platform as JSON")
	_ = fetchJobCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(fetchJobCmd)
}

func runFetchJob(cmd *cobra.Command, _ []string) error {
	page, err := ingestion.JobFromURL(cmd.Context(), fetchURL, jobOptions(fetchUseBrowser || fileConfig.UseBrowser))
	if err != nil {
		return err
	}
	if fetchJSON {
		return writeJSON(cmd.OutOrStdout(), fetchOutput, page)
	}
	if fetchOutput != "" {
		if err := writeText(fetchOutput, page.Text); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved job description (%s) to %s\n", page.Platform, fetchOutput)
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), page.Text)
	return err
}
