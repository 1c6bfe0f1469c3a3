package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/ingestion"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text",
	Short: "Extract plain text from a resume document",
	Long:  `Extracts and cleans the text of a PDF, DOCX, HTML or plain-text resume, exactly as the scorer reads it.`,
	RunE:  runExtractText,
}

var (
	extractInput  string
	extractOutput string
	extractJSON   bool
)

func init() {
	extractTextCmd.Flags().StringVarP(&extractInput, "in", "i", "", "Path to the document")
	extractTextCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Write the text to this file instead of stdout")
	extractTextCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the document with its layout signals as JSON")
	_ = extractTextCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(extractTextCmd)
}

func runExtractText(cmd *cobra.Command, _ []string) error {
	doc, err := ingestion.ExtractFile(cmd.Context(), extractInput)
	if err != nil {
		return err
	}
	if extractJSON {
		return writeJSON(cmd.OutOrStdout(), extractOutput, doc)
	}
	if extractOutput != "" {
		return writeText(extractOutput, doc.Text)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
	return err
}
