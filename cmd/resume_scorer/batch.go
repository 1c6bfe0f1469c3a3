package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/scoring"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every resume in a directory against one job description",
	RunE:  runBatch,
}

var (
	batchDir         string
	batchJob         string
	batchJobURL      string
	batchUserType    string
	batchConcurrency int
	batchOutput      string
	batchSave        bool
	batchUseBrowser  bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", "", "Directory of resumes (pdf, docx, html, txt or md)")
	batchCmd.Flags().StringVarP(&batchJob, "job", "j", "", "Path to job description file")
	batchCmd.Flags().StringVar(&batchJobURL, "job-url", "", "URL to fetch the job description from")
	batchCmd.Flags().StringVar(&batchUserType, "user-type", "", "fresher, experienced or student")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Resumes scored in parallel (default 4)")
	batchCmd.Flags().StringVarP(&batchOutput, "out", "o", "", "Write all JSON reports to this file")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "Save every report to the configured store")
	batchCmd.Flags().BoolVar(&batchUseBrowser, "use-browser", false, "Use headless browser for SPA job pages (requires Chrome)")
	_ = batchCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(batchCmd)
}

var batchExtensions = map[string]bool{".pdf": true, ".docx": true, ".html": true, ".htm": true, ".txt": true, ".md": true}

func resumeFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !batchExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no resumes found in %s", dir)
	}
	return files, nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	userType, err := parseUserType(batchUserType)
	if err != nil {
		return err
	}
	files, err := resumeFiles(batchDir)
	if err != nil {
		return err
	}
	jd, err := loadJob(ctx, batchJob, batchJobURL, batchUseBrowser || fileConfig.UseBrowser)
	if err != nil {
		return err
	}

	inputs := make([]scoring.Input, len(files))
	hashes := make([]string, len(files))
	for i, f := range files {
		resume, err := loadResume(ctx, f, "")
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
		inputs[i] = scoring.Input{
			Text:           resume.Text,
			JobDescription: jd,
			UserType:       userType,
			Layout:         resume.Layout,
			MaxBulletChars: fileConfig.MaxBulletChars,
			SourceName:     resume.Name,
		}
		hashes[i] = resume.Hash
	}

	concurrency := batchConcurrency
	if concurrency == 0 {
		concurrency = fileConfig.Concurrency
	}
	results, err := scoring.ScoreBatch(ctx, inputs, concurrency)
	if err != nil {
		return err
	}

	if batchSave {
		store, err := openStore(ctx, fileConfig)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		for i, res := range results {
			report, err := db.NewReport(res, hashes[i])
			if err != nil {
				return err
			}
			if err := store.SaveReport(ctx, report); err != nil {
				return fmt.Errorf("failed to save report for %s: %w", res.SourceName, err)
			}
		}
	}

	if batchOutput != "" {
		if err := writeJSON(cmd.OutOrStdout(), batchOutput, results); err != nil {
			return err
		}
	}
	printBatch(cmd, results)
	return nil
}

func printBatch(cmd *cobra.Command, results []*scoring.Result) {
	ranked := append([]*scoring.Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Final.Overall > ranked[j].Final.Overall })

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RESUME\tSCORE\tBAND\tQUALITY\tCONFIDENCE")
	for _, r := range ranked {
		score := fmt.Sprintf("%.1f", r.Final.Overall)
		if !r.Trustworthy {
			score += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.SourceName, score, r.Final.MatchBand, r.Quality.Quality, r.Final.Confidence)
	}
	_ = tw.Flush()
	fmt.Fprintln(cmd.OutOrStdout(), "* provisional: input quality too low to trust the score")
}
