package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/fetch"
	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/types"
)

// resumeInput is a resume loaded from a document or a structured JSON file.
type resumeInput struct {
	Name   string
	Text   string
	Data   *types.ResumeData
	Layout types.DocumentLayout
	// Hash identifies the content for report history.
	Hash string
}

// loadResume reads exactly one of a resume document or a structured resume JSON file.
func loadResume(ctx context.Context, resumePath, dataPath string) (*resumeInput, error) {
	switch {
	case resumePath != "" && dataPath != "":
		return nil, fmt.Errorf("--resume and --resume-data are mutually exclusive")
	case resumePath != "":
		doc, err := ingestion.ExtractFile(ctx, resumePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read resume: %w", err)
		}
		return &resumeInput{
			Name:   filepath.Base(resumePath),
			Text:   doc.Text,
			Layout: doc.Layout,
			Hash:   ingestion.Hash(doc.Text),
		}, nil
	case dataPath != "":
		raw, err := os.ReadFile(dataPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read resume data: %w", err)
		}
		data, err := schemas.DecodeResumeData(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid resume data %s: %w", dataPath, err)
		}
		return &resumeInput{
			Name: filepath.Base(dataPath),
			Data: data,
			Hash: ingestion.Hash(string(raw)),
		}, nil
	default:
		return nil, fmt.Errorf("either --resume or --resume-data is required")
	}
}

// loadJob returns the job description from a file or URL, or "" when neither is given.
func loadJob(ctx context.Context, jobPath, jobURL string, useBrowser bool) (string, error) {
	switch {
	case jobPath != "" && jobURL != "":
		return "", fmt.Errorf("--job and --job-url are mutually exclusive")
	case jobPath != "":
		return ingestion.JobFromFile(ctx, jobPath)
	case jobURL != "":
		page, err := ingestion.JobFromURL(ctx, jobURL, jobOptions(useBrowser))
		if err != nil {
			return "", err
		}
		return page.Text, nil
	default:
		return "", nil
	}
}

func jobOptions(useBrowser bool) fetch.JobOptions {
	return fetch.JobOptions{
		HTTP:       fetch.DefaultOptions(),
		UseBrowser: useBrowser,
		Browser:    fetch.DefaultBrowserOptions(),
	}
}

func parseUserType(s string) (types.UserType, error) {
	switch ut := types.UserType(strings.ToLower(strings.TrimSpace(s))); ut {
	case "", types.UserTypeFresher, types.UserTypeExperienced, types.UserTypeStudent:
		return ut, nil
	default:
		return "", fmt.Errorf("invalid --user-type %q: must be fresher, experienced or student", s)
	}
}

func parseLevel(s string) (types.CandidateLevel, error) {
	switch lvl := types.CandidateLevel(strings.ToLower(strings.TrimSpace(s))); lvl {
	case "", types.LevelFresher, types.LevelJunior, types.LevelMid, types.LevelSenior:
		return lvl, nil
	default:
		return "", fmt.Errorf("invalid --level %q: must be fresher, junior, mid or senior", s)
	}
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// openStore opens the configured report store.
func openStore(ctx context.Context, cfg config.Config) (*db.SQLStore, error) {
	driver, dsn := cfg.Store()
	if driver == "" {
		return nil, fmt.Errorf("no report store configured: set DATABASE_URL, SQLITE_PATH or store_driver in the config file")
	}
	store, err := db.Open(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open report store: %w", err)
	}
	return store, nil
}

func writeText(path, text string) error {
	if err := os.WriteFile(path, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
