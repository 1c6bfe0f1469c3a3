package ingestion

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-scorer/internal/fetch"
)

// JobFromURL fetches a job posting and returns its cleaned description.
func JobFromURL(ctx context.Context, rawURL string, opts fetch.JobOptions) (*fetch.JobPage, error) {
	page, err := fetch.Job(ctx, rawURL, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job description: %w", err)
	}
	page.Text = CleanText(page.Text)
	return page, nil
}

// JobFromFile reads a job description saved as text, HTML, PDF or DOCX.
func JobFromFile(ctx context.Context, path string) (string, error) {
	doc, err := ExtractFile(ctx, path)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}
