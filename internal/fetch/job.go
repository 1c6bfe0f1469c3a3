package fetch

import (
	"context"
	"log/slog"
)

// JobOptions configures Job.
type JobOptions struct {
	HTTP *Options
	// UseBrowser allows a headless render when the HTTP response holds too little text.
	UseBrowser bool
	Browser    BrowserOptions
	// Render replaces WithBrowser, mainly in tests.
	Render Renderer
}

// JobPage is a fetched job posting reduced to text.
type JobPage struct {
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
	Text     string   `json:"text"`
	Rendered bool     `json:"rendered"`
}

// Job fetches a job posting and extracts its description. When the plain fetch yields
// too little text and UseBrowser is set, the page is rendered in a headless browser; a
// failed render keeps the HTTP text.
func Job(ctx context.Context, rawURL string, opts JobOptions) (*JobPage, error) {
	platform := DetectPlatform(rawURL)
	content, noise := ContentSelectors(platform), NoiseSelectors(platform)

	res, err := URL(ctx, rawURL, opts.HTTP)
	if err != nil {
		return nil, err
	}
	text, err := ExtractMainText(res.HTML, content, noise...)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "content extraction failed", Cause: err}
	}
	page := &JobPage{URL: rawURL, Platform: platform, Text: text}

	if opts.UseBrowser && (ShouldUseBrowser(text) || Scripted(platform)) {
		render := opts.Render
		if render == nil {
			render = WithBrowser
		}
		html, rerr := render(ctx, rawURL, opts.Browser)
		if rerr != nil {
			slog.Warn("browser render failed, keeping HTTP content", slog.String("url", rawURL), slog.Any("error", rerr))
		} else if rendered, xerr := ExtractMainText(html, content, noise...); xerr == nil && len(rendered) > len(text) {
			page.Text, page.Rendered = rendered, true
		}
	}

	if page.Text == "" {
		return nil, errorf(rawURL, "no job description text found on %s page", platform)
	}
	slog.Debug("fetched job posting",
		slog.String("url", rawURL),
		slog.String("platform", string(platform)),
		slog.Bool("rendered", page.Rendered),
		slog.Int("chars", len(page.Text)))
	return page, nil
}
