package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted from a plain HTTP fetch before
// a browser render is attempted.
const MinContentLength = 500

// BrowserOptions configures WithBrowser.
type BrowserOptions struct {
	Timeout time.Duration
	// Settle is how long to wait after the body is ready for client-side rendering.
	Settle time.Duration
}

// DefaultBrowserOptions returns the options WithBrowser uses for zero values.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{Timeout: DefaultTimeout, Settle: 3 * time.Second}
}

// ShouldUseBrowser reports whether extracted text is too short to be a real posting.
func ShouldUseBrowser(extracted string) bool {
	return len(strings.TrimSpace(extracted)) < MinContentLength
}

// WithBrowser renders rawURL in headless Chrome and returns the resulting HTML.
// Chrome or Chromium must be installed.
func WithBrowser(ctx context.Context, rawURL string, opts BrowserOptions) (string, error) {
	if err := ValidateURL(rawURL); err != nil {
		return "", err
	}
	def := DefaultBrowserOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.Settle <= 0 {
		opts.Settle = def.Settle
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelTimeout()

	slog.Debug("rendering page in browser", slog.String("url", rawURL))
	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(opts.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "browser rendering failed", Cause: err}
	}
	slog.Debug("rendered page", slog.String("url", rawURL), slog.Int("bytes", len(html)))
	return html, nil
}

// Renderer renders a URL to HTML; WithBrowser is the production implementation.
type Renderer func(ctx context.Context, rawURL string, opts BrowserOptions) (string, error)

var _ Renderer = WithBrowser

func errorf(rawURL, format string, args ...any) error {
	return &Error{URL: rawURL, Message: fmt.Sprintf(format, args...)}
}
