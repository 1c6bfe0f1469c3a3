package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestURL_Success(t *testing.T) {
	srv := serve(t, http.StatusOK, "<html><body><h1>Backend Engineer</h1></body></html>")

	res, err := URL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, res.URL)
	assert.Contains(t, res.HTML, "<h1>Backend Engineer</h1>")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/html", res.ContentType)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-url", "ftp://example.com/job", "https://"} {
		_, err := URL(context.Background(), raw, nil)
		var fe *Error
		require.ErrorAs(t, err, &fe, raw)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestURL_HTTPError(t *testing.T) {
	srv := serve(t, http.StatusNotFound, "gone")

	res, err := URL(context.Background(), srv.URL, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, err.Error(), "HTTP status 404")
}

func TestExtractMainText(t *testing.T) {
	html := `<html><body>
		<nav>Jobs Home</nav>
		<div class="sidebar">Similar jobs</div>
		<div class="job-description">
			<h2>Requirements</h2>
			<ul><li>5+ years of Go</li><li>Kubernetes</li></ul>
		</div>
		<form class="application-form">Upload resume</form>
		<footer>Footer</footer>
	</body></html>`

	text, err := ExtractMainText(html, ContentSelectors(PlatformUnknown), NoiseSelectors(PlatformUnknown)...)
	require.NoError(t, err)
	assert.Equal(t, "Requirements\n5+ years of Go\nKubernetes", text)
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	text, err := ExtractMainText("<html><body><span>Only   text</span></body></html>", []string{".missing"})
	require.NoError(t, err)
	assert.Equal(t, "Only text", text)
}

func TestJob_HTTPContent(t *testing.T) {
	desc := strings.Repeat("Build and operate Go services. ", 30)
	srv := serve(t, http.StatusOK, `<html><body><main><p>`+desc+`</p></main></body></html>`)

	page, err := Job(context.Background(), srv.URL, JobOptions{
		UseBrowser: true,
		Render: func(context.Context, string, BrowserOptions) (string, error) {
			t.Fatal("browser should not be used for a complete page")
			return "", nil
		},
	})
	require.NoError(t, err)
	assert.False(t, page.Rendered)
	assert.Equal(t, PlatformUnknown, page.Platform)
	assert.Contains(t, page.Text, "Build and operate Go services.")
}

func TestJob_BrowserFallback(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body><div id="root"></div></body></html>`)
	rendered := `<html><body><main><p>Senior Go Engineer</p><p>` + strings.Repeat("Kafka ", 120) + `</p></main></body></html>`

	page, err := Job(context.Background(), srv.URL, JobOptions{
		UseBrowser: true,
		Render: func(_ context.Context, u string, _ BrowserOptions) (string, error) {
			assert.Equal(t, srv.URL, u)
			return rendered, nil
		},
	})
	require.NoError(t, err)
	assert.True(t, page.Rendered)
	assert.True(t, strings.HasPrefix(page.Text, "Senior Go Engineer"))
}

func TestJob_BrowserFailureKeepsHTTPText(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body><main><p>Short posting</p></main></body></html>`)

	page, err := Job(context.Background(), srv.URL, JobOptions{
		UseBrowser: true,
		Render: func(context.Context, string, BrowserOptions) (string, error) {
			return "", errors.New("chrome not installed")
		},
	})
	require.NoError(t, err)
	assert.False(t, page.Rendered)
	assert.Equal(t, "Short posting", page.Text)
}

func TestJob_EmptyPage(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html><body></body></html>`)

	_, err := Job(context.Background(), srv.URL, JobOptions{})
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, err.Error(), "no job description text")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   short   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}
