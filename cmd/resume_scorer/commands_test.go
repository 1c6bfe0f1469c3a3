package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/scoring"
	"github.com/jonathan/resume-scorer/internal/server"
	"github.com/jonathan/resume-scorer/internal/types"
)

const resumeText = `Jane Smith
jane.smith@example.com | (555) 123-4567 | github.com/janesmith

SUMMARY
Backend engineer with five years building data services in Go and Python.

EXPERIENCE
Senior Software Engineer, Acme Corp, 2020 - Present
• Built a Kafka ingestion pipeline in Go processing 2M events per day
• Reduced p99 API latency by 45% by introducing Redis caching
• Led a team of 4 engineers through a PostgreSQL migration with zero downtime

Software Engineer, Initech, 2018 - 2020
• Developed REST APIs in Python serving 300 internal users
• Automated deployments with Docker and Terraform, cutting release time by 60%

EDUCATION
B.S. Computer Science, State University, 2018

SKILLS
Go, Python, Kafka, Redis, PostgreSQL, Docker, Kubernetes, Terraform, AWS
`

const jobText = `Senior Backend Engineer

We are hiring a senior backend engineer to build and operate our event platform.
Requirements: 5+ years of experience with Go or Python, Kafka, PostgreSQL, Redis, Docker,
Kubernetes and AWS. You will design APIs, own services in production, mentor engineers and
work closely with product managers. Experience with Terraform and observability tooling is a plus.
`

const causalBullet = "Migrated the legacy billing platform from a monolith to 14 Go microservices on Kubernetes, resulting in a 35% reduction in infrastructure spend and faster releases"

func TestScore_GeneralMode(t *testing.T) {
	isolateEnv(t)
	resume := writeFile(t, "jane.txt", resumeText)

	out, err := execute(t, "score", "--resume", resume, "--json")
	require.NoError(t, err, out)

	var res scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, types.ModeGeneral, res.Mode)
	assert.Equal(t, "jane.txt", res.SourceName)
	assert.Len(t, res.Tiers, len(types.AllTiers))
	assert.GreaterOrEqual(t, res.Final.Overall, 0.0)
	assert.LessOrEqual(t, res.Final.Overall, 100.0)
	assert.Nil(t, res.CriticalMetrics)
}

func TestScore_JobModeSummary(t *testing.T) {
	isolateEnv(t)
	resume := writeFile(t, "jane.txt", resumeText)
	job := writeFile(t, "job.txt", jobText)
	report := filepath.Join(t.TempDir(), "report.json")

	out, err := execute(t, "score", "-r", resume, "-j", job, "--company", "Acme", "--out", report)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Report written to "+report)

	raw, err := os.ReadFile(report)
	require.NoError(t, err)
	var res scoring.Result
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.Equal(t, types.ModeJD, res.Mode)
	require.NotNil(t, res.CriticalMetrics)
	require.NotNil(t, res.Role)
}

func TestScore_Errors(t *testing.T) {
	isolateEnv(t)
	resume := writeFile(t, "jane.txt", resumeText)
	data := writeFile(t, "jane.json", `{"name": "Jane"}`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no resume", []string{"score"}, "either --resume or --resume-data is required"},
		{"both resumes", []string{"score", "-r", resume, "--resume-data", data}, "mutually exclusive"},
		{"missing file", []string{"score", "-r", filepath.Join(t.TempDir(), "nope.txt")}, "resume file not found"},
		{"bad user type", []string{"score", "-r", resume, "--user-type", "intern"}, "user_type"},
		{"bad level", []string{"score", "-r", resume, "--level", "principal"}, "invalid --level"},
		{"save without store", []string{"score", "-r", resume, "--save"}, "no report store configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScore_InvalidResumeData(t *testing.T) {
	isolateEnv(t)
	data := writeFile(t, "bad.json", `{"work_experience": [{"role": ""}]}`)

	_, err := execute(t, "score", "--resume-data", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid resume data")
}

func TestScore_ConfigFile(t *testing.T) {
	isolateEnv(t)
	resume := writeFile(t, "jane.txt", resumeText)
	cfg := writeFile(t, "config.json", `{"resume": "`+resume+`", "user_type": "experienced"}`)

	out, err := execute(t, "--config", cfg, "score", "--json")
	require.NoError(t, err, out)
	var res scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "jane.txt", res.SourceName)

	_, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.json"), "score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestReports_SQLiteLifecycle(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "reports.db"))
	resume := writeFile(t, "jane.txt", resumeText)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	out, stderr, err := executeAll(t, "score", "-r", resume, "--save", "--out", reportPath)
	require.NoError(t, err, stderr)
	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var res scoring.Result
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.Contains(t, stderr, "Saved report "+res.ID.String())

	out, err = execute(t, "reports", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, res.ID.String())
	assert.Contains(t, out, "jane.txt")

	out, err = execute(t, "reports", "get", res.ID.String(), "--json")
	require.NoError(t, err, out)
	var got scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, res.Final.Overall, got.Final.Overall)

	out, err = execute(t, "reports", "delete", res.ID.String())
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted report")

	_, err = execute(t, "reports", "get", res.ID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	out, err = execute(t, "reports", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No reports found.")
}

func TestReports_Errors(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "reports", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no report store configured")

	_, err = execute(t, "reports", "get", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid report id")

	_, err = execute(t, "reports", "delete")
	require.Error(t, err)
}

func TestAnalyzerCommands(t *testing.T) {
	isolateEnv(t)
	resume := writeFile(t, "jane.txt", resumeText)
	job := writeFile(t, "job.txt", jobText)

	t.Run("assess", func(t *testing.T) {
		out, err := execute(t, "assess", "-r", resume, "--json")
		require.NoError(t, err, out)
		var q types.InputQualityAssessment
		require.NoError(t, json.Unmarshal([]byte(out), &q))
		assert.True(t, q.IsValid)
	})

	t.Run("sections", func(t *testing.T) {
		out, err := execute(t, "sections", "-r", resume, "--json")
		require.NoError(t, err, out)
		var a types.SectionAnalysis
		require.NoError(t, json.Unmarshal([]byte(out), &a))
		assert.Contains(t, a.Present, "experience")
	})

	t.Run("classify-role", func(t *testing.T) {
		out, err := execute(t, "classify-role", "-j", job, "--json")
		require.NoError(t, err, out)
		var role types.RoleClassification
		require.NoError(t, json.Unmarshal([]byte(out), &role))
		assert.NotEmpty(t, role.RoleType)
	})

	t.Run("evidence", func(t *testing.T) {
		out, err := execute(t, "evidence", "-r", resume, "-j", job, "--json")
		require.NoError(t, err, out)
		var e types.EvidenceLockedScore
		require.NoError(t, json.Unmarshal([]byte(out), &e))
		assert.GreaterOrEqual(t, e.Overall, 0.0)
	})

	t.Run("format-check", func(t *testing.T) {
		out, err := execute(t, "format-check", "-r", resume, "--json")
		require.NoError(t, err, out)
		var a types.FormattingAssessment
		require.NoError(t, json.Unmarshal([]byte(out), &a))
		assert.False(t, a.Fallback)
		assert.Empty(t, a.Violations)
	})

	t.Run("summaries", func(t *testing.T) {
		for _, args := range [][]string{
			{"assess", "-r", resume},
			{"sections", "-r", resume},
			{"classify-role", "-j", job},
			{"evidence", "-r", resume, "-j", job},
			{"format-check", "-r", resume},
		} {
			out, err := execute(t, args...)
			require.NoError(t, err, args[0])
			assert.NotEmpty(t, out, args[0])
		}
	})
}

func TestClassifyRole_RequiresJob(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "classify-role")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description is required")
}

func TestRequiredFlags(t *testing.T) {
	isolateEnv(t)
	for cmd, flag := range map[string]string{
		"sections":     "resume",
		"format-check": "resume",
		"extract-text": "in",
		"fetch-job":    "url",
		"batch":        "dir",
		"token":        "subject",
	} {
		_, err := execute(t, cmd)
		require.Error(t, err, cmd)
		assert.Contains(t, err.Error(), `required flag(s) "`+flag+`" not set`, cmd)
	}
}

func TestFixBullets(t *testing.T) {
	isolateEnv(t)

	t.Run("single bullet", func(t *testing.T) {
		out, err := execute(t, "fix-bullets", "--bullet", causalBullet, "--json")
		require.NoError(t, err, out)
		var fixes []types.BulletFix
		require.NoError(t, json.Unmarshal([]byte(out), &fixes))
		require.Len(t, fixes, 1)
		assert.Equal(t, causalBullet, fixes[0].Before)
		assert.Equal(t, types.StrategySplit, fixes[0].Strategy)
		assert.True(t, fixes[0].MetricsPreserved)
	})

	t.Run("resume data", func(t *testing.T) {
		data := writeFile(t, "jane.json", `{
			"name": "Jane Smith",
			"work_experience": [{"role": "Engineer", "company": "Acme", "bullets": ["Shipped search", "`+causalBullet+`"]}]
		}`)
		fixedPath := filepath.Join(t.TempDir(), "fixed.json")

		out, err := execute(t, "fix-bullets", "--resume-data", data, "--out", fixedPath)
		require.NoError(t, err, out)

		raw, err := os.ReadFile(fixedPath)
		require.NoError(t, err)
		var fixed types.ResumeData
		require.NoError(t, json.Unmarshal(raw, &fixed))
		for _, b := range fixed.AllBullets() {
			assert.LessOrEqual(t, len([]rune(b)), 120, b)
		}
		assert.Greater(t, len(fixed.AllBullets()), 2)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := execute(t, "fix-bullets")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of --bullet or --resume-data")

		_, err = execute(t, "fix-bullets", "--bullet", causalBullet, "--out", "x.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--out requires --resume-data")

		_, err = execute(t, "fix-bullets", "--bullet", causalBullet, "--ai")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})
}

func TestExtractText(t *testing.T) {
	isolateEnv(t)
	html := writeFile(t, "resume.html", "<html><body><h1>Jane Smith</h1><p>Go developer</p><script>var x = 1;</script></body></html>")

	out, err := execute(t, "extract-text", "--in", html)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Jane Smith")
	assert.NotContains(t, out, "var x")

	textPath := filepath.Join(t.TempDir(), "out.txt")
	_, err = execute(t, "extract-text", "--in", html, "-o", textPath)
	require.NoError(t, err)
	raw, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Go developer")

	out, err = execute(t, "extract-text", "--in", html, "--json")
	require.NoError(t, err, out)
	var doc types.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc.Text, "Jane Smith")
}

func TestFetchJob(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><nav>Menu</nav><main><h1>Backend Engineer</h1><p>" +
			strings.TrimSpace(jobText) + "</p></main></body></html>"))
	}))
	defer srv.Close()

	out, err := execute(t, "fetch-job", "--url", srv.URL)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Kafka")

	_, err = execute(t, "fetch-job", "--url", "ftp://example.com/job")
	require.Error(t, err)
}

func TestBatch(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_jane.txt"), []byte(resumeText), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_short.txt"), []byte("Bob\nbob@example.com"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.png"), []byte{0x89, 'P', 'N', 'G'}, 0644))
	job := writeFile(t, "job.txt", jobText)
	reportPath := filepath.Join(t.TempDir(), "batch.json")

	out, err := execute(t, "batch", "--dir", dir, "-j", job, "--concurrency", "2", "-o", reportPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "a_jane.txt")
	assert.Contains(t, out, "b_short.txt")
	assert.NotContains(t, out, "notes.png")

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var results []scoring.Result
	require.NoError(t, json.Unmarshal(raw, &results))
	require.Len(t, results, 2)
	assert.Equal(t, "a_jane.txt", results[0].SourceName)
	assert.Equal(t, "b_short.txt", results[1].SourceName)
	assert.False(t, results[1].Trustworthy)

	_, err = execute(t, "batch", "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resumes found")
}

func TestToken(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "token", "--subject", "ci")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "test-secret")
	out, err := execute(t, "token", "--subject", "ci")
	require.NoError(t, err, out)

	cfg, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(cfg).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ci", claims.Subject)
}

func TestServe_InvalidJWTConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "zero")

	_, err := execute(t, "serve", "--port", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JWT configuration")
}

func TestParseHelpers(t *testing.T) {
	ut, err := parseUserType(" Student ")
	require.NoError(t, err)
	assert.Equal(t, types.UserTypeStudent, ut)

	lvl, err := parseLevel("SENIOR")
	require.NoError(t, err)
	assert.Equal(t, types.LevelSenior, lvl)

	lvl, err = parseLevel("")
	require.NoError(t, err)
	assert.Empty(t, lvl)

	assert.Equal(t, "short", truncateLine("  short  "))
	assert.Len(t, []rune(truncateLine(strings.Repeat("é", 100))), 60)
}
