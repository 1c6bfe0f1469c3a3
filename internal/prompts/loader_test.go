package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	p, err := Get("rewriting.json", "shorten-bullet")
	require.NoError(t, err)
	assert.Contains(t, p, "{{.MaxChars}}")

	_, err = Get("missing.json", "shorten-bullet")
	assert.ErrorContains(t, err, "prompt file missing.json not found")

	_, err = Get("rewriting.json", "nope")
	assert.ErrorContains(t, err, "not found")
}

func TestRender(t *testing.T) {
	out, err := Render("rewriting.json", "shorten-bullet", map[string]any{
		"MaxChars": 120,
		"Metrics":  "35%, 14",
		"Length":   163,
		"Bullet":   "Migrated 14 services, cutting spend by 35%",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "at most 120 characters")
	assert.Contains(t, out, "exactly as written: 35%, 14")
	assert.Contains(t, out, "Bullet (163 characters):\nMigrated 14 services")
	assert.NotContains(t, out, "{{")
}

func TestRender_MissingValue(t *testing.T) {
	_, err := Render("rewriting.json", "shorten-bullet", map[string]any{"MaxChars": 120})
	assert.ErrorContains(t, err, "failed to render prompt")
}
