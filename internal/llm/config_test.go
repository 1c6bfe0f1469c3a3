package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv(EnvModel, "")
	c := DefaultConfig()

	assert.Equal(t, ProviderGemini, c.Provider)
	m, err := c.Model(TierLite)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash-lite", m)
	m, err = c.Model(TierStandard)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", m)
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvModel, "gemini-custom")
	m, err := DefaultConfig().Model(TierStandard)
	require.NoError(t, err)
	assert.Equal(t, "gemini-custom", m)
}

func TestModel_Fallback(t *testing.T) {
	c := &Config{Models: map[ModelTier]string{TierLite: "only-lite"}}
	m, err := c.Model(TierStandard)
	require.NoError(t, err)
	assert.Equal(t, "only-lite", m)

	_, err = (&Config{}).Model(TierLite)
	assert.ErrorContains(t, err, "no model configured")
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(t.Context(), nil, "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
