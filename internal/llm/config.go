// Package llm wraps the generative model used for optional bullet rewriting.
package llm

import (
	"fmt"
	"os"
)

// ModelTier selects a model by capability.
type ModelTier string

// ModelTier constants
const (
	// TierLite suits short, tightly constrained edits.
	TierLite ModelTier = "lite"
	// TierStandard suits rewriting with several constraints.
	TierStandard ModelTier = "standard"
)

// Provider names an LLM provider.
type Provider string

// ProviderGemini is the only supported provider.
const ProviderGemini Provider = "gemini"

// EnvModel overrides the standard-tier model name.
const EnvModel = "GEMINI_MODEL"

// Config holds model selection for a client.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the Gemini defaults, honouring GEMINI_MODEL.
func DefaultConfig() *Config {
	c := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: 0.2,
	}
	if m := os.Getenv(EnvModel); m != "" {
		c.Models[TierStandard] = m
	}
	return c
}

// Model returns the model for tier, falling back to the standard then the lite model.
func (c *Config) Model(tier ModelTier) (string, error) {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if m := c.Models[t]; m != "" {
			return m, nil
		}
	}
	return "", fmt.Errorf("no model configured for tier %s", tier)
}
