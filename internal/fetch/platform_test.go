package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://www.linkedin.com/jobs/view/42", PlatformLinkedIn},
		{"https://notgreenhouse.io.example.com/jobs", PlatformUnknown},
		{"https://example.com/careers", PlatformUnknown},
		{"::not a url", PlatformUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestSelectors(t *testing.T) {
	gh := ContentSelectors(PlatformGreenhouse)
	assert.Equal(t, ".job__description.body", gh[0])
	assert.Contains(t, gh, "main", "generic selectors follow platform ones")

	unknown := ContentSelectors(PlatformUnknown)
	assert.Equal(t, genericContent, unknown)

	noise := NoiseSelectors(PlatformLever)
	assert.Contains(t, noise, "form")
	assert.Contains(t, noise, ".posting-apply")
}

func TestScripted(t *testing.T) {
	assert.True(t, Scripted(PlatformWorkday))
	assert.True(t, Scripted(PlatformAshby))
	assert.False(t, Scripted(PlatformGreenhouse))
	assert.False(t, Scripted(PlatformUnknown))
}
