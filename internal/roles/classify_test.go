package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_SeniorBackend(t *testing.T) {
	c := Classify("Senior Backend Engineer, 6+ years, REST APIs, PostgreSQL, microservices, AWS", "Acme ")

	assert.Equal(t, "backend", c.RoleType)
	assert.Equal(t, 5.0, c.RoleScores["backend"])
	assert.Equal(t, "senior", c.Seniority)
	assert.InDelta(t, 0.75, c.SeniorityConfidence, 1e-9)
	assert.Equal(t, "general", c.DomainType)
	assert.Empty(t, c.SecondaryRoles)
	assert.Equal(t, ToneBalanced, c.Tone)
	assert.Equal(t, "Acme", c.CompanyName)
	assert.Equal(t, []string{"API design", "Scalability", "Data modeling", "Technical leadership", "Mentorship"}, c.FocusAreas)
}

func TestClassify_FullstackSynergy(t *testing.T) {
	c := Classify("Full-stack developer: React frontend and Node.js backend", "")

	require.Equal(t, "fullstack", c.RoleType)
	assert.InDelta(t, 2.3, c.RoleScores["fullstack"], 1e-9)
	assert.Equal(t, []string{"backend", "frontend"}, c.SecondaryRoles)
}

func TestClassify_DomainAndTone(t *testing.T) {
	c := Classify("Staff engineer at a fintech payments startup", "")

	assert.Equal(t, "fintech", c.DomainType)
	assert.Equal(t, "lead", c.Seniority)
	assert.InDelta(t, 0.25, c.SeniorityConfidence, 1e-9)
	assert.Equal(t, ToneFormal, c.Tone)
}

func TestClassify_Empty(t *testing.T) {
	c := Classify("", "")

	assert.Equal(t, "general", c.RoleType)
	assert.Equal(t, "general", c.DomainType)
	assert.Equal(t, "mid", c.Seniority)
	assert.Equal(t, 0.0, c.SeniorityConfidence)
	assert.Equal(t, ToneBalanced, c.Tone)
	assert.NotNil(t, c.SecondaryRoles)
	assert.Len(t, c.FocusAreas, 4)
	for _, s := range c.RoleScores {
		assert.Equal(t, 0.0, s)
	}
}

func TestClassify_FocusAreasCapped(t *testing.T) {
	jd := "Full-stack engineer for our healthcare platform. React, TypeScript, CSS, Node.js, " +
		"PostgreSQL, REST APIs, Kubernetes, Docker, Terraform, AWS. Principal level, set direction and influence strategy."
	c := Classify(jd, "")
	assert.LessOrEqual(t, len(c.FocusAreas), 6)
	assert.LessOrEqual(t, len(c.SecondaryRoles), 2)
}

func TestRequiredYears(t *testing.T) {
	tests := []struct {
		jd    string
		first int
		ok    bool
		all   []int
	}{
		{"6+ years of Go", 6, true, []int{6}},
		{"3-5 years of experience, 2 yrs of Kafka", 3, true, []int{3, 5, 2}},
		{"7 to 10 years", 7, true, []int{7, 10}},
		{"no numbers here", 0, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.jd, func(t *testing.T) {
			n, ok := RequiredYears(tt.jd)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.first, n)
			assert.Equal(t, tt.all, RequiredYearsAll(tt.jd))
		})
	}
}
