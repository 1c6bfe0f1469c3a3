package analyzers

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-scorer/internal/rubric"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/types"
)

var (
	locationPattern  = regexp.MustCompile(`\b[A-Z][a-zA-Z]+(\s[A-Z][a-zA-Z]+)?,\s?([A-Z]{2}|[A-Z][a-z]+)\b`)
	urlPattern       = regexp.MustCompile(`(?i)\b(https?://|www\.)\S+`)
	longDigitsInMail = regexp.MustCompile(`\d{4,}`)
)

// ContactMetrics records which contact details a resume exposes.
type ContactMetrics struct {
	HasName             bool   `json:"has_name"`
	HasEmail            bool   `json:"has_email"`
	HasPhone            bool   `json:"has_phone"`
	HasLinkedIn         bool   `json:"has_linkedin"`
	HasGitHub           bool   `json:"has_github"`
	HasPortfolio        bool   `json:"has_portfolio"`
	HasLocation         bool   `json:"has_location"`
	Email               string `json:"email,omitempty"`
	UnprofessionalEmail bool   `json:"unprofessional_email"`
}

// HasContactInfo reports whether an employer could reach the candidate.
func (c ContactMetrics) HasContactInfo() bool {
	return c.HasEmail || c.HasPhone
}

// AnalyzeContact extracts contact signals from the header block, the text and structured data.
func AnalyzeContact(text string, data *types.ResumeData, sec *types.SectionAnalysis) ContactMetrics {
	var c ContactMetrics
	header := ""
	if sec != nil {
		c.HasName = sec.Header.HasName
		c.HasEmail = sec.Header.HasEmail
		c.HasPhone = sec.Header.HasPhone
		c.HasLinkedIn = sec.Header.HasLinkedIn
		c.HasGitHub = sec.Header.HasGitHub
		header = sec.Content(types.SectionHeader)
	}

	c.Email = sections.FindEmail(text)
	c.HasEmail = c.HasEmail || c.Email != ""
	lower := strings.ToLower(text)
	c.HasLinkedIn = c.HasLinkedIn || strings.Contains(lower, "linkedin.com")
	c.HasGitHub = c.HasGitHub || strings.Contains(lower, "github.com")

	for _, u := range urlPattern.FindAllString(text, -1) {
		ul := strings.ToLower(u)
		if !strings.Contains(ul, "linkedin") && !strings.Contains(ul, "github") {
			c.HasPortfolio = true
			break
		}
	}
	if strings.Contains(lower, "portfolio") {
		c.HasPortfolio = true
	}
	c.HasLocation = locationPattern.MatchString(header) || rubric.ContainsTerm(header, "remote")

	if data != nil {
		c.HasName = c.HasName || data.Name != ""
		c.HasPhone = c.HasPhone || data.Phone != ""
		c.HasLinkedIn = c.HasLinkedIn || data.LinkedIn != ""
		c.HasGitHub = c.HasGitHub || data.GitHub != ""
		c.HasLocation = c.HasLocation || data.Location != ""
		if data.Email != "" {
			c.Email = data.Email
			c.HasEmail = true
		}
	}

	c.UnprofessionalEmail = isUnprofessionalEmail(c.Email)
	return c
}

func isUnprofessionalEmail(email string) bool {
	if email == "" {
		return false
	}
	local := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	if longDigitsInMail.MatchString(local) {
		return true
	}
	for _, term := range tables().RedFlags.UnprofessionalEmail {
		if strings.Contains(local, term) {
			return true
		}
	}
	return false
}
