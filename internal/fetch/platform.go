package fetch

import (
	"net/url"
	"strings"
)

// Platform is a recognised job board.
type Platform string

// Platform constants
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformUnknown    Platform = "unknown"
)

type platformRule struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
	// scripted boards render the posting client-side.
	scripted bool
}

var platformRules = []platformRule{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description"},
		noise:    []string{".apply-section", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"myworkdayjobs.com", "workday.com"},
		content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"},
		noise:    []string{"[data-automation-id='applyButton']"},
		scripted: true,
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"[class*='_descriptionText']", "main"},
		scripted: true,
	},
	{
		platform: PlatformLinkedIn,
		hosts:    []string{"linkedin.com"},
		content:  []string{".show-more-less-html__markup", ".description__text"},
		noise:    []string{".sign-in-modal", ".top-card-layout__cta-container"},
	},
}

var genericContent = []string{
	".job-description", "#job-description", ".job-content", ".posting-content", ".job-details",
	"[data-testid='job-description']", "main", "article", "#content", ".content",
}

var genericNoise = []string{
	"form", ".application-form", ".apply-button-container",
	".eeo-statement", ".eeo-section", ".legal-disclosure", ".self-identification",
	".social-share", ".share-buttons", ".cookie-consent", ".gdpr-notice",
}

func ruleFor(p Platform) (platformRule, bool) {
	for _, r := range platformRules {
		if r.platform == p {
			return r, true
		}
	}
	return platformRule{}, false
}

// DetectPlatform identifies the job board from the URL's host.
func DetectPlatform(rawURL string) Platform {
	u, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(u.Hostname())
	for _, r := range platformRules {
		for _, h := range r.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return r.platform
			}
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns selectors for the posting body, most specific first.
func ContentSelectors(p Platform) []string {
	r, _ := ruleFor(p)
	return append(append([]string(nil), r.content...), genericContent...)
}

// NoiseSelectors returns selectors for application forms, legal boilerplate and the like.
func NoiseSelectors(p Platform) []string {
	r, _ := ruleFor(p)
	return append(append([]string(nil), genericNoise...), r.noise...)
}

// Scripted reports whether the board is known to render postings with JavaScript.
func Scripted(p Platform) bool {
	r, _ := ruleFor(p)
	return r.scripted
}
