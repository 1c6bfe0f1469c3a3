package types

// IssueSeverity grades a formatting hazard.
type IssueSeverity string

// IssueSeverity constants
const (
	IssueMinor    IssueSeverity = "Minor"
	IssueModerate IssueSeverity = "Moderate"
	IssueSevere   IssueSeverity = "Severe"
)

// ATSCompatibility is the overall parse-safety label.
type ATSCompatibility string

// ATSCompatibility constants
const (
	ATSHigh   ATSCompatibility = "High"
	ATSMedium ATSCompatibility = "Medium"
	ATSLow    ATSCompatibility = "Low"
)

// FormattingIssue is one detected layout or text hazard.
type FormattingIssue struct {
	Type           string        `json:"type"`
	Severity       IssueSeverity `json:"severity"`
	Penalty        int           `json:"penalty"`
	Description    string        `json:"description"`
	Recommendation string        `json:"recommendation"`
}

// FormattingAssessment is the formatting analyzer's output.
type FormattingAssessment struct {
	OverallScore     float64           `json:"overall_score"`
	ATSCompatibility ATSCompatibility  `json:"ats_compatibility"`
	Issues           []FormattingIssue `json:"issues"`
	TotalPenalty     int               `json:"total_penalty"`

	// Fallback is set when the assessment is a neutral default after an internal failure.
	Fallback       bool   `json:"fallback,omitempty"`
	FallbackReason string `json:"fallback_reason,omitempty"`

	// Violations lists self-validation failures found after grading.
	Violations []Violation `json:"violations,omitempty"`
}

// CountBySeverity counts issues with the given severity.
func (a FormattingAssessment) CountBySeverity(sev IssueSeverity) int {
	n := 0
	for _, i := range a.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

// DocumentLayout carries structural signals recovered from the source file.
type DocumentLayout struct {
	TableCount   int  `json:"table_count"`
	MultiColumn  bool `json:"multi_column"`
	TextBoxCount int  `json:"text_box_count"`
	ImageCount   int  `json:"image_count"`
	ImageBased   bool `json:"image_based"`
	PageCount    int  `json:"page_count,omitempty"`
}

// Document is extracted resume text plus layout signals.
type Document struct {
	Name     string         `json:"name,omitempty"`
	MimeType string         `json:"mime_type,omitempty"`
	Text     string         `json:"text"`
	Layout   DocumentLayout `json:"layout"`
}
