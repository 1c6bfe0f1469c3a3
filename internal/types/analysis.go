package types

// Canonical section names, in canonical resume order.
const (
	SectionHeader         = "header"
	SectionSummary        = "summary"
	SectionSkills         = "skills"
	SectionExperience     = "experience"
	SectionProjects       = "projects"
	SectionEducation      = "education"
	SectionCertifications = "certifications"
	SectionAchievements   = "achievements"
)

// CanonicalSections is the expected top-to-bottom section order.
var CanonicalSections = []string{
	SectionHeader,
	SectionSummary,
	SectionSkills,
	SectionExperience,
	SectionProjects,
	SectionEducation,
	SectionCertifications,
	SectionAchievements,
}

// OrderIssue describes a section found out of canonical position.
type OrderIssue struct {
	Section        string `json:"section"`
	ActualIndex    int    `json:"actual_index"`
	ExpectedIndex  int    `json:"expected_index"`
	PenaltyPoints  int    `json:"penalty_points"`
	Recommendation string `json:"recommendation"`
}

// HeaderInfo holds contact signals found in the header block.
type HeaderInfo struct {
	HasEmail    bool   `json:"has_email"`
	HasPhone    bool   `json:"has_phone"`
	HasLinkedIn bool   `json:"has_linkedin"`
	HasGitHub   bool   `json:"has_github"`
	HasName     bool   `json:"has_name"`
	Name        string `json:"name,omitempty"`
}

// SectionAnalysis is the section detector's output.
type SectionAnalysis struct {
	Present      []string          `json:"present_sections"`
	Missing      []string          `json:"missing_sections"`
	OrderCorrect bool              `json:"order_correct"`
	Positions    map[string]int    `json:"positions"`
	WordCounts   map[string]int    `json:"word_counts"`
	BulletCounts map[string]int    `json:"bullet_counts"`
	OrderIssues  []OrderIssue      `json:"order_issues"`
	OrderPenalty int               `json:"order_penalty"`
	Header       HeaderInfo        `json:"header"`
	Contents     map[string]string `json:"-"`
}

// Has reports whether a section was detected.
func (s *SectionAnalysis) Has(section string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Positions[section]
	return ok
}

// Content returns the accumulated text of a section.
func (s *SectionAnalysis) Content(section string) string {
	if s == nil {
		return ""
	}
	return s.Contents[section]
}

// QualityTier labels input quality.
type QualityTier string

// QualityTier constants, best to worst.
const (
	QualityExcellent QualityTier = "excellent"
	QualityGood      QualityTier = "good"
	QualityFair      QualityTier = "fair"
	QualityPoor      QualityTier = "poor"
	QualityInvalid   QualityTier = "invalid"
)

// Rank orders quality tiers; higher is better.
func (q QualityTier) Rank() int {
	switch q {
	case QualityExcellent:
		return 4
	case QualityGood:
		return 3
	case QualityFair:
		return 2
	case QualityPoor:
		return 1
	default:
		return 0
	}
}

// ContentMetrics are the raw signals behind an input-quality assessment.
type ContentMetrics struct {
	WordCount        int  `json:"word_count"`
	HasContactInfo   bool `json:"has_contact_info"`
	HasSkills        bool `json:"has_skills"`
	HasEducation     bool `json:"has_education"`
	HasExperience    bool `json:"has_experience"`
	HasProjects      bool `json:"has_projects"`
	BulletCount      int  `json:"bullet_count"`
	UniqueSkillCount int  `json:"unique_skill_count"`
	SectionCount     int  `json:"section_count"`
}

// InputQualityAssessment gates whether a numeric score can be trusted.
type InputQualityAssessment struct {
	IsValid        bool           `json:"is_valid"`
	Quality        QualityTier    `json:"quality"`
	QualityScore   int            `json:"quality_score"`
	Issues         []string       `json:"issues"`
	ContentMetrics ContentMetrics `json:"content_metrics"`
}

// RoleClassification is the role/seniority classifier's output.
type RoleClassification struct {
	RoleType            string             `json:"role_type"`
	RoleScores          map[string]float64 `json:"role_scores"`
	SecondaryRoles      []string           `json:"secondary_roles"`
	DomainType          string             `json:"domain_type"`
	Seniority           string             `json:"seniority"`
	SeniorityConfidence float64            `json:"seniority_confidence"`
	Tone                string             `json:"tone"`
	FocusAreas          []string           `json:"focus_areas"`
	CompanyName         string             `json:"company_name,omitempty"`
}
