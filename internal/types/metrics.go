package types

// CandidateLevel is the inferred seniority bracket that selects a weight table.
type CandidateLevel string

// CandidateLevel constants
const (
	LevelFresher CandidateLevel = "fresher"
	LevelJunior  CandidateLevel = "junior"
	LevelMid     CandidateLevel = "mid"
	LevelSenior  CandidateLevel = "senior"
)

// AllLevels lists every candidate level, least to most experienced.
var AllLevels = []CandidateLevel{LevelFresher, LevelJunior, LevelMid, LevelSenior}

// MetricStatus is a percentage-derived label for a critical metric.
type MetricStatus string

// MetricStatus constants
const (
	StatusExcellent MetricStatus = "excellent"
	StatusGood      MetricStatus = "good"
	StatusFair      MetricStatus = "fair"
	StatusPoor      MetricStatus = "poor"
)

// StatusForPercentage maps a 0-100 percentage to a status label.
func StatusForPercentage(pct float64) MetricStatus {
	switch {
	case pct >= 80:
		return StatusExcellent
	case pct >= 60:
		return StatusGood
	case pct >= 40:
		return StatusFair
	default:
		return StatusPoor
	}
}

// CriticalMetric is one of the Big 5 sub-scores.
type CriticalMetric struct {
	Score      float64      `json:"score"`
	MaxScore   float64      `json:"max_score"`
	Percentage float64      `json:"percentage"`
	Status     MetricStatus `json:"status"`
	Details    string       `json:"details,omitempty"`
}

// CriticalMetrics holds the Big 5 predictors of job-description fit.
type CriticalMetrics struct {
	JDKeywordMatch           CriticalMetric `json:"jd_keyword_match"`
	TechnicalSkillsAlignment CriticalMetric `json:"technical_skills_alignment"`
	QuantifiedResults        CriticalMetric `json:"quantified_results"`
	JobTitleRelevance        CriticalMetric `json:"job_title_relevance"`
	ExperienceRelevance      CriticalMetric `json:"experience_relevance"`
	TotalScore               float64        `json:"total_score"`
	MaxScore                 float64        `json:"max_score"`
}

// RedFlagCategory groups red flags.
type RedFlagCategory string

// RedFlagCategory constants
const (
	FlagEmployment RedFlagCategory = "employment"
	FlagSkills     RedFlagCategory = "skills"
	FlagFormatting RedFlagCategory = "formatting"
)

// FlagSeverity orders red flags from low to critical.
type FlagSeverity string

// FlagSeverity constants
const (
	SeverityLow      FlagSeverity = "low"
	SeverityMedium   FlagSeverity = "medium"
	SeverityHigh     FlagSeverity = "high"
	SeverityCritical FlagSeverity = "critical"
)

// RedFlag is a detected negative signal carrying a fixed penalty.
type RedFlag struct {
	Type           string          `json:"type"`
	Category       RedFlagCategory `json:"category"`
	Severity       FlagSeverity    `json:"severity"`
	Penalty        int             `json:"penalty"`
	Description    string          `json:"description"`
	Recommendation string          `json:"recommendation"`
}

// RedFlagReport summarises red flags for aggregation.
type RedFlagReport struct {
	Flags          []RedFlag `json:"flags"`
	TotalPenalty   int       `json:"total_penalty"`
	CriticalCount  int       `json:"critical_count"`
	AutoRejectRisk bool      `json:"auto_reject_risk"`
}

// KeywordTier classifies how much a missing JD keyword matters.
type KeywordTier string

// KeywordTier constants
const (
	KeywordCritical   KeywordTier = "critical"
	KeywordImportant  KeywordTier = "important"
	KeywordNiceToHave KeywordTier = "nice_to_have"
)

// Color returns the display color for the tier.
func (k KeywordTier) Color() string {
	switch k {
	case KeywordCritical:
		return "red"
	case KeywordImportant:
		return "orange"
	default:
		return "yellow"
	}
}

// MissingKeyword is a job-description keyword absent from the resume.
type MissingKeyword struct {
	Keyword            string      `json:"keyword"`
	Tier               KeywordTier `json:"tier"`
	Impact             float64     `json:"impact"`
	SuggestedPlacement string      `json:"suggested_placement"`
	Color              string      `json:"color"`
}

// Confidence labels how far the final score can be trusted.
type Confidence string

// Confidence constants
const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// MatchBand is one of the nine final-score bands.
type MatchBand string

// MatchBand constants, best to worst.
const (
	BandExcellent    MatchBand = "Excellent Match"
	BandVeryGood     MatchBand = "Very Good Match"
	BandGood         MatchBand = "Good Match"
	BandFair         MatchBand = "Fair Match"
	BandBelowAverage MatchBand = "Below Average"
	BandPoor         MatchBand = "Poor Match"
	BandVeryPoor     MatchBand = "Very Poor"
	BandInadequate   MatchBand = "Inadequate"
	BandMinimal      MatchBand = "Minimal Match"
)

// ScoringMode distinguishes job-description scoring from general scoring.
type ScoringMode string

// ScoringMode constants
const (
	ModeJD      ScoringMode = "jd_based"
	ModeGeneral ScoringMode = "general"
)

// FinalScore is the aggregate result presented to callers.
type FinalScore struct {
	Overall                   float64     `json:"overall"`
	MatchBand                 MatchBand   `json:"match_band"`
	Confidence                Confidence  `json:"confidence"`
	InterviewProbabilityRange string      `json:"interview_probability_range"`
	BaseScore                 float64     `json:"base_score"`
	Mode                      ScoringMode `json:"mode"`
}
