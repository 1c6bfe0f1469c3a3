package types

// EvidenceKind identifies where a piece of evidence came from.
type EvidenceKind string

// EvidenceKind constants
const (
	EvidenceResumeText    EvidenceKind = "resume_text"
	EvidenceJDText        EvidenceKind = "jd_text"
	EvidenceSemanticMatch EvidenceKind = "semantic_match"
)

// EvidenceSource is a single snippet backing a component score.
type EvidenceSource struct {
	Kind        EvidenceKind `json:"kind"`
	Snippet     string       `json:"snippet"`
	Explanation string       `json:"explanation,omitempty"`
}

// ScoredComponent is one evidence-locked component.
type ScoredComponent struct {
	Name        string           `json:"name"`
	Score       float64          `json:"score"`
	MaxScore    float64          `json:"max_score"`
	Evidence    []EvidenceSource `json:"evidence"`
	HasEvidence bool             `json:"has_evidence"`
}

// BlockedScore records a component excluded for lack of evidence.
type BlockedScore struct {
	Component string `json:"component"`
	Reason    string `json:"reason"`
}

// EvidenceLockedScore is the evidence-locked scoring policy's result.
// Overall is computed only from components with evidence.
type EvidenceLockedScore struct {
	Overall       float64           `json:"overall"`
	Components    []ScoredComponent `json:"components"`
	BlockedScores []BlockedScore    `json:"blocked_scores"`
	RoleCategory  string            `json:"role_category"`
}
