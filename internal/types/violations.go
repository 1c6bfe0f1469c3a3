package types

// Violation is a consistency failure reported by a self-validator.
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`
}

// Violations represents a collection of consistency failures
type Violations struct {
	Violations []Violation `json:"violations"`
}

// Empty reports whether there are no violations.
func (v Violations) Empty() bool {
	return len(v.Violations) == 0
}
