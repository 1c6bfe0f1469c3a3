package types

// BulletViolation is a resume bullet that exceeds the character budget.
type BulletViolation struct {
	Section     string `json:"section"`
	EntryIndex  int    `json:"entry_index"`
	BulletIndex int    `json:"bullet_index"`
	Text        string `json:"text"`
	Length      int    `json:"length"`
	Limit       int    `json:"limit"`
	Excess      int    `json:"excess"`
}

// FixStrategy names how a long bullet was shortened.
type FixStrategy string

// FixStrategy constants
const (
	StrategyNone       FixStrategy = "none"
	StrategyCompress   FixStrategy = "compress"
	StrategySplit      FixStrategy = "split"
	StrategyAggressive FixStrategy = "aggressive"
	StrategyAIRewrite  FixStrategy = "ai_rewrite"
)

// BulletFix is the result of shortening a bullet. A fix that loses metrics or changes
// the leading verb/digit signature is still returned, flagged for the caller.
type BulletFix struct {
	Before           string      `json:"before"`
	After            []string    `json:"after"`
	Strategy         FixStrategy `json:"strategy"`
	MetricsPreserved bool        `json:"metrics_preserved"`
	StarPreserved    bool        `json:"star_preserved"`
	LostMetrics      []string    `json:"lost_metrics,omitempty"`
}
