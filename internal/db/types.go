package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-scorer/internal/scoring"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Default and maximum page sizes for ListReports.
const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

// Report is a stored scoring result. The summary columns are denormalized from Result so
// listings never decode the full document.
type Report struct {
	ID          uuid.UUID            `json:"id"`
	CreatedAt   time.Time            `json:"created_at"`
	SourceName  string               `json:"source_name,omitempty"`
	ContentHash string               `json:"content_hash,omitempty"`
	Mode        types.ScoringMode    `json:"mode"`
	Level       types.CandidateLevel `json:"level"`
	Overall     float64              `json:"overall"`
	MatchBand   types.MatchBand      `json:"match_band"`
	Trustworthy bool                 `json:"trustworthy"`
	Result      json.RawMessage      `json:"result,omitempty"`
}

// NewReport builds a Report from a scoring result. contentHash identifies the scored
// resume text and may be empty.
func NewReport(res *scoring.Result, contentHash string) (*Report, error) {
	if res == nil {
		return nil, fmt.Errorf("failed to build report: nil result")
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &Report{
		ID:          res.ID,
		CreatedAt:   res.CreatedAt,
		SourceName:  res.SourceName,
		ContentHash: contentHash,
		Mode:        res.Mode,
		Level:       res.Level,
		Overall:     res.Final.Overall,
		MatchBand:   res.Final.MatchBand,
		Trustworthy: res.Trustworthy,
		Result:      raw,
	}, nil
}

// Decode unmarshals the stored result.
func (r *Report) Decode() (*scoring.Result, error) {
	if len(r.Result) == 0 {
		return nil, fmt.Errorf("report %s has no result body", r.ID)
	}
	var res scoring.Result
	if err := json.Unmarshal(r.Result, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", r.ID, err)
	}
	return &res, nil
}

// ListOptions pages and filters ListReports.
type ListOptions struct {
	Limit       int
	Offset      int
	ContentHash string
}

func (o ListOptions) limit() int {
	switch {
	case o.Limit <= 0:
		return DefaultListLimit
	case o.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return o.Limit
	}
}

func (o ListOptions) offset() int {
	return max(o.Offset, 0)
}
