// Package ingestion turns resume and job-description sources into plain text plus the
// layout signals formatting analysis needs.
package ingestion

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for documents that are not PDF, DOCX, HTML or plain text.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ExtractError represents a document whose text could not be recovered.
type ExtractError struct {
	Name    string
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract error for %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("extract error for %s: %s", e.Name, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}
