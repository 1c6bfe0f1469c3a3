// Package scoring runs the full resume scoring pipeline and aggregates the tier scores
// into the final result.
package scoring

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// AnalyzerError represents an analyzer that failed at runtime. Such failures are
// reported, never returned: the affected part of the result falls back to a neutral value.
type AnalyzerError struct {
	Analyzer string
	Message  string
	Cause    error
}

func (e *AnalyzerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analyzer %s failed: %s: %v", e.Analyzer, e.Message, e.Cause)
	}
	return fmt.Sprintf("analyzer %s failed: %s", e.Analyzer, e.Message)
}

func (e *AnalyzerError) Unwrap() error {
	return e.Cause
}

// guard runs fn and converts a panic into an AnalyzerError, logging it with the stack.
func guard(analyzer string, fn func()) (aerr *AnalyzerError) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		aerr = &AnalyzerError{Analyzer: analyzer, Message: fmt.Sprint(r)}
		if err, ok := r.(error); ok {
			aerr.Message = "panic"
			aerr.Cause = err
		}
		slog.Error("analyzer failed, using fallback", "analyzer", analyzer, "error", aerr, "stack", string(debug.Stack()))
	}()
	fn()
	return nil
}
