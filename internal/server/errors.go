package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/types"
)

// ErrValidation indicates a request that is well-formed JSON but semantically invalid.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrStoreDisabled is returned by report endpoints when no report store is configured.
var ErrStoreDisabled = errors.New("report store is not configured")

// ErrAIDisabled is returned when an AI rewrite is requested but no LLM client is configured.
var ErrAIDisabled = errors.New("AI rewriting is not configured")

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		schemaErr   *schemas.ValidationError
		dataErr     *types.ValidationError
		notFound    *db.NotFoundError
		extractErr  *ingestion.ExtractError
		maxBytesErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &schemaErr), errors.As(err, &dataErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingestion.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extractErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrStoreDisabled), errors.Is(err, ErrAIDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorBody builds the response body for err, exposing field details for validation errors.
func errorBody(err error) ErrorResponse {
	var (
		schemaErr *schemas.ValidationError
		dataErr   *types.ValidationError
	)
	switch {
	case errors.As(err, &schemaErr):
		return ErrorResponse{Error: "request does not match schema", Details: schemaErr.Errors}
	case errors.As(err, &dataErr):
		return ErrorResponse{Error: "invalid resume data", Details: dataErr.Fields}
	case HTTPStatus(err) == http.StatusInternalServerError:
		return ErrorResponse{Error: "internal server error"}
	default:
		return ErrorResponse{Error: err.Error()}
	}
}
