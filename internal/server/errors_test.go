package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "text", Message: "required"}, http.StatusBadRequest},
		{"schema", &schemas.ValidationError{Schema: schemas.ScoreRequest}, http.StatusBadRequest},
		{"resume data", &types.ValidationError{}, http.StatusBadRequest},
		{"not found", fmt.Errorf("get: %w", &db.NotFoundError{ID: uuid.New()}), http.StatusNotFound},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"unsupported", fmt.Errorf("detect: %w", ingestion.ErrUnsupportedFormat), http.StatusUnsupportedMediaType},
		{"extract", &ingestion.ExtractError{Name: "cv.pdf", Message: "no text"}, http.StatusUnprocessableEntity},
		{"store disabled", ErrStoreDisabled, http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorBody(t *testing.T) {
	body := errorBody(&schemas.ValidationError{
		Schema: schemas.ScoreRequest,
		Errors: []schemas.FieldError{{Field: "user_type", Message: "must be one of the enum values"}},
	})
	assert.Equal(t, "request does not match schema", body.Error)
	assert.Len(t, body.Details, 1)

	assert.Equal(t, "internal server error", errorBody(errors.New("pq: password=secret")).Error)
	assert.Equal(t, ErrStoreDisabled.Error(), errorBody(ErrStoreDisabled).Error)
}
