package db

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrUnknownDriver is returned by Open for a driver other than postgres or sqlite.
var ErrUnknownDriver = errors.New("unknown store driver")

// NotFoundError represents a report lookup that matched no row.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("report %s not found", e.ID)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
