package requirements

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for requirement store operations.
var (
	ErrNotFound  = errors.New("requirement not found")
	ErrDuplicate = errors.New("requirement already exists")
	ErrInvalid   = errors.New("invalid requirement")
)

// ValidationError reports every rule a requirement violates. It is returned
// before the store is mutated and matches ErrInvalid under errors.Is.
type ValidationError struct {
	ID         string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("requirement %q: %s", e.ID, strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
