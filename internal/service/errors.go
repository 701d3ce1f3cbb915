package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is wrapped by every "does not exist" error.
	ErrNotFound = errors.New("not found")
	// ErrConflict is wrapped by uniqueness and delete-policy violations.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries per-field messages. Nothing is written when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// kindError keeps the client-facing message while matching ErrNotFound/ErrConflict.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func notFound(format string, args ...any) error {
	return &kindError{msg: fmt.Sprintf(format, args...), kind: ErrNotFound}
}

func conflict(format string, args ...any) error {
	return &kindError{msg: fmt.Sprintf(format, args...), kind: ErrConflict}
}

// translate maps storage errors that reached the service boundary onto the
// service error kinds. Anything else is returned unchanged.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return conflict("%s already exists", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return notFound("%s references a missing record", what)
	default:
		return err
	}
}
