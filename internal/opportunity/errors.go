package opportunity

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(resource string, id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id.String()}
}

// InvalidStateError is returned when an operation is not allowed in the
// opportunity's current lifecycle state.
type InvalidStateError struct {
	Op     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

func invalidState(op, reason string) *InvalidStateError {
	return &InvalidStateError{Op: op, Reason: reason}
}

// ValidationError carries every unmet stage requirement and every rejected
// input field of a call, not only the first.
type ValidationError struct {
	Unmet  []pipeline.RequiredField
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string

	if len(e.Unmet) > 0 {
		names := make([]string, 0, len(e.Unmet))
		for _, f := range e.Unmet {
			names = append(names, f.String())
		}

		parts = append(parts, "missing required fields: "+strings.Join(names, ", "))
	}

	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}

	e.Fields[field] = msg
}

// orNil returns nil when nothing was recorded.
func (e *ValidationError) orNil() error {
	if len(e.Unmet) == 0 && len(e.Fields) == 0 {
		return nil
	}

	return e
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
