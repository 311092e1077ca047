// Package apperr is the engine's typed error taxonomy, ported from the
// teacher's pkg/errors with the §6 error taxonomy pre-populated. Errors are
// values with a kind, a human message, and an optional wrapped cause; the
// engine never throws across component boundaries for expected failures,
// only for programmer mistakes (spec.md §7).
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error with HTTP awareness, identical in shape to
// the teacher's pkg/errors.Error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// The §6 error taxonomy surfaced to callers. C2/C3/C4 collect violations
// into structured results and never return these for per-course/per-slot
// failures; C5 propagates only InvalidInput/InfeasibleWithinBudget/
// Cancelled; C6 surfaces the lifecycle-specific ones on publish/writes.
var (
	ErrInvalidInput                = New("INVALID_INPUT", http.StatusBadRequest, "invalid input")
	ErrInfeasibleWithinBudget      = New("INFEASIBLE_WITHIN_BUDGET", http.StatusUnprocessableEntity, "no feasible schedule found within the solver's time budget")
	ErrNoCertifiedTeacher          = New("NO_CERTIFIED_TEACHER", http.StatusUnprocessableEntity, "no teacher certified for this subject")
	ErrTeachersAtCapacity          = New("TEACHERS_AT_CAPACITY", http.StatusUnprocessableEntity, "certified teachers are all at workload capacity")
	ErrInsufficientRooms           = New("INSUFFICIENT_ROOMS", http.StatusUnprocessableEntity, "insufficient room supply for demand")
	ErrScheduleHasCriticalConflicts = New("SCHEDULE_HAS_CRITICAL_CONFLICTS", http.StatusConflict, "schedule has unresolved critical conflicts")
	ErrScheduleNotFound            = New("SCHEDULE_NOT_FOUND", http.StatusNotFound, "schedule not found")
	ErrScheduleImmutable           = New("SCHEDULE_IMMUTABLE", http.StatusConflict, "schedule is archived and immutable")
	ErrProposalNotFound            = New("PROPOSAL_NOT_FOUND", http.StatusNotFound, "proposal not found or expired")
	ErrCancelled                   = New("CANCELLED", http.StatusRequestTimeout, "operation cancelled")
	ErrInternal                    = New("INTERNAL", http.StatusInternalServerError, "internal server error")

	// ErrValidation and ErrNotFound are kept from the teacher's taxonomy for
	// the ambient HTTP/validator boundary (DTO validation, generic lookups)
	// that §6's taxonomy doesn't itself name.
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
)
