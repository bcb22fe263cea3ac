package core

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid field input at the component boundary. The
// operation that returns it has not mutated any state; the user corrects the
// input and retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PreconditionError reports a submission attempted with missing required
// fields. Same treatment as ValidationError, but raised at the orchestration
// boundary before any network activity.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition failed: %s", e.Op, e.Reason)
}

// ServiceUnavailableError wraps any transport or service failure: timeout,
// connection refused, non-success status. Recoverable by retry or by
// degrading to the local fallback.
type ServiceUnavailableError struct {
	Op  string
	Err error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("%s: analysis service unavailable: %v", e.Op, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Err }

// NotFoundError reports a simulation id unknown to both the service and the
// local fallback store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("simulation %q not found", e.ID)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPrecondition reports whether err is a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// IsServiceUnavailable reports whether err is a ServiceUnavailableError.
func IsServiceUnavailable(err error) bool {
	var se *ServiceUnavailableError
	return errors.As(err, &se)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
