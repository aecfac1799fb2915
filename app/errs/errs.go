// Package errs defines the error taxonomy shared across the service.
// Every error carries enough context (record, phase, underlying cause) for an
// operator to act on it without reading logs backwards.
package errs

import (
	"errors"
	"fmt"
)

// PermissionError reports a credential or filesystem permission problem.
// Terminal: never retried automatically. Remediation tells the operator how
// to fix the setup by hand.
type PermissionError struct {
	Op          string
	Remediation string
	Err         error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied during %s: %v (remediation: %s)", e.Op, e.Err, e.Remediation)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// NewPermissionError wraps err with the operation and remediation text.
func NewPermissionError(op, remediation string, err error) error {
	return &PermissionError{Op: op, Remediation: remediation, Err: err}
}

// NotFoundError reports a missing base, table or record.
type NotFoundError struct {
	Kind string // "base", "table", "record", "campaign", "keyword"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// NewNotFound creates a NotFoundError for the given entity kind and id.
func NewNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// InvalidStateError reports an operation attempted on an entity whose current
// state does not allow it (e.g. marking a non-Available keyword as used).
type InvalidStateError struct {
	Kind  string
	ID    string
	State string
	Op    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s %s %q in state %q", e.Op, e.Kind, e.ID, e.State)
}

// NewInvalidState creates an InvalidStateError.
func NewInvalidState(kind, id, state, op string) error {
	return &InvalidStateError{Kind: kind, ID: id, State: state, Op: op}
}

// InvalidTransitionError reports a disallowed workflow transition. Always an
// ordering bug or a race between two scans, never swallowed.
type InvalidTransitionError struct {
	RecordID string
	From     string
	To       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("record %s: invalid transition %s -> %s", e.RecordID, e.From, e.To)
}

// NewInvalidTransition creates an InvalidTransitionError.
func NewInvalidTransition(recordID, from, to string) error {
	return &InvalidTransitionError{RecordID: recordID, From: from, To: to}
}

// ExternalServiceError reports a network/timeout/non-2xx failure from a
// collaborator (LLM provider, image provider, distribution pipe).
type ExternalServiceError struct {
	Service string
	Phase   string // "generation", "publishing", "schema"
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s failed during %s: %v", e.Service, e.Phase, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// NewExternalService wraps err with the failing service and phase.
func NewExternalService(service, phase string, err error) error {
	return &ExternalServiceError{Service: service, Phase: phase, Err: err}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsInvalidTransition reports whether err is (or wraps) an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}

// IsInvalidState reports whether err is (or wraps) an InvalidStateError.
func IsInvalidState(err error) bool {
	var e *InvalidStateError
	return errors.As(err, &e)
}

// IsPermission reports whether err is (or wraps) a PermissionError.
func IsPermission(err error) bool {
	var e *PermissionError
	return errors.As(err, &e)
}
