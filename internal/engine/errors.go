package engine

import (
	"errors"
	"fmt"

	"github.com/loomhq/loom/internal/action"
)

// RuntimeError represents an error detected during an automation pass.
//
// Runtime errors include:
//   - Owner load failure: the owner's automation list could not be read
//   - Lookup failure: a cross-entity reference could not be resolved
//   - Sink failure: an external side-effect call failed
//   - Unknown kind: a stored definition names an unregistered kind
//
// RuntimeError carries structured fields for diagnostics; action-level
// errors are logged and isolated rather than returned, so callers only
// ever see pass-level codes.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// AutomationID identifies the affected automation, when known.
	AutomationID string

	// ActionIndex is the position of the failing action within its
	// automation, or -1 when the error is not action-scoped.
	ActionIndex int

	// EntityID identifies the entity the pass was running against.
	EntityID string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeOwnerLoadFailed indicates the owner's automations could not
	// be loaded; the pass aborts.
	ErrCodeOwnerLoadFailed RuntimeErrorCode = "OWNER_LOAD_FAILED"

	// ErrCodeLookupFailed indicates a cross-entity reference did not
	// resolve.
	ErrCodeLookupFailed RuntimeErrorCode = "LOOKUP_FAILED"

	// ErrCodeSinkFailed indicates an external side-effect call failed.
	ErrCodeSinkFailed RuntimeErrorCode = "SINK_FAILED"

	// ErrCodeUnknownKind indicates a stored trigger or action kind has no
	// registered handler.
	ErrCodeUnknownKind RuntimeErrorCode = "UNKNOWN_KIND"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.AutomationID != "" && e.ActionIndex >= 0 {
		return fmt.Sprintf("%s: %s (automation=%s, action=%d)", e.Code, e.Message, e.AutomationID, e.ActionIndex)
	}
	if e.AutomationID != "" {
		return fmt.Sprintf("%s: %s (automation=%s)", e.Code, e.Message, e.AutomationID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsOwnerLoadError returns true if the error is an owner load failure.
// Uses errors.As to handle wrapped errors.
func IsOwnerLoadError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeOwnerLoadFailed
	}
	return false
}

// IsSinkError returns true if the error is a sink failure.
// Uses errors.As to handle wrapped errors.
func IsSinkError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeSinkFailed
	}
	return false
}

// NewOwnerLoadError creates a RuntimeError for a failed automation load.
func NewOwnerLoadError(ownerID string, err error) *RuntimeError {
	return &RuntimeError{
		Code:        ErrCodeOwnerLoadFailed,
		Message:     "could not load automations for owner",
		ActionIndex: -1,
		EntityID:    ownerID,
		Err:         err,
	}
}

// NewActionError wraps one isolated action failure with its code. The
// code resolves from the action package's sentinel causes; any executor
// error that is neither a sink nor a kind failure is an unresolved
// reference in the stored definition.
func NewActionError(automationID string, index int, ownerID string, err error) *RuntimeError {
	code := ErrCodeLookupFailed
	switch {
	case errors.Is(err, action.ErrUnknownKind):
		code = ErrCodeUnknownKind
	case errors.Is(err, action.ErrSinkFailed):
		code = ErrCodeSinkFailed
	}
	return &RuntimeError{
		Code:         code,
		Message:      "action failed",
		AutomationID: automationID,
		ActionIndex:  index,
		EntityID:     ownerID,
		Err:          err,
	}
}
