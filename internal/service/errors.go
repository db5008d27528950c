package service

import (
	"errors"
	"fmt"

	"github.com/predictionbingo/backend/internal/storage"
)

// Kind classifies a service failure. Policy kinds are detected before any
// store write and are never retried; KindStore wraps an opaque persistence
// failure.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindPhaseClosed       Kind = "phase_closed"
	KindGroupLocked       Kind = "group_locked"
	KindCapacityExceeded  Kind = "capacity_exceeded"
	KindAlreadyMember     Kind = "already_member"
	KindQuotaExceeded     Kind = "quota_exceeded"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
	KindStore             Kind = "store"
)

// Error is the failure type returned by every service operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error returned by a service.
// Returns KindStore for anything that is not a *Error.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStore
}

func errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// isDuplicate reports whether err is a duplicate-key failure from the
// store. Insert-style operations treat it as success so retries are safe.
func isDuplicate(err error) bool {
	return errors.Is(err, storage.ErrDuplicate)
}

// storeErr wraps a storage failure, translating storage.ErrNotFound into
// KindNotFound so callers see one error vocabulary.
func storeErr(message string, err error) *Error {
	if errors.Is(err, storage.ErrNotFound) {
		return &Error{Kind: KindNotFound, Message: message, Err: err}
	}
	return &Error{Kind: KindStore, Message: message, Err: err}
}
