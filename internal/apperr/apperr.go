// Package apperr carries the error classification the HTTP layer maps to
// status codes. Every rejection produced by validation or the orchestrators
// is one of these kinds; all of them are expected, recoverable outcomes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business-rule rejection.
type Kind int

const (
	// KindNotFound: the addressed entity does not exist.
	KindNotFound Kind = iota + 1
	// KindInvalidReference: a provided foreign key points at nothing.
	KindInvalidReference
	// KindRelationshipMismatch: the acudiente does not belong to the participante.
	KindRelationshipMismatch
	// KindMissingRequiredField: a conditionally required field is absent.
	KindMissingRequiredField
	// KindDuplicate: a uniqueness rule would be violated.
	KindDuplicate
	// KindHasDependencies: deletion blocked by dependent records.
	KindHasDependencies
	// KindValidation: field-format violation caught before any store access.
	KindValidation
)

// Error is a classified, client-facing error. The message is safe to return
// to the client as-is; no store internals go through here.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// New builds a classified error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// Validation wraps a format-validation failure.
func Validation(err error) *Error {
	return &Error{Kind: KindValidation, Message: err.Error()}
}

// KindOf extracts the Kind from an error chain, or 0 for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
