// Package validate rejects structurally malformed import payloads before
// any normalization is attempted. It is the fail-fast tier: the normalizers
// behind it are total, so everything that passes here migrates without
// error (though possibly with heavy defaulting).
package validate

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable classification of a validation or storage
// boundary failure.
type Kind string

// Error kinds, one per distinct violation.
const (
	KindNotAnObject          Kind = "not_an_object"
	KindFieldMustBeSequence  Kind = "field_must_be_sequence"
	KindFieldMustBeObject    Kind = "field_must_be_object"
	KindInvalidSchemaVersion Kind = "invalid_schema_version"
	KindInvalidJSON          Kind = "invalid_json"
	KindStorageUnavailable   Kind = "storage_unavailable"
	KindReadFailed           Kind = "read_failed"
)

// Error carries a kind plus a human-readable message. It wraps an
// underlying cause when one exists.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds a validation error without a cause.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a validation error around an underlying cause.
func WrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// KindOf extracts the kind from an error chain, or "" for foreign errors.
func KindOf(err error) Kind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
