package veloxdoc

import (
	"errors"
	"fmt"

	"github.com/syssam/veloxdoc/decode"
	"github.com/syssam/veloxdoc/translate"
)

// Error types raised below the root package, re-exported under the
// names the public API documents.
type (
	// A TranslateError reports a query expression the store grammar
	// cannot express. Translation is all-or-nothing, so one offending
	// expression fails the whole compilation; nothing is ever sent to
	// the store to fail there instead.
	TranslateError = translate.Error

	// A ConfigError reports a misconfigured query, projection or
	// execution setting. Configuration failures surface at compile or
	// bind time, before any store request.
	ConfigError = translate.ConfigError

	// A DecodeError reports a fetched record that does not fit the
	// projected Go shape.
	DecodeError = decode.Error
)

// ErrUntranslatable is matched through errors.Is by every
// TranslateError.
var ErrUntranslatable = translate.ErrUntranslatable

// Standard sentinel errors for result arity.
var (
	// ErrNotFound is returned when a query that expects an entity
	// finds none.
	ErrNotFound = errors.New("veloxdoc: entity not found")

	// ErrNotSingular is returned when a query that expects exactly one
	// entity finds several.
	ErrNotSingular = errors.New("veloxdoc: entity not singular")
)

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	label string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("veloxdoc: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// NewNotFoundError returns a new NotFoundError for the given entity type.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NotSingularError represents an error when exactly one entity was
// expected and several were found.
type NotSingularError struct {
	label string
	count int
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.count < 0 {
		return fmt.Sprintf("veloxdoc: %s not singular", e.label)
	}
	return fmt.Sprintf("veloxdoc: %s not singular (%d results)", e.label, e.count)
}

// Is reports whether the target error matches NotSingularError.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// Label returns the entity label.
func (e *NotSingularError) Label() string {
	return e.label
}

// Count returns the number of entities found, or -1 when enumeration
// stopped at the second one.
func (e *NotSingularError) Count() int {
	return e.count
}

// NewNotSingularError returns a new NotSingularError for the given
// entity type. The result count is unknown.
func NewNotSingularError(label string) *NotSingularError {
	return &NotSingularError{label: label, count: -1}
}

// NewNotSingularErrorWithCount returns a new NotSingularError carrying
// the observed result count.
func NewNotSingularErrorWithCount(label string, count int) *NotSingularError {
	return &NotSingularError{label: label, count: count}
}

// IsNotFound returns a boolean indicating whether the error is a
// not-found error.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// IsNotSingular returns a boolean indicating whether the error is a
// not-singular error.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// IsUntranslatable returns a boolean indicating whether the error
// stems from an expression the store grammar cannot express.
func IsUntranslatable(err error) bool {
	return errors.Is(err, ErrUntranslatable)
}

// IsConfigError returns a boolean indicating whether the error is a
// configuration error.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}

// IsDecodeError returns a boolean indicating whether the error is a
// record materialization error.
func IsDecodeError(err error) bool {
	if err == nil {
		return false
	}
	var e *DecodeError
	return errors.As(err, &e)
}
