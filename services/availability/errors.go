package availability

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected candidate.
type Kind string

const (
	KindInvalidTimeRange    Kind = "InvalidTimeRange"
	KindInvalidDateRange    Kind = "InvalidDateRange"
	KindQuantityOutOfBounds Kind = "QuantityOutOfBounds"
)

// SlotConflict is the reason reported by a negative Result. It is never returned as an error.
const SlotConflict = "SlotConflict"

// ValidationError is a caller input error. It is never retried.
type ValidationError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any ValidationError of the same Kind, so the sentinels below work with errors.Is.
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidTimeRange    = &ValidationError{Kind: KindInvalidTimeRange}
	ErrInvalidDateRange    = &ValidationError{Kind: KindInvalidDateRange}
	ErrQuantityOutOfBounds = &ValidationError{Kind: KindQuantityOutOfBounds}
)

func newValidationError(kind Kind, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsValidationError unwraps err to a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
