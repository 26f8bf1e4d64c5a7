package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidListing  = errors.New("invalid listing")
	ErrUnknownItemType = errors.New("unknown item type")
)

// ListingError names the field of a gift card or promotion that failed validation.
type ListingError struct {
	Field   string
	Message string
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ListingError) Is(target error) bool {
	return target == ErrInvalidListing
}

func invalid(field, format string, args ...interface{}) error {
	return &ListingError{Field: field, Message: fmt.Sprintf(format, args...)}
}
