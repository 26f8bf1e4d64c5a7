package booking

import (
	"errors"
	"fmt"
)

var (
	ErrVendorNotFound   = errors.New("vendor not found")
	ErrFeatureDisabled  = errors.New("listing type is disabled for this vendor")
	ErrDuplicateEvent   = errors.New("an event with this name and start date already exists")
	ErrMalformedRequest = errors.New("malformed request")
	ErrListingNotFound  = errors.New("listing not found")
	ErrNotReservable    = errors.New("listing type does not occupy time windows")
	// ErrGuardBusy is returned when the admission lock for a slot could not be taken in time.
	ErrGuardBusy = errors.New("resource is busy, try again")
)

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedRequest, err)
}
