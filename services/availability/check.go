package availability

import (
	"marketplace/models"
)

// Result is the outcome of an availability check. A taken slot is a normal outcome:
// Available is false, Reason is SlotConflict and Conflicts lists the blocking reservations.
type Result struct {
	Available bool                 `json:"available"`
	Reason    string               `json:"reason,omitempty"`
	Conflicts []models.Reservation `json:"conflicts,omitempty"`
}

// IsConflict reports whether the candidate was refused because the slot is taken.
func (r Result) IsConflict() bool {
	return !r.Available && r.Reason == SlotConflict
}

// Check validates candidate against rules and, when valid, tests it against the active
// reservations of resourceID. Validation failures are returned as errors; a taken slot is not.
func Check(resourceID string, candidate models.TimeWindow, rules Rules, existing []models.Reservation) (Result, error) {
	if err := ValidateWindow(candidate, rules); err != nil {
		return Result{}, err
	}
	return evaluate(resourceID, candidate, existing), nil
}

// CheckBookingAvailability applies the guest-count bounds and the overlap rule.
func CheckBookingAvailability(
	resourceID string,
	candidate models.TimeWindow,
	guestsCount int,
	bounds BoundedGuestCount,
	existing []models.Reservation,
) (Result, error) {
	return Check(resourceID, candidate, Rules{Policy: bounds, Quantity: guestsCount}, existing)
}

// CheckEventAvailability applies the overlap rule only. Ticket capacity is validated on its own
// when the event is created.
func CheckEventAvailability(resourceID string, candidate models.TimeWindow, existing []models.Reservation) (Result, error) {
	return Check(resourceID, candidate, Rules{}, existing)
}

func evaluate(resourceID string, candidate models.TimeWindow, existing []models.Reservation) Result {
	hits := conflicts(resourceID, candidate, existing)
	if len(hits) > 0 {
		return Result{Available: false, Reason: SlotConflict, Conflicts: hits}
	}
	return Result{Available: true}
}
