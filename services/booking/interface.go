package booking

import (
	"context"

	"marketplace/models"
	"marketplace/services/availability"
)

// Outcome is the result of an admission. Exactly one of Item or Conflicts is set.
type Outcome[T any] struct {
	Item      *T                   `json:"item,omitempty"`
	Reason    string               `json:"reason,omitempty"`
	Conflicts []models.Reservation `json:"conflicts,omitempty"`
	Free      []models.TimeWindow  `json:"free,omitempty"`
}

// Admitted reports whether the item was stored.
func (o *Outcome[T]) Admitted() bool {
	return o.Item != nil
}

// BookingService admits party bookings and events and answers availability queries for them.
type BookingService interface {
	CreatePartyBooking(ctx context.Context, vendorID string, req models.PartyBookingRequest) (*Outcome[models.PartyBooking], error)
	CreateEvent(ctx context.Context, vendorID string, req models.EventRequest) (*Outcome[models.Event], error)

	ListPartyBookings(ctx context.Context, vendorID string) ([]models.PartyBooking, error)
	ListEvents(ctx context.Context, vendorID string) ([]models.Event, error)

	// ToggleActive flips is_active. Reactivation is re-admitted and may be refused with conflicts.
	ToggleActive(ctx context.Context, itemType models.ItemType, vendorID, id string) (*models.ToggleResult, error)
	SetActive(ctx context.Context, itemType models.ItemType, vendorID, id string, active bool) (*models.ToggleResult, error)

	CheckPartyAvailability(ctx context.Context, vendorID string, q models.PartyAvailabilityQuery) (*availability.Result, error)
	CheckEventAvailability(ctx context.Context, vendorID string, q models.EventAvailabilityQuery) (*availability.Result, error)
	DaySchedule(ctx context.Context, itemType models.ItemType, vendorID, date string) (*models.DaySchedule, error)
}
