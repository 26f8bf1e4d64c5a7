package models

// PartyBooking is a venue booking for a group of guests.
type PartyBooking struct {
	Item        `bson:",inline"`
	CustomerID  string     `bson:"customerId" json:"customerId"`
	Window      TimeWindow `bson:"window" json:"window"` // booking_date + start/end time
	MinGuests   int        `bson:"minGuests" json:"minGuests"`
	MaxGuests   int        `bson:"maxGuests" json:"maxGuests"`
	GuestsCount int        `bson:"guestsCount" json:"guestsCount"`
}

// Reservation projects the booking onto the availability model.
func (b PartyBooking) Reservation() Reservation {
	return Reservation{
		ID:         b.ID,
		ResourceID: b.VendorID,
		Window:     b.Window,
		IsActive:   b.IsActive,
		Quantity:   b.GuestsCount,
	}
}

// PartyBookingRequest is the payload for creating a party booking.
type PartyBookingRequest struct {
	ItemFields
	CustomerID  string `json:"customerId" binding:"required"`
	BookingDate string `json:"bookingDate" binding:"required"` // YYYY-MM-DD
	StartTime   string `json:"startTime" binding:"required"`   // HH:MM
	EndTime     string `json:"endTime" binding:"required"`     // HH:MM
	MinGuests   *int   `json:"minGuests,omitempty"`            // defaults to 1
	MaxGuests   int    `json:"maxGuests"`
	GuestsCount int    `json:"guestsCount"`
}

// DefaultMinGuests applies when a request leaves MinGuests unset.
const DefaultMinGuests = 1

// PartyAvailabilityQuery asks whether a party booking would be admitted.
type PartyAvailabilityQuery struct {
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	GuestsCount int    `json:"guestsCount"`
	MinGuests   *int   `json:"minGuests,omitempty"`
	MaxGuests   int    `json:"maxGuests"`
}
