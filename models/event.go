package models

// Event is a ticketed event held by a vendor.
type Event struct {
	Item               `bson:",inline"`
	Window             TimeWindow `bson:"window" json:"window"`   // event_date + start/end time
	EndDate            string     `bson:"endDate" json:"endDate"` // last day of the event, >= Window.Date
	TotalCapacity      int        `bson:"totalCapacity" json:"totalCapacity"`
	AvailableTickets   int        `bson:"availableTickets" json:"availableTickets"`
	PricePerTicket     float64    `bson:"pricePerTicket" json:"pricePerTicket"`
	TermsAndConditions string     `bson:"termsAndConditions,omitempty" json:"termsAndConditions,omitempty"`
}

// TicketsReserved is the capacity already consumed.
func (e Event) TicketsReserved() int {
	return e.TotalCapacity - e.AvailableTickets
}

// Reservation projects the event onto the availability model.
func (e Event) Reservation() Reservation {
	return Reservation{
		ID:         e.ID,
		ResourceID: e.VendorID,
		Window:     e.Window,
		IsActive:   e.IsActive,
		Quantity:   e.TicketsReserved(),
	}
}

// EventRequest is the payload for creating an event.
type EventRequest struct {
	ItemFields
	EventDate          string  `json:"eventDate" binding:"required"` // YYYY-MM-DD
	EndDate            string  `json:"endDate"`                      // defaults to EventDate
	StartTime          string  `json:"startTime" binding:"required"` // HH:MM
	EndTime            string  `json:"endTime" binding:"required"`   // HH:MM
	TotalCapacity      int     `json:"totalCapacity"`
	AvailableTickets   *int    `json:"availableTickets,omitempty"` // defaults to TotalCapacity
	PricePerTicket     float64 `json:"pricePerTicket"`
	TermsAndConditions string  `json:"termsAndConditions,omitempty"`
}

// EventAvailabilityQuery asks whether an event window is free.
type EventAvailabilityQuery struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}
