package models

// Reservation is one use of a resource that takes part in conflict checks.
type Reservation struct {
	ID         string     `bson:"id" json:"id"`
	ResourceID string     `bson:"resourceId" json:"resourceId"` // vendor id; scoped per item type by the store
	Window     TimeWindow `bson:"window" json:"window"`
	IsActive   bool       `bson:"isActive" json:"isActive"`
	Quantity   int        `bson:"quantity" json:"quantity"` // guests for bookings, tickets reserved for events
}

// DaySchedule is the booked and free time of one resource on one day.
type DaySchedule struct {
	ResourceID string       `json:"resourceId"`
	ItemType   ItemType     `json:"itemType"`
	Date       string       `json:"date"`
	Booked     []TimeWindow `json:"booked"`
	Free       []TimeWindow `json:"free"`
}
