// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"marketplace/database"
	"marketplace/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// PartyBookingRepository stores party bookings and serves them as reservations.
type PartyBookingRepository interface {
	// FetchActive returns the active bookings of a vendor on date.
	FetchActive(ctx context.Context, vendorID, date string) ([]models.Reservation, error)
	// InsertTransactionally re-reads the vendor's day inside a transaction, runs recheck
	// and inserts the booking only when recheck passes.
	InsertTransactionally(ctx context.Context, booking *models.PartyBooking, recheck database.RecheckFunc) error
	GetByID(ctx context.Context, vendorID, id string) (*models.PartyBooking, error)
	ListByVendor(ctx context.Context, vendorID string) ([]models.PartyBooking, error)
	// SetActive flips isActive. Activation runs recheck against the day inside the transaction.
	SetActive(ctx context.Context, vendorID, id string, active bool, recheck database.RecheckFunc) (*models.PartyBooking, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	EnsureIndexes() error
}

type mongoPartyBookingRepo struct {
	coll   *mongo.Collection
	tracer trace.Tracer
}

// NewMongoPartyBookingRepo constructs a new MongoDB PartyBookingRepository.
func NewMongoPartyBookingRepo() PartyBookingRepository {
	return &mongoPartyBookingRepo{
		coll:   database.DB().Collection("party_bookings"),
		tracer: otel.Tracer("marketplace/repository/booking"),
	}
}
