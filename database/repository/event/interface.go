// File: database/repository/event/interface.go
package eventRepo

import (
	"context"

	"marketplace/database"
	"marketplace/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// EventRepository stores ticketed events and serves them as reservations.
type EventRepository interface {
	FetchActive(ctx context.Context, vendorID, date string) ([]models.Reservation, error)
	InsertTransactionally(ctx context.Context, event *models.Event, recheck database.RecheckFunc) error
	GetByID(ctx context.Context, vendorID, id string) (*models.Event, error)
	ListByVendor(ctx context.Context, vendorID string) ([]models.Event, error)
	SetActive(ctx context.Context, vendorID, id string, active bool, recheck database.RecheckFunc) (*models.Event, error)
	// ExistsByNameAndDate reports whether another event already uses name on eventDate.
	ExistsByNameAndDate(ctx context.Context, name, eventDate, excludeID string) (bool, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	EnsureIndexes() error
}

type mongoEventRepo struct {
	coll   *mongo.Collection
	tracer trace.Tracer
}

// NewMongoEventRepo constructs a new MongoDB EventRepository.
func NewMongoEventRepo() EventRepository {
	return &mongoEventRepo{
		coll:   database.DB().Collection("events"),
		tracer: otel.Tracer("marketplace/repository/event"),
	}
}
