// File: database/repository/event/queries.go
package eventRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/database"
	"marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when the (name, event date) unique index rejects an insert.
var ErrDuplicate = errors.New("an event with this name and start date already exists")

func (r *mongoEventRepo) FetchActive(ctx context.Context, vendorID, date string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.fetchActive(ctx, vendorID, date)
}

func (r *mongoEventRepo) fetchActive(ctx context.Context, vendorID, date string) ([]models.Reservation, error) {
	cursor, err := r.coll.Find(ctx, database.ActiveOnDateFilter(vendorID, date))
	if err != nil {
		return nil, fmt.Errorf("find active events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	out := make([]models.Reservation, 0, len(events))
	for _, e := range events {
		out = append(out, e.Reservation())
	}
	return out, nil
}

func (r *mongoEventRepo) ListByVendor(ctx context.Context, vendorID string) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "window.date", Value: 1}, {Key: "window.start", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"vendorId": vendorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

func (r *mongoEventRepo) ExistsByNameAndDate(ctx context.Context, name, eventDate, excludeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"name": name, "window.date": eventDate}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count events by name and date: %w", err)
	}
	return n > 0, nil
}

func (r *mongoEventRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count event slugs: %w", err)
	}
	return n > 0, nil
}
