// File: database/repository/event/crud.go
package eventRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/database"
	"marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func (r *mongoEventRepo) InsertTransactionally(ctx context.Context, event *models.Event, recheck database.RecheckFunc) error {
	ctx, span := r.tracer.Start(ctx, "event.insert_transactionally",
		trace.WithAttributes(
			attribute.String("vendor.id", event.VendorID),
			attribute.String("window", event.Window.String()),
			attribute.Int("capacity.total", event.TotalCapacity),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := database.WithTransaction(ctx, r.coll.Database().Client(), func(sc mongo.SessionContext) error {
		if err := database.ClaimDay(sc, r.coll.Database(), models.ItemEvent, event.VendorID, event.Window.Date); err != nil {
			return err
		}
		existing, err := r.fetchActive(sc, event.VendorID, event.Window.Date)
		if err != nil {
			return err
		}
		if err := recheck(existing); err != nil {
			return err
		}
		if _, err := r.coll.InsertOne(sc, event); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("insert event: %w", ErrDuplicate)
			}
			return fmt.Errorf("insert event failed: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, database.ErrSlotTaken) || errors.Is(err, database.ErrContended) || errors.Is(err, ErrDuplicate) {
			return err
		}
		return fmt.Errorf("event transaction failed: %w", err)
	}
	return nil
}

func (r *mongoEventRepo) GetByID(ctx context.Context, vendorID, id string) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var event models.Event
	err := r.coll.FindOne(ctx, bson.M{"id": id, "vendorId": vendorID}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

func (r *mongoEventRepo) SetActive(ctx context.Context, vendorID, id string, active bool, recheck database.RecheckFunc) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var updated models.Event
	err := database.WithTransaction(ctx, r.coll.Database().Client(), func(sc mongo.SessionContext) error {
		var current models.Event
		err := r.coll.FindOne(sc, bson.M{"id": id, "vendorId": vendorID}).Decode(&current)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return database.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("find event: %w", err)
		}

		if active && !current.IsActive && recheck != nil {
			if err := database.ClaimDay(sc, r.coll.Database(), models.ItemEvent, vendorID, current.Window.Date); err != nil {
				return err
			}
			existing, err := r.fetchActive(sc, vendorID, current.Window.Date)
			if err != nil {
				return err
			}
			if err := recheck(existing); err != nil {
				return err
			}
		}

		update := bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now()}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		return r.coll.FindOneAndUpdate(sc, bson.M{"id": id, "vendorId": vendorID}, update, opts).Decode(&updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
