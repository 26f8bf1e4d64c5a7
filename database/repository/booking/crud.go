// File: database/repository/booking/crud.go
package bookingRepo

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

func (r *mongoPartyBookingRepo) FetchActive(ctx context.Context, vendorID, date string) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.fetchActive(ctx, vendorID, date)
}

func (r *mongoPartyBookingRepo) fetchActive(ctx context.Context, vendorID, date string) ([]models.Reservation, error) {
	cursor, err := r.coll.Find(ctx, database.ActiveOnDateFilter(vendorID, date))
	if err != nil {
		return nil, fmt.Errorf("find active party bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.PartyBooking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode party bookings: %w", err)
	}
	out := make([]models.Reservation, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.Reservation())
	}
	return out, nil
}

func (r *mongoPartyBookingRepo) InsertTransactionally(ctx context.Context, booking *models.PartyBooking, recheck database.RecheckFunc) error {
	ctx, span := r.tracer.Start(ctx, "booking.insert_transactionally",
		trace.WithAttributes(
			attribute.String("vendor.id", booking.VendorID),
			attribute.String("window", booking.Window.String()),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := database.WithTransaction(ctx, r.coll.Database().Client(), func(sc mongo.SessionContext) error {
		if err := database.ClaimDay(sc, r.coll.Database(), models.ItemPartyBooking, booking.VendorID, booking.Window.Date); err != nil {
			return err
		}
		existing, err := r.fetchActive(sc, booking.VendorID, booking.Window.Date)
		if err != nil {
			return err
		}
		if err := recheck(existing); err != nil {
			return err
		}
		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert party booking failed: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, database.ErrSlotTaken) || errors.Is(err, database.ErrContended) {
			return err
		}
		return fmt.Errorf("party booking transaction failed: %w", err)
	}
	return nil
}

func (r *mongoPartyBookingRepo) GetByID(ctx context.Context, vendorID, id string) (*models.PartyBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.PartyBooking
	err := r.coll.FindOne(ctx, bson.M{"id": id, "vendorId": vendorID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find party booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoPartyBookingRepo) ListByVendor(ctx context.Context, vendorID string) ([]models.PartyBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "window.date", Value: 1}, {Key: "window.start", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"vendorId": vendorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list party bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.PartyBooking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("decode party bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoPartyBookingRepo) SetActive(ctx context.Context, vendorID, id string, active bool, recheck database.RecheckFunc) (*models.PartyBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var updated models.PartyBooking
	err := database.WithTransaction(ctx, r.coll.Database().Client(), func(sc mongo.SessionContext) error {
		var current models.PartyBooking
		err := r.coll.FindOne(sc, bson.M{"id": id, "vendorId": vendorID}).Decode(&current)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return database.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("find party booking: %w", err)
		}

		if active && !current.IsActive && recheck != nil {
			if err := database.ClaimDay(sc, r.coll.Database(), models.ItemPartyBooking, vendorID, current.Window.Date); err != nil {
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

func (r *mongoPartyBookingRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count party booking slugs: %w", err)
	}
	return n > 0, nil
}
