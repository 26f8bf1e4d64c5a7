package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecheckFunc re-runs the overlap rule on the reservations read inside an admission
// transaction. A non-nil error aborts the transaction.
type RecheckFunc func(existing []models.Reservation) error

// ActiveOnDateFilter selects the active listings of a vendor on one day.
func ActiveOnDateFilter(vendorID, date string) bson.M {
	return bson.M{
		"vendorId":    vendorID,
		"window.date": date,
		"isActive":    true,
	}
}

// ErrContended is returned when a concurrent transaction touched the same admission day first.
var ErrContended = errors.New("concurrent admission on the same day")

// AdmissionDaysCollection holds one claim document per item type, vendor and date.
const AdmissionDaysCollection = "admission_days"

// AdmissionDayIndexes makes the claim key unique, so two first admissions of a day cannot each
// upsert their own document.
func AdmissionDayIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "itemType", Value: 1}, {Key: "vendorId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_admission_day"),
		},
	}
}

// EnsureAdmissionIndexes creates the admission_days indexes on db.
func EnsureAdmissionIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.Collection(AdmissionDaysCollection).Indexes().CreateMany(ctx, AdmissionDayIndexes()); err != nil {
		return fmt.Errorf("failed to create admission day indexes: %w", err)
	}
	return nil
}

// ClaimDay bumps the admission counter of one vendor day inside sc. Two transactions admitting
// on the same day both write this document, so MongoDB aborts one of them with a write
// conflict, or a duplicate key when neither saw the document yet, instead of letting both
// inserts commit.
func ClaimDay(sc mongo.SessionContext, db *mongo.Database, itemType models.ItemType, vendorID, date string) error {
	_, err := db.Collection(AdmissionDaysCollection).UpdateOne(sc,
		bson.M{"itemType": itemType, "vendorId": vendorID, "date": date},
		bson.M{"$inc": bson.M{"version": 1}, "$set": bson.M{"updatedAt": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return claimError(err)
	}
	return nil
}

func claimError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrContended, err)
	}
	return fmt.Errorf("claim admission day: %w", err)
}

type labeledError interface {
	HasErrorLabel(label string) bool
}

// contended maps an aborted transaction onto ErrContended.
func contended(err error) error {
	var labeled labeledError
	if errors.As(err, &labeled) && labeled.HasErrorLabel("TransientTransactionError") && !errors.Is(err, ErrContended) {
		return fmt.Errorf("%w: %v", ErrContended, err)
	}
	return err
}

// WithTransaction runs fn inside a session transaction on client, committing on success
// and aborting on any error.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
	return contended(err)
}
