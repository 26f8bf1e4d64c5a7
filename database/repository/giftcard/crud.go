// File: database/repository/giftcard/crud.go
package giftcardRepo

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
)

func (r *mongoGiftCardRepo) InsertGiftCard(ctx context.Context, card *models.GiftCard) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.cards.InsertOne(ctx, card); err != nil {
		return fmt.Errorf("insert gift card: %w", err)
	}
	return nil
}

func (r *mongoGiftCardRepo) InsertPromotion(ctx context.Context, promo *models.GiftCardPromotion) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.promotions.InsertOne(ctx, promo); err != nil {
		return fmt.Errorf("insert gift card promotion: %w", err)
	}
	return nil
}

func (r *mongoGiftCardRepo) ListGiftCards(ctx context.Context, vendorID string) ([]models.GiftCard, error) {
	cards := []models.GiftCard{}
	if err := listByVendor(ctx, r.cards, vendorID, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *mongoGiftCardRepo) ListPromotions(ctx context.Context, vendorID string) ([]models.GiftCardPromotion, error) {
	promos := []models.GiftCardPromotion{}
	if err := listByVendor(ctx, r.promotions, vendorID, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}

func (r *mongoGiftCardRepo) ToggleGiftCard(ctx context.Context, vendorID, id string) (*models.GiftCard, error) {
	return toggle[models.GiftCard](ctx, r.cards, vendorID, id)
}

func (r *mongoGiftCardRepo) TogglePromotion(ctx context.Context, vendorID, id string) (*models.GiftCardPromotion, error) {
	return toggle[models.GiftCardPromotion](ctx, r.promotions, vendorID, id)
}

func (r *mongoGiftCardRepo) SetGiftCardActive(ctx context.Context, vendorID, id string, active bool) (*models.GiftCard, error) {
	return setActive[models.GiftCard](ctx, r.cards, vendorID, id, active)
}

func (r *mongoGiftCardRepo) SetPromotionActive(ctx context.Context, vendorID, id string, active bool) (*models.GiftCardPromotion, error) {
	return setActive[models.GiftCardPromotion](ctx, r.promotions, vendorID, id, active)
}

func (r *mongoGiftCardRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, coll := range []*mongo.Collection{r.cards, r.promotions} {
		n, err := coll.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
		if err != nil {
			return false, fmt.Errorf("count gift card slugs: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func listByVendor(ctx context.Context, coll *mongo.Collection, vendorID string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.M{"vendorId": vendorID}, opts)
	if err != nil {
		return fmt.Errorf("list %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return nil
}

// toggle flips isActive with an aggregation-pipeline update so no read is needed.
func toggle[T any](ctx context.Context, coll *mongo.Collection, vendorID, id string) (*T, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "isActive", Value: bson.D{{Key: "$not", Value: bson.A{"$isActive"}}}},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	}
	return findOneAndUpdate[T](ctx, coll, vendorID, id, pipeline)
}

func setActive[T any](ctx context.Context, coll *mongo.Collection, vendorID, id string, active bool) (*T, error) {
	update := bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now()}}
	return findOneAndUpdate[T](ctx, coll, vendorID, id, update)
}

func findOneAndUpdate[T any](ctx context.Context, coll *mongo.Collection, vendorID, id string, update interface{}) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := coll.FindOneAndUpdate(ctx, bson.M{"id": id, "vendorId": vendorID}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	return &doc, nil
}
