// File: database/repository/giftcard/interface.go
package giftcardRepo

import (
	"context"

	"marketplace/database"
	"marketplace/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// GiftCardRepository stores gift cards and their promotions.
type GiftCardRepository interface {
	InsertGiftCard(ctx context.Context, card *models.GiftCard) error
	InsertPromotion(ctx context.Context, promo *models.GiftCardPromotion) error
	ListGiftCards(ctx context.Context, vendorID string) ([]models.GiftCard, error)
	ListPromotions(ctx context.Context, vendorID string) ([]models.GiftCardPromotion, error)
	// ToggleGiftCard and TogglePromotion flip isActive in a single update.
	ToggleGiftCard(ctx context.Context, vendorID, id string) (*models.GiftCard, error)
	TogglePromotion(ctx context.Context, vendorID, id string) (*models.GiftCardPromotion, error)
	SetGiftCardActive(ctx context.Context, vendorID, id string, active bool) (*models.GiftCard, error)
	SetPromotionActive(ctx context.Context, vendorID, id string, active bool) (*models.GiftCardPromotion, error)
	// SlugExists checks gift cards and promotions, which share one slug namespace.
	SlugExists(ctx context.Context, slug string) (bool, error)
	EnsureIndexes() error
}

type mongoGiftCardRepo struct {
	cards      *mongo.Collection
	promotions *mongo.Collection
}

// NewMongoGiftCardRepo constructs a new MongoDB GiftCardRepository.
func NewMongoGiftCardRepo() GiftCardRepository {
	db := database.DB()
	return &mongoGiftCardRepo{
		cards:      db.Collection("gift_cards"),
		promotions: db.Collection("gift_card_promotions"),
	}
}
