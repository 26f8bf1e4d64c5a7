package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/database"
	"marketplace/models"
	"marketplace/services/booking"
	"marketplace/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultCatalogService) vendorFor(ctx context.Context, vendorID string, itemType models.ItemType) error {
	v, err := s.Vendors.GetByID(ctx, vendorID)
	if errors.Is(err, database.ErrNotFound) {
		return booking.ErrVendorNotFound
	}
	if err != nil {
		return err
	}
	if !v.Allows(itemType) {
		return booking.ErrFeatureDisabled
	}
	return nil
}

func validateGiftCard(req models.GiftCardRequest) error {
	if req.BasePrice < 0 {
		return invalid("basePrice", "base price cannot be negative")
	}
	if req.TotalValue < req.BasePrice {
		return invalid("totalValue", "total value (%.2f) cannot be less than the base price (%.2f)", req.TotalValue, req.BasePrice)
	}
	if req.Stock < 0 {
		return invalid("stock", "stock cannot be negative")
	}
	return nil
}

func (s *DefaultCatalogService) newGiftCard(ctx context.Context, vendorID string, req models.GiftCardRequest) (models.GiftCard, error) {
	item := req.ItemFields.ToItem(vendorID)
	slug, err := utils.UniqueSlug(ctx, utils.Slugify(item.Name), s.GiftCards.SlugExists)
	if err != nil {
		return models.GiftCard{}, fmt.Errorf("generate slug: %w", err)
	}
	now := time.Now()
	item.ID = uuid.NewString()
	item.Slug = slug
	item.CreatedAt, item.UpdatedAt = now, now
	return models.GiftCard{
		Item:        item,
		BasePrice:   req.BasePrice,
		TotalValue:  req.TotalValue,
		Stock:       req.Stock,
		TaxIncluded: req.TaxIncluded,
	}, nil
}

func (s *DefaultCatalogService) CreateGiftCard(ctx context.Context, vendorID string, req models.GiftCardRequest) (*models.GiftCard, error) {
	if err := s.vendorFor(ctx, vendorID, models.ItemGiftCard); err != nil {
		return nil, err
	}
	if err := validateGiftCard(req); err != nil {
		return nil, err
	}
	card, err := s.newGiftCard(ctx, vendorID, req)
	if err != nil {
		return nil, err
	}
	if err := s.GiftCards.InsertGiftCard(ctx, &card); err != nil {
		return nil, fmt.Errorf("store gift card: %w", err)
	}
	s.Logger.Info("gift card created", zap.String("vendorId", vendorID), zap.String("id", card.ID), zap.String("slug", card.Slug))
	return &card, nil
}

// CreatePromotion stores a discounted gift card and schedules it to switch off at its end date.
func (s *DefaultCatalogService) CreatePromotion(ctx context.Context, vendorID string, req models.GiftCardPromotionRequest) (*models.GiftCardPromotion, error) {
	if err := s.vendorFor(ctx, vendorID, models.ItemGiftCardPromotion); err != nil {
		return nil, err
	}
	if req.PromotionalPrice < 0 {
		return nil, invalid("promotionalPrice", "promotional price cannot be negative")
	}
	if req.TotalValue < req.PromotionalPrice {
		return nil, invalid("totalValue", "total value (%.2f) cannot be less than the promotional price (%.2f)", req.TotalValue, req.PromotionalPrice)
	}
	if req.Stock < 0 {
		return nil, invalid("stock", "stock cannot be negative")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, invalid("endDate", "promotion must end after it starts")
	}

	card, err := s.newGiftCard(ctx, vendorID, req.GiftCardRequest)
	if err != nil {
		return nil, err
	}
	promo := models.GiftCardPromotion{
		GiftCard:         card,
		PromotionalPrice: req.PromotionalPrice,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
	}
	if err := s.GiftCards.InsertPromotion(ctx, &promo); err != nil {
		return nil, fmt.Errorf("store promotion: %w", err)
	}

	if s.Tasks != nil {
		payload := models.DeactivatePayload{ItemType: models.ItemGiftCardPromotion, VendorID: vendorID, ItemID: promo.ID}
		if err := s.Tasks.ScheduleDeactivation(ctx, payload, promo.EndDate); err != nil {
			s.Logger.Error("failed to schedule promotion end", zap.String("id", promo.ID), zap.Error(err))
		}
	}
	s.Logger.Info("promotion created", zap.String("vendorId", vendorID), zap.String("id", promo.ID), zap.Time("endsAt", promo.EndDate))
	return &promo, nil
}
