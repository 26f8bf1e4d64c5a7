package catalog

import (
	"context"
	"errors"

	"marketplace/database"
	"marketplace/models"
	"marketplace/services/booking"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func (s *DefaultCatalogService) ListItems(ctx context.Context, vendorID string, itemType models.ItemType) (interface{}, error) {
	switch itemType {
	case models.ItemGiftCard:
		return s.GiftCards.ListGiftCards(ctx, vendorID)
	case models.ItemGiftCardPromotion:
		return s.GiftCards.ListPromotions(ctx, vendorID)
	case models.ItemPartyBooking:
		return s.Reservations.ListPartyBookings(ctx, vendorID)
	case models.ItemEvent:
		return s.Reservations.ListEvents(ctx, vendorID)
	}
	return nil, ErrUnknownItemType
}

// Dashboard loads the vendor and its four listing collections concurrently.
func (s *DefaultCatalogService) Dashboard(ctx context.Context, vendorID string) (*models.VendorDashboard, error) {
	v, err := s.Vendors.GetByID(ctx, vendorID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, booking.ErrVendorNotFound
	}
	if err != nil {
		return nil, err
	}

	d := &models.VendorDashboard{Vendor: *v}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.GiftCards, err = s.GiftCards.ListGiftCards(gctx, vendorID)
		return err
	})
	g.Go(func() (err error) {
		d.Promotions, err = s.GiftCards.ListPromotions(gctx, vendorID)
		return err
	})
	g.Go(func() (err error) {
		d.Bookings, err = s.Reservations.ListPartyBookings(gctx, vendorID)
		return err
	})
	g.Go(func() (err error) {
		d.Events, err = s.Reservations.ListEvents(gctx, vendorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DefaultCatalogService) ToggleActive(ctx context.Context, vendorID string, itemType models.ItemType, id string) (*models.ToggleResult, error) {
	var active bool
	switch itemType {
	case models.ItemGiftCard:
		card, err := s.GiftCards.ToggleGiftCard(ctx, vendorID, id)
		if err != nil {
			return nil, notFound(err)
		}
		active = card.IsActive
	case models.ItemGiftCardPromotion:
		promo, err := s.GiftCards.TogglePromotion(ctx, vendorID, id)
		if err != nil {
			return nil, notFound(err)
		}
		active = promo.IsActive
	case models.ItemPartyBooking, models.ItemEvent:
		return s.Reservations.ToggleActive(ctx, itemType, vendorID, id)
	default:
		return nil, ErrUnknownItemType
	}
	s.Logger.Info("listing toggled", zap.String("itemType", string(itemType)), zap.String("id", id), zap.Bool("isActive", active))
	return &models.ToggleResult{ItemType: itemType, ID: id, IsActive: active}, nil
}

// SetActive forces a listing on or off. The expiry worker uses it to close finished listings.
func (s *DefaultCatalogService) SetActive(ctx context.Context, itemType models.ItemType, vendorID, id string, active bool) (*models.ToggleResult, error) {
	switch itemType {
	case models.ItemGiftCard:
		card, err := s.GiftCards.SetGiftCardActive(ctx, vendorID, id, active)
		if err != nil {
			return nil, notFound(err)
		}
		return &models.ToggleResult{ItemType: itemType, ID: id, IsActive: card.IsActive}, nil
	case models.ItemGiftCardPromotion:
		promo, err := s.GiftCards.SetPromotionActive(ctx, vendorID, id, active)
		if err != nil {
			return nil, notFound(err)
		}
		return &models.ToggleResult{ItemType: itemType, ID: id, IsActive: promo.IsActive}, nil
	case models.ItemPartyBooking, models.ItemEvent:
		return s.Reservations.SetActive(ctx, itemType, vendorID, id, active)
	}
	return nil, ErrUnknownItemType
}

func notFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return booking.ErrListingNotFound
	}
	return err
}
