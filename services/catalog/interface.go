package catalog

import (
	"context"

	giftcardRepo "marketplace/database/repository/giftcard"
	vendorRepo "marketplace/database/repository/vendor"
	"marketplace/models"
	"marketplace/services/booking"
	"marketplace/services/tasks"

	"go.uber.org/zap"
)

// CatalogService manages a vendor's listings across every item type.
type CatalogService interface {
	CreateGiftCard(ctx context.Context, vendorID string, req models.GiftCardRequest) (*models.GiftCard, error)
	CreatePromotion(ctx context.Context, vendorID string, req models.GiftCardPromotionRequest) (*models.GiftCardPromotion, error)
	// ListItems returns the vendor's listings of one type as a typed slice.
	ListItems(ctx context.Context, vendorID string, itemType models.ItemType) (interface{}, error)
	Dashboard(ctx context.Context, vendorID string) (*models.VendorDashboard, error)
	ToggleActive(ctx context.Context, vendorID string, itemType models.ItemType, id string) (*models.ToggleResult, error)
	SetActive(ctx context.Context, itemType models.ItemType, vendorID, id string, active bool) (*models.ToggleResult, error)
}

// DefaultCatalogService implements CatalogService. Party bookings and events are delegated to
// the booking service so that reactivation goes through admission.
type DefaultCatalogService struct {
	Vendors      vendorRepo.VendorRepository
	GiftCards    giftcardRepo.GiftCardRepository
	Reservations booking.BookingService
	Tasks        tasks.Scheduler
	Logger       *zap.Logger
}
