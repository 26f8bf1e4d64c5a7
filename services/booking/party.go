package booking

import (
	"context"
	"errors"
	"fmt"

	"marketplace/database"
	"marketplace/models"
	"marketplace/services/availability"
	"marketplace/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// partyRules resolves the guest bounds of a request, defaulting the minimum to one guest.
func partyRules(minGuests *int, maxGuests, guests int) (availability.BoundedGuestCount, availability.Rules) {
	lo := models.DefaultMinGuests
	if minGuests != nil {
		lo = *minGuests
	}
	bounds := availability.BoundedGuestCount{Min: lo, Max: maxGuests}
	return bounds, availability.Rules{Policy: bounds, Quantity: guests}
}

func (s *DefaultBookingService) CreatePartyBooking(ctx context.Context, vendorID string, req models.PartyBookingRequest) (*Outcome[models.PartyBooking], error) {
	if _, err := s.vendorFor(ctx, vendorID, models.ItemPartyBooking); err != nil {
		return nil, err
	}

	window, err := models.NewTimeWindow(req.BookingDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, malformed(err)
	}
	bounds, rules := partyRules(req.MinGuests, req.MaxGuests, req.GuestsCount)
	if err := availability.ValidateWindow(window, rules); err != nil {
		return nil, err
	}

	release, err := s.Guard.Acquire(ctx, AdmissionKey(models.ItemPartyBooking, vendorID, window.Date))
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := s.bookingEngine.CheckBooking(ctx, vendorID, window, req.GuestsCount, bounds)
	if err != nil {
		return nil, err
	}
	if !res.Available {
		s.Logger.Info("party booking refused",
			zap.String("vendorId", vendorID),
			zap.String("window", window.String()),
			zap.Int("conflicts", len(res.Conflicts)))
		return refuse[models.PartyBooking](ctx, s.bookingEngine, vendorID, window.Date, res.Conflicts)
	}

	slug, err := utils.UniqueSlug(ctx, utils.Slugify(req.Name), s.Bookings.SlugExists)
	if err != nil {
		return nil, fmt.Errorf("generate slug: %w", err)
	}

	now := s.now()
	b := models.PartyBooking{
		Item:        req.ItemFields.ToItem(vendorID),
		CustomerID:  req.CustomerID,
		Window:      window,
		MinGuests:   bounds.Min,
		MaxGuests:   bounds.Max,
		GuestsCount: req.GuestsCount,
	}
	b.ID = uuid.NewString()
	b.Slug = slug
	b.CreatedAt, b.UpdatedAt = now, now

	var lost []models.Reservation
	err = s.Bookings.InsertTransactionally(ctx, &b, admissionRecheck(vendorID, window, &lost))
	if errors.Is(err, database.ErrSlotTaken) {
		s.Logger.Warn("party booking lost the slot at commit", zap.String("vendorId", vendorID), zap.String("window", window.String()))
		return refuse[models.PartyBooking](ctx, s.bookingEngine, vendorID, window.Date, lost)
	}
	if errors.Is(err, database.ErrContended) {
		return nil, ErrGuardBusy
	}
	if err != nil {
		return nil, fmt.Errorf("store party booking: %w", err)
	}

	s.invalidate(ctx, models.ItemPartyBooking, vendorID, window.Date)
	s.Logger.Info("party booking admitted",
		zap.String("vendorId", vendorID),
		zap.String("bookingId", b.ID),
		zap.String("window", window.String()))
	return &Outcome[models.PartyBooking]{Item: &b}, nil
}

func (s *DefaultBookingService) ListPartyBookings(ctx context.Context, vendorID string) ([]models.PartyBooking, error) {
	return s.Bookings.ListByVendor(ctx, vendorID)
}
