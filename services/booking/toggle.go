package booking

import (
	"context"
	"errors"

	"marketplace/database"
	"marketplace/models"

	"go.uber.org/zap"
)

// reservationStore is the part of a reservation repository activation needs.
type reservationStore struct {
	get       func(ctx context.Context, vendorID, id string) (models.Reservation, error)
	setActive func(ctx context.Context, vendorID, id string, active bool, recheck database.RecheckFunc) (models.Reservation, error)
}

func (s *DefaultBookingService) storeFor(itemType models.ItemType) (reservationStore, error) {
	switch itemType {
	case models.ItemPartyBooking:
		return reservationStore{
			get: func(ctx context.Context, vendorID, id string) (models.Reservation, error) {
				b, err := s.Bookings.GetByID(ctx, vendorID, id)
				if err != nil {
					return models.Reservation{}, err
				}
				return b.Reservation(), nil
			},
			setActive: func(ctx context.Context, vendorID, id string, active bool, recheck database.RecheckFunc) (models.Reservation, error) {
				b, err := s.Bookings.SetActive(ctx, vendorID, id, active, recheck)
				if err != nil {
					return models.Reservation{}, err
				}
				return b.Reservation(), nil
			},
		}, nil
	case models.ItemEvent:
		return reservationStore{
			get: func(ctx context.Context, vendorID, id string) (models.Reservation, error) {
				e, err := s.Events.GetByID(ctx, vendorID, id)
				if err != nil {
					return models.Reservation{}, err
				}
				return e.Reservation(), nil
			},
			setActive: func(ctx context.Context, vendorID, id string, active bool, recheck database.RecheckFunc) (models.Reservation, error) {
				e, err := s.Events.SetActive(ctx, vendorID, id, active, recheck)
				if err != nil {
					return models.Reservation{}, err
				}
				return e.Reservation(), nil
			},
		}, nil
	}
	return reservationStore{}, ErrNotReservable
}

func (s *DefaultBookingService) ToggleActive(ctx context.Context, itemType models.ItemType, vendorID, id string) (*models.ToggleResult, error) {
	store, err := s.storeFor(itemType)
	if err != nil {
		return nil, err
	}
	current, err := store.get(ctx, vendorID, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.SetActive(ctx, itemType, vendorID, id, !current.IsActive)
}

// SetActive switches a party booking or event on or off. Switching on is an admission: it runs
// under the guard and is refused with the conflicting reservations if the window was taken
// while the listing was inactive.
func (s *DefaultBookingService) SetActive(ctx context.Context, itemType models.ItemType, vendorID, id string, active bool) (*models.ToggleResult, error) {
	store, err := s.storeFor(itemType)
	if err != nil {
		return nil, err
	}
	current, err := store.get(ctx, vendorID, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}

	var recheck database.RecheckFunc
	var lost []models.Reservation
	if active && !current.IsActive {
		release, err := s.Guard.Acquire(ctx, AdmissionKey(itemType, vendorID, current.Window.Date))
		if err != nil {
			return nil, err
		}
		defer release()
		recheck = admissionRecheck(vendorID, current.Window, &lost)
	}

	updated, err := store.setActive(ctx, vendorID, id, active, recheck)
	switch {
	case errors.Is(err, database.ErrSlotTaken):
		s.Logger.Info("reactivation refused",
			zap.String("itemType", string(itemType)),
			zap.String("id", id),
			zap.Int("conflicts", len(lost)))
		return &models.ToggleResult{ItemType: itemType, ID: id, IsActive: false, Conflicts: lost}, nil
	case errors.Is(err, database.ErrNotFound):
		return nil, ErrListingNotFound
	case errors.Is(err, database.ErrContended):
		return nil, ErrGuardBusy
	case err != nil:
		return nil, err
	}

	s.invalidate(ctx, itemType, vendorID, current.Window.Date)
	return &models.ToggleResult{ItemType: itemType, ID: id, IsActive: updated.IsActive}, nil
}
