// File: database/repository/memory/reservations.go
package memoryRepo

import (
	"context"
	"time"

	"marketplace/database"
	eventRepo "marketplace/database/repository/event"
	"marketplace/models"
)

// PartyBookingRepo is an in-process PartyBookingRepository. The table lock spans the
// recheck and the write, which stands in for the Mongo transaction.
type PartyBookingRepo struct {
	t *table[models.PartyBooking]
}

func NewPartyBookingRepo() *PartyBookingRepo {
	return &PartyBookingRepo{t: newTable[models.PartyBooking]()}
}

func (r *PartyBookingRepo) FetchActive(_ context.Context, vendorID, date string) ([]models.Reservation, error) {
	return reservationsOf(r.t.filter(func(b models.PartyBooking) bool {
		return activeOn(vendorID, date)(b.Reservation())
	})), nil
}

func (r *PartyBookingRepo) InsertTransactionally(_ context.Context, booking *models.PartyBooking, recheck database.RecheckFunc) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	existing := reservationsOf(r.t.filterLocked(func(b models.PartyBooking) bool {
		return activeOn(booking.VendorID, booking.Window.Date)(b.Reservation())
	}))
	if err := recheck(existing); err != nil {
		return err
	}
	r.t.put(booking.ID, *booking)
	return nil
}

func (r *PartyBookingRepo) GetByID(_ context.Context, vendorID, id string) (*models.PartyBooking, error) {
	b, ok := r.t.get(id)
	if !ok || b.VendorID != vendorID {
		return nil, database.ErrNotFound
	}
	return &b, nil
}

func (r *PartyBookingRepo) ListByVendor(_ context.Context, vendorID string) ([]models.PartyBooking, error) {
	return r.t.filter(func(b models.PartyBooking) bool { return b.VendorID == vendorID }), nil
}

func (r *PartyBookingRepo) SetActive(_ context.Context, vendorID, id string, active bool, recheck database.RecheckFunc) (*models.PartyBooking, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	b, ok := r.t.rows[id]
	if !ok || b.VendorID != vendorID {
		return nil, database.ErrNotFound
	}
	if active && !b.IsActive && recheck != nil {
		existing := reservationsOf(r.t.filterLocked(func(o models.PartyBooking) bool {
			return activeOn(vendorID, b.Window.Date)(o.Reservation())
		}))
		if err := recheck(existing); err != nil {
			return nil, err
		}
	}
	b.IsActive = active
	b.UpdatedAt = time.Now()
	r.t.put(id, b)
	return &b, nil
}

func (r *PartyBookingRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	return r.t.exists(func(b models.PartyBooking) bool { return b.Slug == slug }), nil
}

func (r *PartyBookingRepo) EnsureIndexes() error { return nil }

// EventRepo is an in-process EventRepository.
type EventRepo struct {
	t *table[models.Event]
}

func NewEventRepo() *EventRepo {
	return &EventRepo{t: newTable[models.Event]()}
}

func (r *EventRepo) FetchActive(_ context.Context, vendorID, date string) ([]models.Reservation, error) {
	return reservationsOf(r.t.filter(func(e models.Event) bool {
		return activeOn(vendorID, date)(e.Reservation())
	})), nil
}

func (r *EventRepo) InsertTransactionally(_ context.Context, event *models.Event, recheck database.RecheckFunc) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	existing := reservationsOf(r.t.filterLocked(func(e models.Event) bool {
		return activeOn(event.VendorID, event.Window.Date)(e.Reservation())
	}))
	if err := recheck(existing); err != nil {
		return err
	}
	// same rule as the unique (name, eventDate) index of the Mongo store
	if len(r.t.filterLocked(func(e models.Event) bool {
		return e.Name == event.Name && e.Window.Date == event.Window.Date
	})) > 0 {
		return eventRepo.ErrDuplicate
	}
	r.t.put(event.ID, *event)
	return nil
}

func (r *EventRepo) GetByID(_ context.Context, vendorID, id string) (*models.Event, error) {
	e, ok := r.t.get(id)
	if !ok || e.VendorID != vendorID {
		return nil, database.ErrNotFound
	}
	return &e, nil
}

func (r *EventRepo) ListByVendor(_ context.Context, vendorID string) ([]models.Event, error) {
	return r.t.filter(func(e models.Event) bool { return e.VendorID == vendorID }), nil
}

func (r *EventRepo) SetActive(_ context.Context, vendorID, id string, active bool, recheck database.RecheckFunc) (*models.Event, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	e, ok := r.t.rows[id]
	if !ok || e.VendorID != vendorID {
		return nil, database.ErrNotFound
	}
	if active && !e.IsActive && recheck != nil {
		existing := reservationsOf(r.t.filterLocked(func(o models.Event) bool {
			return activeOn(vendorID, e.Window.Date)(o.Reservation())
		}))
		if err := recheck(existing); err != nil {
			return nil, err
		}
	}
	e.IsActive = active
	e.UpdatedAt = time.Now()
	r.t.put(id, e)
	return &e, nil
}

func (r *EventRepo) ExistsByNameAndDate(_ context.Context, name, eventDate, excludeID string) (bool, error) {
	return r.t.exists(func(e models.Event) bool {
		return e.Name == name && e.Window.Date == eventDate && e.ID != excludeID
	}), nil
}

func (r *EventRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	return r.t.exists(func(e models.Event) bool { return e.Slug == slug }), nil
}

func (r *EventRepo) EnsureIndexes() error { return nil }

type reservable interface {
	Reservation() models.Reservation
}

func reservationsOf[T reservable](rows []T) []models.Reservation {
	out := make([]models.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Reservation())
	}
	return out
}
