package booking

import (
	"context"
	"errors"
	"time"

	"marketplace/database"
	bookingRepo "marketplace/database/repository/booking"
	eventRepo "marketplace/database/repository/event"
	vendorRepo "marketplace/database/repository/vendor"
	"marketplace/models"
	"marketplace/services/availability"
	"marketplace/services/tasks"

	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Vendors  vendorRepo.VendorRepository
	Bookings bookingRepo.PartyBookingRepository
	Events   eventRepo.EventRepository
	Guard    AdmissionGuard
	Cache    ScheduleCache
	Tasks    tasks.Scheduler
	Logger   *zap.Logger
	Location *time.Location

	bookingEngine *availability.Engine
	eventEngine   *availability.Engine
	now           func() time.Time
}

// NewBookingService wires the engines over the two reservation stores.
func NewBookingService(
	vendors vendorRepo.VendorRepository,
	bookings bookingRepo.PartyBookingRepository,
	events eventRepo.EventRepository,
	guard AdmissionGuard,
	cache ScheduleCache,
	scheduler tasks.Scheduler,
	logger *zap.Logger,
	loc *time.Location,
) *DefaultBookingService {
	if cache == nil {
		cache = NoopScheduleCache{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &DefaultBookingService{
		Vendors:       vendors,
		Bookings:      bookings,
		Events:        events,
		Guard:         guard,
		Cache:         cache,
		Tasks:         scheduler,
		Logger:        logger,
		Location:      loc,
		bookingEngine: availability.NewEngine(bookings),
		eventEngine:   availability.NewEngine(events),
		now:           time.Now,
	}
}

func (s *DefaultBookingService) engineFor(itemType models.ItemType) (*availability.Engine, error) {
	switch itemType {
	case models.ItemPartyBooking:
		return s.bookingEngine, nil
	case models.ItemEvent:
		return s.eventEngine, nil
	}
	return nil, ErrNotReservable
}

// vendorFor loads the vendor and checks that its flags allow listings of itemType.
func (s *DefaultBookingService) vendorFor(ctx context.Context, vendorID string, itemType models.ItemType) (*models.Vendor, error) {
	v, err := s.Vendors.GetByID(ctx, vendorID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrVendorNotFound
	}
	if err != nil {
		return nil, err
	}
	if !v.Allows(itemType) {
		return nil, ErrFeatureDisabled
	}
	return v, nil
}

// admissionRecheck re-runs the overlap rule on the rows read inside the storage transaction.
// The conflicting rows are kept in lost so the caller can report them.
func admissionRecheck(vendorID string, candidate models.TimeWindow, lost *[]models.Reservation) database.RecheckFunc {
	return func(existing []models.Reservation) error {
		res, err := availability.CheckEventAvailability(vendorID, candidate, existing)
		if err != nil {
			return err
		}
		if !res.Available {
			*lost = res.Conflicts
			return database.ErrSlotTaken
		}
		return nil
	}
}

// refuse builds the conflict outcome, including the free windows left on that day.
func refuse[T any](ctx context.Context, engine *availability.Engine, vendorID string, day string, conflicts []models.Reservation) (*Outcome[T], error) {
	_, free, err := engine.Schedule(ctx, vendorID, day)
	if err != nil {
		return nil, err
	}
	return &Outcome[T]{Reason: availability.SlotConflict, Conflicts: conflicts, Free: free}, nil
}

func (s *DefaultBookingService) invalidate(ctx context.Context, itemType models.ItemType, vendorID, date string) {
	s.Cache.Invalidate(ctx, ScheduleKey(itemType, vendorID, date))
}
