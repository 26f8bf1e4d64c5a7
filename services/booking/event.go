package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/database"
	eventRepo "marketplace/database/repository/event"
	"marketplace/models"
	"marketplace/services/availability"
	"marketplace/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// eventRules resolves the capacity rules of a request. Available tickets default to the total
// capacity and the end date defaults to the event date.
func eventRules(req models.EventRequest) (available int, endDate string, rules availability.Rules) {
	available = req.TotalCapacity
	if req.AvailableTickets != nil {
		available = *req.AvailableTickets
	}
	endDate = req.EndDate
	if endDate == "" {
		endDate = req.EventDate
	}
	rules = availability.Rules{
		Policy:   availability.FixedTotalCapacity{TotalCapacity: req.TotalCapacity},
		Quantity: available,
		EndDate:  endDate,
	}
	return available, endDate, rules
}

func (s *DefaultBookingService) CreateEvent(ctx context.Context, vendorID string, req models.EventRequest) (*Outcome[models.Event], error) {
	vendor, err := s.vendorFor(ctx, vendorID, models.ItemEvent)
	if err != nil {
		return nil, err
	}

	window, err := models.NewTimeWindow(req.EventDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, malformed(err)
	}
	available, endDate, rules := eventRules(req)
	if err := availability.ValidateWindow(window, rules); err != nil {
		return nil, err
	}

	name := req.ItemFields.ToItem(vendorID).Name
	dup, err := s.Events.ExistsByNameAndDate(ctx, name, window.Date, "")
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateEvent
	}

	release, err := s.Guard.Acquire(ctx, AdmissionKey(models.ItemEvent, vendorID, window.Date))
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := s.eventEngine.CheckEvent(ctx, vendorID, window)
	if err != nil {
		return nil, err
	}
	if !res.Available {
		s.Logger.Info("event refused",
			zap.String("vendorId", vendorID),
			zap.String("window", window.String()),
			zap.Int("conflicts", len(res.Conflicts)))
		return refuse[models.Event](ctx, s.eventEngine, vendorID, window.Date, res.Conflicts)
	}

	base := utils.Slugify(vendor.BusinessName) + "-" + utils.Slugify(name)
	slug, err := utils.UniqueRandomSlug(ctx, base, s.Events.SlugExists)
	if err != nil {
		return nil, fmt.Errorf("generate slug: %w", err)
	}

	now := s.now()
	e := models.Event{
		Item:               req.ItemFields.ToItem(vendorID),
		Window:             window,
		EndDate:            endDate,
		TotalCapacity:      req.TotalCapacity,
		AvailableTickets:   available,
		PricePerTicket:     req.PricePerTicket,
		TermsAndConditions: req.TermsAndConditions,
	}
	e.ID = uuid.NewString()
	e.Slug = slug
	e.CreatedAt, e.UpdatedAt = now, now

	var lost []models.Reservation
	err = s.Events.InsertTransactionally(ctx, &e, admissionRecheck(vendorID, window, &lost))
	switch {
	case errors.Is(err, database.ErrSlotTaken):
		s.Logger.Warn("event lost the slot at commit", zap.String("vendorId", vendorID), zap.String("window", window.String()))
		return refuse[models.Event](ctx, s.eventEngine, vendorID, window.Date, lost)
	case errors.Is(err, eventRepo.ErrDuplicate):
		return nil, ErrDuplicateEvent
	case errors.Is(err, database.ErrContended):
		return nil, ErrGuardBusy
	case err != nil:
		return nil, fmt.Errorf("store event: %w", err)
	}

	s.invalidate(ctx, models.ItemEvent, vendorID, window.Date)
	s.scheduleEventEnd(ctx, e)
	s.Logger.Info("event admitted",
		zap.String("vendorId", vendorID),
		zap.String("eventId", e.ID),
		zap.String("window", window.String()),
		zap.String("endDate", endDate))
	return &Outcome[models.Event]{Item: &e}, nil
}

// EventEndsAt is the instant an event closes: its end date at its end time.
func EventEndsAt(e models.Event, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(models.DateLayout, e.EndDate, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(e.Window.End) * time.Minute), nil
}

// scheduleEventEnd queues the deactivation of e. A failure leaves the event active and is logged.
func (s *DefaultBookingService) scheduleEventEnd(ctx context.Context, e models.Event) {
	if s.Tasks == nil {
		return
	}
	at, err := EventEndsAt(e, s.Location)
	if err != nil {
		s.Logger.Error("cannot compute event end", zap.String("eventId", e.ID), zap.Error(err))
		return
	}
	payload := models.DeactivatePayload{ItemType: models.ItemEvent, VendorID: e.VendorID, ItemID: e.ID}
	if err := s.Tasks.ScheduleDeactivation(ctx, payload, at); err != nil {
		s.Logger.Error("failed to schedule event deactivation", zap.String("eventId", e.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) ListEvents(ctx context.Context, vendorID string) ([]models.Event, error) {
	return s.Events.ListByVendor(ctx, vendorID)
}
