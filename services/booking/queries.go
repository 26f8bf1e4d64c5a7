package booking

import (
	"context"

	"marketplace/models"
	"marketplace/services/availability"
)

// CheckPartyAvailability reports whether a party booking would be admitted right now. It takes no lock.
func (s *DefaultBookingService) CheckPartyAvailability(ctx context.Context, vendorID string, q models.PartyAvailabilityQuery) (*availability.Result, error) {
	window, err := models.NewTimeWindow(q.Date, q.StartTime, q.EndTime)
	if err != nil {
		return nil, malformed(err)
	}
	bounds, _ := partyRules(q.MinGuests, q.MaxGuests, q.GuestsCount)
	res, err := s.bookingEngine.CheckBooking(ctx, vendorID, window, q.GuestsCount, bounds)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CheckEventAvailability reports whether an event window is free. Ticket capacity is not considered.
func (s *DefaultBookingService) CheckEventAvailability(ctx context.Context, vendorID string, q models.EventAvailabilityQuery) (*availability.Result, error) {
	window, err := models.NewTimeWindow(q.Date, q.StartTime, q.EndTime)
	if err != nil {
		return nil, malformed(err)
	}
	res, err := s.eventEngine.CheckEvent(ctx, vendorID, window)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DaySchedule returns the booked and free windows of a vendor's day, served from cache when fresh.
func (s *DefaultBookingService) DaySchedule(ctx context.Context, itemType models.ItemType, vendorID, date string) (*models.DaySchedule, error) {
	engine, err := s.engineFor(itemType)
	if err != nil {
		return nil, err
	}
	if _, err := models.ParseDate(date); err != nil {
		return nil, malformed(err)
	}

	key := ScheduleKey(itemType, vendorID, date)
	cached, generation, ok := s.Cache.Get(ctx, key)
	if ok {
		return cached, nil
	}

	booked, free, err := engine.Schedule(ctx, vendorID, date)
	if err != nil {
		return nil, err
	}
	schedule := &models.DaySchedule{
		ResourceID: vendorID,
		ItemType:   itemType,
		Date:       date,
		Booked:     booked,
		Free:       free,
	}
	s.Cache.Set(ctx, key, generation, schedule)
	return schedule, nil
}
