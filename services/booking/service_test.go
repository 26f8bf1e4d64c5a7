package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"marketplace/database"
	memoryRepo "marketplace/database/repository/memory"
	"marketplace/models"
	"marketplace/services/availability"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type mapCache struct {
	mu          sync.Mutex
	entries     map[string]cachedSchedule
	generations map[string]int64
	hits        int
	beforeSet   func()
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]cachedSchedule), generations: make(map[string]int64)}
}

func (c *mapCache) Get(_ context.Context, key string) (*models.DaySchedule, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.generations[key]
	e, ok := c.entries[key]
	if !ok || e.Generation != gen {
		return nil, gen, false
	}
	c.hits++
	return &e.Schedule, gen, true
}

func (c *mapCache) Set(_ context.Context, key string, gen int64, s *models.DaySchedule) {
	if c.beforeSet != nil {
		hook := c.beforeSet
		c.beforeSet = nil
		hook()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedSchedule{Generation: gen, Schedule: *s}
}

func (c *mapCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[key]++
	delete(c.entries, key)
}

type scheduled struct {
	payload models.DeactivatePayload
	at      time.Time
}

type recordingScheduler struct {
	mu    sync.Mutex
	tasks []scheduled
}

func (r *recordingScheduler) ScheduleDeactivation(_ context.Context, p models.DeactivatePayload, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, scheduled{payload: p, at: at})
	return nil
}

type bookingServiceSuite struct {
	suite.Suite

	ctx       context.Context
	vendors   *memoryRepo.VendorRepo
	bookings  *memoryRepo.PartyBookingRepo
	events    *memoryRepo.EventRepo
	cache     *mapCache
	scheduler *recordingScheduler
	svc       *DefaultBookingService
}

func TestBookingServiceSuite(t *testing.T) {
	suite.Run(t, new(bookingServiceSuite))
}

func (s *bookingServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.vendors = memoryRepo.NewVendorRepo()
	s.bookings = memoryRepo.NewPartyBookingRepo()
	s.events = memoryRepo.NewEventRepo()
	s.cache = newMapCache()
	s.scheduler = &recordingScheduler{}
	s.svc = NewBookingService(s.vendors, s.bookings, s.events, NewLocalGuard(), s.cache, s.scheduler, zap.NewNop(), time.UTC)

	s.Require().NoError(s.vendors.Create(s.ctx, &models.Vendor{
		ID:                  "R1",
		UserID:              "u1",
		BusinessName:        "Acme Hall",
		EventEnabled:        true,
		GiftCardEnabled:     true,
		PartyBookingEnabled: true,
	}))
	s.Require().NoError(s.vendors.Create(s.ctx, &models.Vendor{ID: "R2", UserID: "u2", BusinessName: "Quiet Co"}))
}

func intPtr(n int) *int { return &n }

func partyRequest(name, date, start, end string, guests int) models.PartyBookingRequest {
	return models.PartyBookingRequest{
		ItemFields:  models.ItemFields{Name: name},
		CustomerID:  "c1",
		BookingDate: date,
		StartTime:   start,
		EndTime:     end,
		MinGuests:   intPtr(2),
		MaxGuests:   10,
		GuestsCount: guests,
	}
}

func eventRequest(name, date, start, end string, capacity int) models.EventRequest {
	return models.EventRequest{
		ItemFields:    models.ItemFields{Name: name},
		EventDate:     date,
		StartTime:     start,
		EndTime:       end,
		TotalCapacity: capacity,
	}
}

func (s *bookingServiceSuite) TestPartyBookingAdmission() {
	first, err := s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Birthday", "2024-06-01", "14:00", "16:00", 4))
	s.Require().NoError(err)
	s.Require().True(first.Admitted())
	s.Equal("birthday", first.Item.Slug)
	s.Equal(models.TimeWindow{Date: "2024-06-01", Start: 840, End: 960}, first.Item.Window)
	s.True(first.Item.IsActive)

	refused, err := s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Birthday", "2024-06-01", "15:00", "17:00", 3))
	s.Require().NoError(err)
	s.False(refused.Admitted())
	s.Equal(availability.SlotConflict, refused.Reason)
	s.Require().Len(refused.Conflicts, 1)
	s.Equal(first.Item.ID, refused.Conflicts[0].ID)
	s.Equal([]models.TimeWindow{
		{Date: "2024-06-01", Start: 0, End: 840},
		{Date: "2024-06-01", Start: 960, End: models.MinutesPerDay},
	}, refused.Free)

	abutting, err := s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Birthday", "2024-06-01", "16:00", "18:00", 3))
	s.Require().NoError(err)
	s.Require().True(abutting.Admitted())
	s.Equal("birthday-1", abutting.Item.Slug)
}

func (s *bookingServiceSuite) TestPartyBookingValidation() {
	req := partyRequest("Too small", "2024-06-01", "10:00", "12:00", 1)
	_, err := s.svc.CreatePartyBooking(s.ctx, "R1", req)
	s.True(errors.Is(err, availability.ErrQuantityOutOfBounds))

	req = partyRequest("Default minimum", "2024-06-01", "10:00", "12:00", 0)
	req.MinGuests = nil
	_, err = s.svc.CreatePartyBooking(s.ctx, "R1", req)
	s.True(errors.Is(err, availability.ErrQuantityOutOfBounds), "min guests defaults to one")

	req = partyRequest("Backwards", "2024-06-01", "12:00", "10:00", 4)
	_, err = s.svc.CreatePartyBooking(s.ctx, "R1", req)
	s.True(errors.Is(err, availability.ErrInvalidTimeRange))

	req = partyRequest("Bad date", "01/06/2024", "10:00", "12:00", 4)
	_, err = s.svc.CreatePartyBooking(s.ctx, "R1", req)
	s.True(errors.Is(err, ErrMalformedRequest))

	list, err := s.svc.ListPartyBookings(s.ctx, "R1")
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *bookingServiceSuite) TestVendorGate() {
	_, err := s.svc.CreatePartyBooking(s.ctx, "R2", partyRequest("Party", "2024-06-01", "10:00", "12:00", 4))
	s.ErrorIs(err, ErrFeatureDisabled)

	_, err = s.svc.CreateEvent(s.ctx, "R2", eventRequest("Gala", "2024-06-01", "18:00", "22:00", 100))
	s.ErrorIs(err, ErrFeatureDisabled)

	_, err = s.svc.CreatePartyBooking(s.ctx, "nope", partyRequest("Party", "2024-06-01", "10:00", "12:00", 4))
	s.ErrorIs(err, ErrVendorNotFound)
}

func (s *bookingServiceSuite) TestConcurrentAdmissionAdmitsOne() {
	const contenders = 20
	var wg sync.WaitGroup
	outcomes := make([]*Outcome[models.PartyBooking], contenders)
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = s.svc.CreatePartyBooking(s.ctx, "R1",
				partyRequest(fmt.Sprintf("Party %d", i), "2024-06-01", "14:00", "16:00", 4))
		}(i)
	}
	wg.Wait()

	admitted := 0
	for i := range outcomes {
		s.Require().NoError(errs[i])
		if outcomes[i].Admitted() {
			admitted++
		} else {
			s.Len(outcomes[i].Conflicts, 1)
		}
	}
	s.Equal(1, admitted)

	active, err := s.bookings.FetchActive(s.ctx, "R1", "2024-06-01")
	s.Require().NoError(err)
	s.Len(active, 1)
}

// racingBookings inserts a rival booking just before the real insert, as another replica would.
type racingBookings struct {
	*memoryRepo.PartyBookingRepo
	rival *models.PartyBooking
}

func (r *racingBookings) InsertTransactionally(ctx context.Context, b *models.PartyBooking, recheck database.RecheckFunc) error {
	if r.rival != nil {
		rival := r.rival
		r.rival = nil
		if err := r.PartyBookingRepo.InsertTransactionally(ctx, rival, func([]models.Reservation) error { return nil }); err != nil {
			return err
		}
	}
	return r.PartyBookingRepo.InsertTransactionally(ctx, b, recheck)
}

func (s *bookingServiceSuite) TestCommitRecheckCatchesLateConflict() {
	rival := &models.PartyBooking{
		Item:        models.Item{ID: "rival", VendorID: "R1", Slug: "rival", IsActive: true},
		Window:      models.TimeWindow{Date: "2024-06-01", Start: 900, End: 1020},
		GuestsCount: 4,
	}
	repo := &racingBookings{PartyBookingRepo: s.bookings, rival: rival}
	svc := NewBookingService(s.vendors, repo, s.events, NewLocalGuard(), s.cache, s.scheduler, zap.NewNop(), time.UTC)

	out, err := svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Late", "2024-06-01", "14:00", "16:00", 4))
	s.Require().NoError(err)
	s.False(out.Admitted())
	s.Require().Len(out.Conflicts, 1)
	s.Equal("rival", out.Conflicts[0].ID)
}

func (s *bookingServiceSuite) TestEventCreation() {
	_, err := s.svc.CreateEvent(s.ctx, "R1", models.EventRequest{
		ItemFields:       models.ItemFields{Name: "Oversold"},
		EventDate:        "2024-06-01",
		StartTime:        "18:00",
		EndTime:          "22:00",
		TotalCapacity:    100,
		AvailableTickets: intPtr(150),
	})
	s.True(errors.Is(err, availability.ErrQuantityOutOfBounds))

	req := eventRequest("Summer Gala", "2024-06-01", "18:00", "22:00", 100)
	req.EndDate = "2024-06-02"
	out, err := s.svc.CreateEvent(s.ctx, "R1", req)
	s.Require().NoError(err)
	s.Require().True(out.Admitted())
	s.Equal("acme-hall-summer-gala", out.Item.Slug)
	s.Equal(100, out.Item.AvailableTickets)
	s.Equal("2024-06-02", out.Item.EndDate)

	s.Require().Len(s.scheduler.tasks, 1)
	s.Equal(models.DeactivatePayload{ItemType: models.ItemEvent, VendorID: "R1", ItemID: out.Item.ID}, s.scheduler.tasks[0].payload)
	s.Equal(time.Date(2024, 6, 2, 22, 0, 0, 0, time.UTC), s.scheduler.tasks[0].at)

	_, err = s.svc.CreateEvent(s.ctx, "R1", eventRequest("Summer Gala", "2024-06-01", "08:00", "09:00", 10))
	s.ErrorIs(err, ErrDuplicateEvent)

	overlapping, err := s.svc.CreateEvent(s.ctx, "R1", eventRequest("Late Show", "2024-06-01", "21:00", "23:00", 50))
	s.Require().NoError(err)
	s.False(overlapping.Admitted())

	again, err := s.svc.CreateEvent(s.ctx, "R1", eventRequest("Summer Gala", "2024-06-08", "18:00", "22:00", 100))
	s.Require().NoError(err)
	s.Require().True(again.Admitted())
	s.Regexp(`^acme-hall-summer-gala-[0-9a-f]{4}$`, again.Item.Slug)
}

// lockstepEvents lets every caller pass the duplicate pre-check before any of them inserts.
type lockstepEvents struct {
	*memoryRepo.EventRepo
	checked sync.WaitGroup
}

func (r *lockstepEvents) ExistsByNameAndDate(context.Context, string, string, string) (bool, error) {
	r.checked.Done()
	r.checked.Wait()
	return false, nil
}

func (s *bookingServiceSuite) TestDuplicateEventAcrossVendorsStoredOnce() {
	s.Require().NoError(s.vendors.Create(s.ctx, &models.Vendor{
		ID: "R3", UserID: "u3", BusinessName: "Other Hall", EventEnabled: true,
	}))
	repo := &lockstepEvents{EventRepo: s.events}
	repo.checked.Add(2)
	svc := NewBookingService(s.vendors, s.bookings, repo, NewLocalGuard(), s.cache, s.scheduler, zap.NewNop(), time.UTC)

	vendors := []string{"R1", "R3"}
	outcomes := make([]*Outcome[models.Event], len(vendors))
	errs := make([]error, len(vendors))
	var wg sync.WaitGroup
	for i, vendorID := range vendors {
		wg.Add(1)
		go func(i int, vendorID string) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.CreateEvent(s.ctx, vendorID, eventRequest("Gala", "2024-06-01", "18:00", "20:00", 50))
		}(i, vendorID)
	}
	wg.Wait()

	admitted, duplicates := 0, 0
	for i := range vendors {
		switch {
		case errs[i] == nil:
			s.True(outcomes[i].Admitted())
			admitted++
		case errors.Is(errs[i], ErrDuplicateEvent):
			duplicates++
		default:
			s.Failf("unexpected error", "%v", errs[i])
		}
	}
	s.Equal(1, admitted)
	s.Equal(1, duplicates)

	exists, err := s.events.ExistsByNameAndDate(s.ctx, "Gala", "2024-06-01", "")
	s.Require().NoError(err)
	s.True(exists)
	stored := 0
	for _, vendorID := range vendors {
		list, err := s.events.ListByVendor(s.ctx, vendorID)
		s.Require().NoError(err)
		stored += len(list)
	}
	s.Equal(1, stored)
}

func (s *bookingServiceSuite) TestEventsAndBookingsDoNotBlockEachOther() {
	_, err := s.svc.CreateEvent(s.ctx, "R1", eventRequest("Gala", "2024-06-01", "14:00", "16:00", 10))
	s.Require().NoError(err)

	out, err := s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Party", "2024-06-01", "14:00", "16:00", 4))
	s.Require().NoError(err)
	s.True(out.Admitted())
}

func (s *bookingServiceSuite) TestReactivationIsReadmitted() {
	first, err := s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("First", "2024-06-01", "14:00", "16:00", 4))
	s.Require().NoError(err)

	off, err := s.svc.ToggleActive(s.ctx, models.ItemPartyBooking, "R1", first.Item.ID)
	s.Require().NoError(err)
	s.False(off.IsActive)

	second, err := s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Second", "2024-06-01", "15:00", "17:00", 4))
	s.Require().NoError(err)
	s.Require().True(second.Admitted())

	back, err := s.svc.ToggleActive(s.ctx, models.ItemPartyBooking, "R1", first.Item.ID)
	s.Require().NoError(err)
	s.False(back.IsActive)
	s.Require().Len(back.Conflicts, 1)
	s.Equal(second.Item.ID, back.Conflicts[0].ID)

	_, err = s.svc.SetActive(s.ctx, models.ItemPartyBooking, "R1", second.Item.ID, false)
	s.Require().NoError(err)
	back, err = s.svc.ToggleActive(s.ctx, models.ItemPartyBooking, "R1", first.Item.ID)
	s.Require().NoError(err)
	s.True(back.IsActive)
	s.Empty(back.Conflicts)
}

func (s *bookingServiceSuite) TestToggleErrors() {
	_, err := s.svc.ToggleActive(s.ctx, models.ItemEvent, "R1", "missing")
	s.ErrorIs(err, ErrListingNotFound)

	_, err = s.svc.ToggleActive(s.ctx, models.ItemGiftCard, "R1", "x")
	s.ErrorIs(err, ErrNotReservable)
}

func (s *bookingServiceSuite) TestAvailabilityQueries() {
	_, err := s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Party", "2024-06-01", "14:00", "16:00", 4))
	s.Require().NoError(err)

	res, err := s.svc.CheckPartyAvailability(s.ctx, "R1", models.PartyAvailabilityQuery{
		Date: "2024-06-01", StartTime: "15:00", EndTime: "17:00", GuestsCount: 3, MinGuests: intPtr(2), MaxGuests: 10,
	})
	s.Require().NoError(err)
	s.True(res.IsConflict())

	res, err = s.svc.CheckEventAvailability(s.ctx, "R1", models.EventAvailabilityQuery{
		Date: "2024-06-01", StartTime: "15:00", EndTime: "17:00",
	})
	s.Require().NoError(err)
	s.True(res.Available)

	_, err = s.svc.CheckEventAvailability(s.ctx, "R1", models.EventAvailabilityQuery{
		Date: "2024-06-01", StartTime: "3pm", EndTime: "17:00",
	})
	s.ErrorIs(err, ErrMalformedRequest)
}

func (s *bookingServiceSuite) TestDayScheduleIsCachedAndInvalidated() {
	_, err := s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Morning", "2024-06-01", "09:00", "11:00", 4))
	s.Require().NoError(err)

	first, err := s.svc.DaySchedule(s.ctx, models.ItemPartyBooking, "R1", "2024-06-01")
	s.Require().NoError(err)
	s.Len(first.Booked, 1)

	_, err = s.svc.DaySchedule(s.ctx, models.ItemPartyBooking, "R1", "2024-06-01")
	s.Require().NoError(err)
	s.Equal(1, s.cache.hits)

	_, err = s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Evening", "2024-06-01", "18:00", "20:00", 4))
	s.Require().NoError(err)

	fresh, err := s.svc.DaySchedule(s.ctx, models.ItemPartyBooking, "R1", "2024-06-01")
	s.Require().NoError(err)
	s.Len(fresh.Booked, 2)
	s.Equal(1, s.cache.hits)

	_, err = s.svc.DaySchedule(s.ctx, models.ItemGiftCard, "R1", "2024-06-01")
	s.ErrorIs(err, ErrNotReservable)
	_, err = s.svc.DaySchedule(s.ctx, models.ItemEvent, "R1", "June 1st")
	s.ErrorIs(err, ErrMalformedRequest)
}

func (s *bookingServiceSuite) TestScheduleComputedBeforeAdmissionIsNotServed() {
	_, err := s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Morning", "2024-06-01", "09:00", "11:00", 4))
	s.Require().NoError(err)

	// an admission lands after the schedule was read but before it is cached
	s.cache.beforeSet = func() {
		_, err := s.svc.CreatePartyBooking(s.ctx, "R1", partyRequest("Evening", "2024-06-01", "18:00", "20:00", 4))
		s.Require().NoError(err)
	}
	stale, err := s.svc.DaySchedule(s.ctx, models.ItemPartyBooking, "R1", "2024-06-01")
	s.Require().NoError(err)
	s.Len(stale.Booked, 1)

	fresh, err := s.svc.DaySchedule(s.ctx, models.ItemPartyBooking, "R1", "2024-06-01")
	s.Require().NoError(err)
	s.Len(fresh.Booked, 2)
	s.Equal(0, s.cache.hits)
}
