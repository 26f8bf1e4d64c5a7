package availability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"marketplace/models"
)

type checkTestSuite struct {
	suite.Suite

	existing []models.Reservation
}

func TestCheckSuite(t *testing.T) {
	suite.Run(t, new(checkTestSuite))
}

func (s *checkTestSuite) SetupTest() {
	s.existing = []models.Reservation{
		{ID: "b1", ResourceID: "R1", Window: window("2024-06-01", "14:00", "16:00"), IsActive: true, Quantity: 4},
	}
}

func (s *checkTestSuite) TestBookingAvailability() {
	bounds := BoundedGuestCount{Min: 2, Max: 10}
	testCases := []struct {
		name      string
		candidate models.TimeWindow
		guests    int
		available bool
	}{
		{name: "overlaps the afternoon booking", candidate: window("2024-06-01", "15:00", "17:00"), guests: 3, available: false},
		{name: "starts when the booking ends", candidate: window("2024-06-01", "16:00", "18:00"), guests: 3, available: true},
		{name: "ends when the booking starts", candidate: window("2024-06-01", "12:00", "14:00"), guests: 3, available: true},
		{name: "inside the booking", candidate: window("2024-06-01", "14:30", "15:00"), guests: 3, available: false},
		{name: "other day", candidate: window("2024-06-02", "14:00", "16:00"), guests: 3, available: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			res, err := CheckBookingAvailability("R1", tc.candidate, tc.guests, bounds, s.existing)
			s.Require().NoError(err)
			s.Equal(tc.available, res.Available)
			if !tc.available {
				s.True(res.IsConflict())
				s.Equal(SlotConflict, res.Reason)
				s.Require().Len(res.Conflicts, 1)
				s.Equal("b1", res.Conflicts[0].ID)
			}
		})
	}
}

func (s *checkTestSuite) TestInactiveReservationsDoNotBlock() {
	s.existing[0].IsActive = false

	res, err := CheckBookingAvailability("R1", window("2024-06-01", "15:00", "17:00"), 3, BoundedGuestCount{Min: 2, Max: 10}, s.existing)
	s.Require().NoError(err)
	s.True(res.Available)

	res, err = CheckEventAvailability("R1", window("2024-06-01", "15:00", "17:00"), s.existing)
	s.Require().NoError(err)
	s.True(res.Available)
}

func (s *checkTestSuite) TestOtherResourcesDoNotBlock() {
	res, err := CheckEventAvailability("R2", window("2024-06-01", "15:00", "17:00"), s.existing)
	s.Require().NoError(err)
	s.True(res.Available)
}

func (s *checkTestSuite) TestEventAvailabilityIgnoresQuantity() {
	res, err := CheckEventAvailability("R1", window("2024-06-01", "15:30", "16:30"), s.existing)
	s.Require().NoError(err)
	s.False(res.Available)
	s.True(res.IsConflict())
}

func (s *checkTestSuite) TestGuestBoundsRejectedBeforeOverlap() {
	testCases := []struct {
		name   string
		guests int
		bounds BoundedGuestCount
	}{
		{name: "below minimum", guests: 1, bounds: BoundedGuestCount{Min: 2, Max: 10}},
		{name: "above maximum", guests: 11, bounds: BoundedGuestCount{Min: 2, Max: 10}},
		{name: "inverted bounds", guests: 5, bounds: BoundedGuestCount{Min: 10, Max: 2}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			res, err := CheckBookingAvailability("R1", window("2024-06-01", "15:00", "17:00"), tc.guests, tc.bounds, s.existing)
			s.Require().Error(err)
			s.True(errors.Is(err, ErrQuantityOutOfBounds))
			s.False(res.IsConflict())
		})
	}
}

func (s *checkTestSuite) TestInvalidTimeRangeWinsOverQuantity() {
	bad := models.TimeWindow{Date: "2024-06-01", Start: 600, End: 600}
	_, err := CheckBookingAvailability("R1", bad, 99, BoundedGuestCount{Min: 2, Max: 10}, s.existing)
	s.Require().Error(err)
	s.True(errors.Is(err, ErrInvalidTimeRange))
	s.False(errors.Is(err, ErrQuantityOutOfBounds))
}

func (s *checkTestSuite) TestIdempotent() {
	candidate := window("2024-06-01", "15:00", "17:00")
	bounds := BoundedGuestCount{Min: 2, Max: 10}

	first, err := CheckBookingAvailability("R1", candidate, 3, bounds, s.existing)
	s.Require().NoError(err)
	second, err := CheckBookingAvailability("R1", candidate, 3, bounds, s.existing)
	s.Require().NoError(err)
	s.Equal(first, second)
}
