package availability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/models"
)

func TestValidateWindow(t *testing.T) {
	day := "2024-06-01"
	cases := []struct {
		name   string
		window models.TimeWindow
		rules  Rules
		want   error
		field  string
	}{
		{
			name:   "valid booking",
			window: window(day, "09:00", "10:00"),
			rules:  Rules{Policy: BoundedGuestCount{Min: 1, Max: 5}, Quantity: 3},
		},
		{
			name:   "start equals end",
			window: models.TimeWindow{Date: day, Start: 540, End: 540},
			want:   ErrInvalidTimeRange,
			field:  "endTime",
		},
		{
			name:   "start after end",
			window: window(day, "11:00", "10:00"),
			want:   ErrInvalidTimeRange,
			field:  "endTime",
		},
		{
			name:   "past midnight",
			window: models.TimeWindow{Date: day, Start: 1400, End: 1500},
			want:   ErrInvalidTimeRange,
			field:  "startTime",
		},
		{
			name:   "event ends before it starts",
			window: window(day, "09:00", "10:00"),
			rules:  Rules{Policy: FixedTotalCapacity{TotalCapacity: 100}, Quantity: 100, EndDate: "2024-05-31"},
			want:   ErrInvalidDateRange,
			field:  "endDate",
		},
		{
			name:   "event end date malformed",
			window: window(day, "09:00", "10:00"),
			rules:  Rules{Policy: FixedTotalCapacity{TotalCapacity: 100}, Quantity: 100, EndDate: "31/05/2024"},
			want:   ErrInvalidDateRange,
			field:  "endDate",
		},
		{
			name:   "multi-day event",
			window: window(day, "09:00", "10:00"),
			rules:  Rules{Policy: FixedTotalCapacity{TotalCapacity: 100}, Quantity: 100, EndDate: "2024-06-03"},
		},
		{
			name:   "tickets exceed capacity",
			window: window(day, "09:00", "10:00"),
			rules:  Rules{Policy: FixedTotalCapacity{TotalCapacity: 100}, Quantity: 150},
			want:   ErrQuantityOutOfBounds,
			field:  "availableTickets",
		},
		{
			name:   "negative tickets",
			window: window(day, "09:00", "10:00"),
			rules:  Rules{Policy: FixedTotalCapacity{TotalCapacity: 100}, Quantity: -1},
			want:   ErrQuantityOutOfBounds,
			field:  "availableTickets",
		},
		{
			name:   "date range checked before capacity",
			window: window(day, "09:00", "10:00"),
			rules:  Rules{Policy: FixedTotalCapacity{TotalCapacity: 100}, Quantity: 150, EndDate: "2024-05-01"},
			want:   ErrInvalidDateRange,
			field:  "endDate",
		},
		{
			name:   "time range checked before date range",
			window: window(day, "10:00", "09:00"),
			rules:  Rules{Policy: FixedTotalCapacity{TotalCapacity: 100}, Quantity: 150, EndDate: "2024-05-01"},
			want:   ErrInvalidTimeRange,
			field:  "endTime",
		},
		{
			name:   "non-canonical booking date",
			window: models.TimeWindow{Date: "2024-6-1", Start: 540, End: 600},
			rules:  Rules{Policy: BoundedGuestCount{Min: 1, Max: 5}, Quantity: 2},
			want:   ErrInvalidTimeRange,
			field:  "date",
		},
		{
			name:   "empty date without policy",
			window: models.TimeWindow{Start: 540, End: 600},
			want:   ErrInvalidTimeRange,
			field:  "date",
		},
		{
			name:   "non-canonical event date",
			window: models.TimeWindow{Date: "01/06/2024", Start: 540, End: 600},
			rules:  Rules{Policy: FixedTotalCapacity{TotalCapacity: 100}, Quantity: 10},
			want:   ErrInvalidDateRange,
			field:  "eventDate",
		},
		{
			name:   "date checked before time range",
			window: models.TimeWindow{Date: "2024-6-1", Start: 600, End: 540},
			want:   ErrInvalidTimeRange,
			field:  "date",
		},
		{
			name:   "booking variant ignores end date",
			window: window(day, "09:00", "10:00"),
			rules:  Rules{Policy: BoundedGuestCount{Min: 1, Max: 5}, Quantity: 2, EndDate: "2024-05-01"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWindow(tc.window, tc.rules)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestCapacityRejectedRegardlessOfWindow(t *testing.T) {
	// total_capacity=100 with available_tickets=150 fails at creation
	err := ValidateWindow(window("2024-06-01", "18:00", "22:00"), Rules{
		Policy:   FixedTotalCapacity{TotalCapacity: 100},
		Quantity: 150,
		EndDate:  "2024-06-01",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuantityOutOfBounds))
}

func TestValidationErrorKindsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrInvalidTimeRange, ErrInvalidDateRange))
	assert.False(t, errors.Is(ErrQuantityOutOfBounds, ErrInvalidTimeRange))
	assert.True(t, errors.Is(newValidationError(KindInvalidDateRange, "endDate", "x"), ErrInvalidDateRange))
}
