package availability

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/models"
)

type stubReader struct {
	mu    sync.Mutex
	rows  []models.Reservation
	calls map[string]int
	err   error
}

func (r *stubReader) FetchActive(_ context.Context, resourceID, date string) ([]models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[date]++
	if r.err != nil {
		return nil, r.err
	}
	var out []models.Reservation
	for _, row := range r.rows {
		if row.ResourceID == resourceID && row.Window.Date == date {
			out = append(out, row)
		}
	}
	return out, nil
}

func newStubReader() *stubReader {
	return &stubReader{rows: []models.Reservation{
		{ID: "b1", ResourceID: "R1", Window: window("2024-06-01", "14:00", "16:00"), IsActive: true, Quantity: 4},
		// an untrusted store leaking a cancelled row
		{ID: "b2", ResourceID: "R1", Window: window("2024-06-01", "18:00", "20:00"), IsActive: false, Quantity: 4},
		{ID: "b3", ResourceID: "R1", Window: window("2024-06-02", "09:00", "12:00"), IsActive: true, Quantity: 6},
	}}
}

func TestEngineCheckBooking(t *testing.T) {
	engine := NewEngine(newStubReader())
	ctx := context.Background()
	bounds := BoundedGuestCount{Min: 2, Max: 10}

	res, err := engine.CheckBooking(ctx, "R1", window("2024-06-01", "15:00", "17:00"), 3, bounds)
	require.NoError(t, err)
	assert.False(t, res.Available)

	res, err = engine.CheckBooking(ctx, "R1", window("2024-06-01", "16:00", "18:00"), 3, bounds)
	require.NoError(t, err)
	assert.True(t, res.Available)

	res, err = engine.CheckBooking(ctx, "R1", window("2024-06-01", "18:30", "19:00"), 3, bounds)
	require.NoError(t, err)
	assert.True(t, res.Available, "inactive rows are filtered even if the store returns them")
}

func TestEngineSkipsStoreForInvalidCandidate(t *testing.T) {
	reader := newStubReader()
	engine := NewEngine(reader)

	_, err := engine.CheckEvent(context.Background(), "R1", models.TimeWindow{Date: "2024-06-01", Start: 600, End: 540})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTimeRange))
	assert.Empty(t, reader.calls)
}

func TestEngineWrapsStoreErrors(t *testing.T) {
	reader := newStubReader()
	reader.err = errors.New("connection reset")
	engine := NewEngine(reader)

	_, err := engine.CheckEvent(context.Background(), "R1", window("2024-06-01", "09:00", "10:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, reader.err)
	_, isValidation := AsValidationError(err)
	assert.False(t, isValidation)
}

func TestEngineCheckMany(t *testing.T) {
	reader := newStubReader()
	engine := NewEngine(reader)

	candidates := []models.TimeWindow{
		window("2024-06-01", "15:00", "17:00"),
		window("2024-06-01", "16:00", "18:00"),
		window("2024-06-02", "11:00", "13:00"),
		window("2024-06-02", "12:00", "13:00"),
	}
	results, err := engine.CheckMany(context.Background(), "R1", candidates, Rules{})
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.False(t, results[0].Available)
	assert.True(t, results[1].Available)
	assert.False(t, results[2].Available)
	assert.True(t, results[3].Available)

	assert.Equal(t, 1, reader.calls["2024-06-01"])
	assert.Equal(t, 1, reader.calls["2024-06-02"])
}

func TestEngineCheckManyRejectsInvalidCandidate(t *testing.T) {
	engine := NewEngine(newStubReader())
	_, err := engine.CheckMany(context.Background(), "R1", []models.TimeWindow{
		window("2024-06-01", "09:00", "10:00"),
		window("2024-06-01", "10:00", "10:00"),
	}, Rules{})
	assert.True(t, errors.Is(err, ErrInvalidTimeRange))
}

func TestEngineSchedule(t *testing.T) {
	engine := NewEngine(newStubReader())
	booked, free, err := engine.Schedule(context.Background(), "R1", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, []models.TimeWindow{window("2024-06-01", "14:00", "16:00")}, booked)
	assert.Len(t, free, 2)
}
