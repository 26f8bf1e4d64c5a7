package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketplace/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisGuardSerializesSameKey(t *testing.T) {
	mr, client := newTestRedis(t)
	g := NewRedisGuard(client, time.Second, 3*time.Second, zap.NewNop())
	key := AdmissionKey(models.ItemPartyBooking, "R1", "2024-06-01")

	var mu sync.Mutex
	inside, maxInside := 0, 0
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			release, err := g.Acquire(context.Background(), key)
			if err != nil {
				errs[i] = err
				return
			}
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, maxInside)
	assert.False(t, mr.Exists(key))
}

func TestRedisGuardSetsLockTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	g := NewRedisGuard(client, 500*time.Millisecond, time.Second, zap.NewNop())

	release, err := g.Acquire(context.Background(), "admission:event:R1:2024-06-01")
	require.NoError(t, err)
	defer release()

	assert.True(t, mr.Exists("admission:event:R1:2024-06-01"))
	assert.Equal(t, 500*time.Millisecond, mr.TTL("admission:event:R1:2024-06-01"))
}

func TestRedisGuardBusyAfterWait(t *testing.T) {
	_, client := newTestRedis(t)
	g := NewRedisGuard(client, time.Second, 60*time.Millisecond, zap.NewNop())
	key := "admission:partybooking:R1:2024-06-01"

	release, err := g.Acquire(context.Background(), key)
	require.NoError(t, err)

	start := time.Now()
	_, err = g.Acquire(context.Background(), key)
	assert.ErrorIs(t, err, ErrGuardBusy)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	release()
	again, err := g.Acquire(context.Background(), key)
	require.NoError(t, err)
	again()
}

func TestRedisGuardStaleReleaseKeepsNewHolder(t *testing.T) {
	mr, client := newTestRedis(t)
	g := NewRedisGuard(client, 100*time.Millisecond, time.Second, zap.NewNop())
	key := "admission:partybooking:R1:2024-06-01"

	releaseOld, err := g.Acquire(context.Background(), key)
	require.NoError(t, err)

	mr.FastForward(200 * time.Millisecond)
	require.False(t, mr.Exists(key))

	releaseNew, err := g.Acquire(context.Background(), key)
	require.NoError(t, err)
	holder, err := mr.Get(key)
	require.NoError(t, err)

	releaseOld()
	current, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, holder, current)

	releaseNew()
	assert.False(t, mr.Exists(key))
}

func testSchedule() *models.DaySchedule {
	return &models.DaySchedule{
		ResourceID: "R1",
		ItemType:   models.ItemPartyBooking,
		Date:       "2024-06-01",
		Booked:     []models.TimeWindow{{Date: "2024-06-01", Start: 540, End: 660}},
		Free: []models.TimeWindow{
			{Date: "2024-06-01", Start: 0, End: 540},
			{Date: "2024-06-01", Start: 660, End: models.MinutesPerDay},
		},
	}
}

func TestRedisScheduleCacheGetSetInvalidate(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisScheduleCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	key := ScheduleKey(models.ItemPartyBooking, "R1", "2024-06-01")

	_, gen, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.Equal(t, int64(0), gen)

	c.Set(ctx, key, gen, testSchedule())
	got, gen, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, int64(0), gen)
	assert.Equal(t, testSchedule(), got)
	assert.Equal(t, time.Minute, mr.TTL(key))

	c.Invalidate(ctx, key)
	assert.False(t, mr.Exists(key))
	assert.Equal(t, 2*time.Minute, mr.TTL(generationKey(key)))
	_, gen, ok = c.Get(ctx, key)
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)
}

func TestRedisScheduleCacheIgnoresEntryFromOlderGeneration(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisScheduleCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	key := ScheduleKey(models.ItemEvent, "R1", "2024-06-01")

	_, readGen, _ := c.Get(ctx, key)
	c.Invalidate(ctx, key)
	c.Set(ctx, key, readGen, testSchedule())

	_, gen, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)

	c.Set(ctx, key, gen, testSchedule())
	_, _, ok = c.Get(ctx, key)
	assert.True(t, ok)
}

func TestRedisScheduleCacheEvictsCorruptEntries(t *testing.T) {
	mr, client := newTestRedis(t)
	c := NewRedisScheduleCache(client, time.Minute, zap.NewNop())
	ctx := context.Background()
	key := ScheduleKey(models.ItemPartyBooking, "R1", "2024-06-01")

	require.NoError(t, mr.Set(key, "{not json"))
	_, _, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.False(t, mr.Exists(key))

	require.NoError(t, mr.Set(generationKey(key), "seven"))
	_, gen, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.Equal(t, int64(0), gen)
	assert.False(t, mr.Exists(generationKey(key)))
}
