package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"marketplace/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ScheduleCache holds read-only day schedules. Admission never consults it.
//
// Every key has a generation that Invalidate bumps. Get reports the current generation and Set
// stamps the entry with the generation the caller read, so a schedule computed before an
// admission is never served after it.
type ScheduleCache interface {
	Get(ctx context.Context, key string) (schedule *models.DaySchedule, generation int64, ok bool)
	Set(ctx context.Context, key string, generation int64, schedule *models.DaySchedule)
	Invalidate(ctx context.Context, key string)
}

// ScheduleKey names the cached schedule of one item type, vendor and date.
func ScheduleKey(itemType models.ItemType, vendorID, date string) string {
	return fmt.Sprintf("schedule:%s:%s:%s", itemType, vendorID, date)
}

func generationKey(key string) string {
	return key + ":gen"
}

type cachedSchedule struct {
	Generation int64              `json:"generation"`
	Schedule   models.DaySchedule `json:"schedule"`
}

// RedisScheduleCache stores schedules as JSON with a TTL. Failures are logged and treated as misses.
type RedisScheduleCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisScheduleCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisScheduleCache {
	return &RedisScheduleCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisScheduleCache) Get(ctx context.Context, key string) (*models.DaySchedule, int64, bool) {
	vals, err := c.client.MGet(ctx, key, generationKey(key)).Result()
	if err != nil {
		c.logger.Warn("schedule cache read failed", zap.String("key", key), zap.Error(err))
		return nil, 0, false
	}

	var gen int64
	if raw, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(raw, 10, 64); err != nil {
			c.logger.Warn("dropping corrupt schedule generation", zap.String("key", key), zap.Error(err))
			if err := c.client.Del(ctx, key, generationKey(key)).Err(); err != nil {
				c.logger.Warn("schedule cache eviction failed", zap.String("key", key), zap.Error(err))
			}
			return nil, 0, false
		}
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false
	}
	var entry cachedSchedule
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Warn("dropping corrupt schedule cache entry", zap.String("key", key), zap.Error(err))
		if err := c.client.Del(ctx, key).Err(); err != nil {
			c.logger.Warn("schedule cache eviction failed", zap.String("key", key), zap.Error(err))
		}
		return nil, gen, false
	}
	if entry.Generation != gen {
		return nil, gen, false
	}
	return &entry.Schedule, gen, true
}

func (c *RedisScheduleCache) Set(ctx context.Context, key string, generation int64, schedule *models.DaySchedule) {
	raw, err := json.Marshal(cachedSchedule{Generation: generation, Schedule: *schedule})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("schedule cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate bumps the generation and drops the entry. The generation outlives any entry
// stamped before it.
func (c *RedisScheduleCache) Invalidate(ctx context.Context, key string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(key))
		if c.ttl > 0 {
			pipe.Expire(ctx, generationKey(key), 2*c.ttl)
		}
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		c.logger.Warn("schedule cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

// NoopScheduleCache never stores anything.
type NoopScheduleCache struct{}

func (NoopScheduleCache) Get(context.Context, string) (*models.DaySchedule, int64, bool) {
	return nil, 0, false
}
func (NoopScheduleCache) Set(context.Context, string, int64, *models.DaySchedule) {}
func (NoopScheduleCache) Invalidate(context.Context, string)                      {}
