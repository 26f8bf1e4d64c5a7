package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"marketplace/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdmissionGuard serializes check-then-insert sequences that target the same resource and day.
// Acquire blocks until the key is held or ctx ends; the returned release must always be called.
type AdmissionGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// AdmissionKey scopes a lock to one item type, vendor and date.
func AdmissionKey(itemType models.ItemType, vendorID, date string) string {
	return fmt.Sprintf("admission:%s:%s:%s", itemType, vendorID, date)
}

// LocalGuard is an in-process AdmissionGuard backed by one channel per key.
type LocalGuard struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	slot chan struct{}
	refs int
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{locks: make(map[string]*keyLock)}
}

func (g *LocalGuard) Acquire(ctx context.Context, key string) (func(), error) {
	g.mu.Lock()
	l, ok := g.locks[key]
	if !ok {
		l = &keyLock{slot: make(chan struct{}, 1)}
		g.locks[key] = l
	}
	l.refs++
	g.mu.Unlock()

	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		g.unref(key, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.slot
			g.unref(key, l)
		})
	}, nil
}

func (g *LocalGuard) unref(key string, l *keyLock) {
	g.mu.Lock()
	defer g.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(g.locks, key)
	}
}

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisGuard is an AdmissionGuard shared by every replica. Locks expire after TTL so a crashed
// holder cannot block a slot forever; the Mongo transaction recheck still protects the insert.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
	logger *zap.Logger
}

func NewRedisGuard(client *redis.Client, ttl, wait time.Duration, logger *zap.Logger) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl, wait: wait, retry: 25 * time.Millisecond, logger: logger}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, g.wait)
	defer cancel()

	for {
		ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrGuardBusy
			}
			return nil, fmt.Errorf("acquire admission lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ErrGuardBusy
		case <-time.After(g.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, g.client, []string{key}, token).Err(); err != nil {
				g.logger.Warn("failed to release admission lock", zap.String("key", key), zap.Error(err))
			}
		})
	}, nil
}
