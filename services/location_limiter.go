package services

import (
	"context"
	"sync"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// DefaultLocationCooldown is the minimum spacing between accepted location
// samples of one delivery.
const DefaultLocationCooldown = 3 * time.Second

// LocationLimiter decides whether a location sample for a delivery token may be
// accepted now. Allow must check and record atomically. Release forgets the
// last accepted sample so the next one is allowed.
type LocationLimiter interface {
	Allow(ctx context.Context, token string) (bool, error)
	Release(ctx context.Context, token string) error
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per delivery in process memory.
type MemoryLimiter struct {
	cooldown time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func NewMemoryLimiter(cooldown time.Duration) *MemoryLimiter {
	if cooldown <= 0 {
		cooldown = DefaultLocationCooldown
	}
	return &MemoryLimiter{
		cooldown: cooldown,
		now:      time.Now,
		entries:  make(map[string]*limiterEntry),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[token]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(l.cooldown), 1)}
		l.entries[token] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1), nil
}

func (l *MemoryLimiter) Release(_ context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, token)
	return nil
}

// Sweep drops entries idle for longer than the cooldown. A dropped entry
// would have allowed the next sample anyway.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cooldown)
	removed := 0
	for token, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, token)
			removed++
		}
	}
	return removed
}

func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Start sweeps periodically until ctx is done.
func (l *MemoryLimiter) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.Sweep(); n > 0 {
					utils.InfoLogger.Debugf("location limiter swept %d idle deliveries", n)
				}
			}
		}
	}()
}

// RedisLimiter shares the cooldown between instances with SET NX PX.
type RedisLimiter struct {
	client   redis.UniversalClient
	cooldown time.Duration
	prefix   string
}

func NewRedisLimiter(client redis.UniversalClient, cooldown time.Duration) *RedisLimiter {
	if cooldown <= 0 {
		cooldown = DefaultLocationCooldown
	}
	return &RedisLimiter{client: client, cooldown: cooldown, prefix: "burger:location:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, token string) (bool, error) {
	return l.client.SetNX(ctx, l.prefix+token, 1, l.cooldown).Result()
}

func (l *RedisLimiter) Release(ctx context.Context, token string) error {
	return l.client.Del(ctx, l.prefix+token).Err()
}
