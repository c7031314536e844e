package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key, all sharing the same refill
// rate and burst.
type RateLimiter struct {
	every time.Duration
	burst int
	now   func() time.Time

	mutex   sync.Mutex
	buckets map[string]*bucket
}

// NewRateLimiter allows burst actions at once, refilling one token per every.
func NewRateLimiter(burst int, every time.Duration) *RateLimiter {
	return &RateLimiter{
		every:   every,
		burst:   burst,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Chat limits used by the websocket and REST chat paths.
func NewSendLimiter() *RateLimiter   { return NewRateLimiter(10, 6*time.Second) }
func NewRoomLimiter() *RateLimiter   { return NewRateLimiter(5, 12*time.Minute) }
func NewTypingLimiter() *RateLimiter { return NewRateLimiter(30, 2*time.Second) }

func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mutex.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(rl.every), rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	return b.limiter.AllowN(now, 1)
}

// Cleanup drops buckets idle for longer than idle.
func (rl *RateLimiter) Cleanup(idle time.Duration) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	removed := 0
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > idle {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine prunes idle buckets every half hour until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-stop:
				return
			}
		}
	}()
}
