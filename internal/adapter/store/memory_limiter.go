package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	clientIdleThreshold = 1 * time.Hour
	cleanupInterval     = 30 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps a token bucket per client in process memory. It is
// used when Redis is not configured. Each client may burst up to limit
// requests, refilled evenly over window.
type MemoryLimiter struct {
	mu          sync.Mutex
	limit       int
	every       rate.Limit
	clients     map[string]*clientLimiter
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	rl := &MemoryLimiter{
		limit:       limit,
		clients:     make(map[string]*clientLimiter),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	if limit > 0 && window > 0 {
		rl.every = rate.Every(window / time.Duration(limit))
	}
	go rl.cleanupLoop()
	return rl
}

func (r *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

// cleanup forgets clients idle for longer than clientIdleThreshold.
func (r *MemoryLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, c := range r.clients {
		if now.Sub(c.lastSeen) > clientIdleThreshold {
			delete(r.clients, id)
		}
	}
}

func (r *MemoryLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

func (r *MemoryLimiter) Allow(_ context.Context, clientID string) (bool, error) {
	if r.limit <= 0 {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	c, ok := r.clients[clientID]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(r.every, r.limit)}
		r.clients[clientID] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1), nil
}
