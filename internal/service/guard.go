package service

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	redispkg "github.com/rube11/Mo-Data-builder-project/internal/pkg/redis"
)

// ErrInFlight is returned when an operation for the same key is already
// running.
var ErrInFlight = errors.New("operation already in flight")

// InFlightGuard prevents duplicate concurrent operations on the same item
// (double submit, double delete). Different keys never block each other.
// When Redis is connected the lock is shared across instances; otherwise
// it degrades to a process-local map.
type InFlightGuard struct {
	mu    sync.Mutex
	local map[string]struct{}
	ttl   time.Duration
}

// NewInFlightGuard creates a guard. The TTL bounds how long a Redis-held
// lock can outlive a crashed worker.
func NewInFlightGuard(ttl time.Duration) *InFlightGuard {
	return &InFlightGuard{
		local: make(map[string]struct{}),
		ttl:   ttl,
	}
}

// TryAcquire takes the lock for key, reporting false when it is held.
func (g *InFlightGuard) TryAcquire(key string) bool {
	if redispkg.Available() {
		ok, err := redispkg.TryAcquire(key, g.ttl)
		if err == nil {
			return ok
		}
		zap.L().Warn("Redis in-flight lock failed, using local guard",
			zap.String("key", key),
			zap.Error(err))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.local[key]; held {
		return false
	}
	g.local[key] = struct{}{}
	return true
}

// Release drops the lock for key.
func (g *InFlightGuard) Release(key string) {
	if redispkg.Available() {
		if err := redispkg.Release(key); err != nil {
			zap.L().Warn("Redis in-flight unlock failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.local, key)
}
