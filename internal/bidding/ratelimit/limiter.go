package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Limiter is a process-local sliding-window admission limiter. It is advisory
// only: it bounds how fast one bidder on this instance can hit the authority,
// but it is not shared across instances or devices and must never be treated
// as a fairness or fraud boundary. The authority enforces its own admission
// control
type Limiter struct {
	maxAttempts int
	window      time.Duration

	mu       sync.Mutex
	attempts map[string][]time.Time

	now func() time.Time
}

// New creates a limiter permitting maxAttempts per key within a sliding window
func New(maxAttempts int, window time.Duration) *Limiter {
	return &Limiter{
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// BidKey builds the limiter key for one (auction, bidder) pair
func BidKey(auctionID, email string) string {
	return fmt.Sprintf("bid_%s_%s", auctionID, email)
}

// Allow purges attempts older than the window for key, then permits and
// records the attempt if fewer than maxAttempts remain. A denied attempt
// records nothing
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.attempts[key][:0]
	for _, t := range l.attempts[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.maxAttempts {
		l.attempts[key] = recent
		log.Warn("Bid attempt rate limited",
			zap.String("key", key),
			zap.Int("attemptsInWindow", len(recent)),
			zap.Int("maxAttempts", l.maxAttempts),
			zap.Duration("window", l.window),
		)
		return false
	}

	l.attempts[key] = append(recent, now)
	return true
}

// Reset forgets all recorded attempts for key
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
}
