package source

import (
	"fmt"
	"sync"
	"time"
)

// Quota guards the daily request budget of each provider so a busy day
// does not burn through a free API tier. Counters reset every 24h.
type Quota struct {
	mu      sync.Mutex
	limits  map[string]int
	counts  map[string]int
	resetAt time.Time
}

// NewQuota creates a quota guard. A limit of 0 means unlimited.
func NewQuota(limits map[string]int) *Quota {
	q := &Quota{
		limits:  make(map[string]int, len(limits)),
		counts:  make(map[string]int, len(limits)),
		resetAt: time.Now().Add(24 * time.Hour),
	}
	for name, limit := range limits {
		q.limits[name] = limit
	}
	return q
}

// Allow records one request for provider and reports whether it fits
// inside the daily budget.
func (q *Quota) Allow(provider string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.checkReset()

	limit := q.limits[provider]
	if limit > 0 && q.counts[provider] >= limit {
		return fmt.Errorf("%s daily quota exhausted (%d/%d)", provider, q.counts[provider], limit)
	}

	q.counts[provider]++
	return nil
}

// Stats returns current usage per provider.
func (q *Quota) Stats() map[string]any {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := make(map[string]any, len(q.counts)+1)
	for name, count := range q.counts {
		stats[name+"_used"] = count
		stats[name+"_limit"] = q.limits[name]
	}
	stats["reset_at"] = q.resetAt.Format(time.RFC3339)
	return stats
}

func (q *Quota) checkReset() {
	if time.Now().After(q.resetAt) {
		q.counts = make(map[string]int, len(q.limits))
		q.resetAt = time.Now().Add(24 * time.Hour)
	}
}
