package metrics

import (
	"sync"
	"time"
)

// Metrics tracks pipeline counters exposed by the /health and /metrics
// endpoints.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFetched    int64
	SourceFailures     int64
	DuplicatesFiltered int64
	CacheHits          int64
	CacheMisses        int64
	ClicksTracked      int64

	// Timings
	LastComposeTime    time.Duration
	TotalComposeTime   time.Duration
	AverageComposeTime time.Duration
	ComposeCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementSourceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFailures++
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) IncrementCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *Metrics) IncrementCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *Metrics) IncrementClicksTracked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClicksTracked++
}

func (m *Metrics) RecordComposeTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastComposeTime = duration
	m.TotalComposeTime += duration
	m.ComposeCount++
	m.AverageComposeTime = m.TotalComposeTime / time.Duration(m.ComposeCount)
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_fetched":        m.ArticlesFetched,
		"source_failures":         m.SourceFailures,
		"duplicates_filtered":     m.DuplicatesFiltered,
		"cache_hits":              m.CacheHits,
		"cache_misses":            m.CacheMisses,
		"clicks_tracked":          m.ClicksTracked,
		"last_compose_time_ms":    m.LastComposeTime.Milliseconds(),
		"average_compose_time_ms": m.AverageComposeTime.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
