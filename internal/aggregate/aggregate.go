// Package aggregate fans a query out to every configured source
// adapter in parallel and joins the settled outcomes.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"newshub/internal/feed"
	"newshub/internal/metrics"
	"newshub/internal/source"
)

// DefaultTimeout bounds a single adapter call; a slow provider drops
// out of the response instead of holding it up.
const DefaultTimeout = 10 * time.Second

// Aggregator invokes all adapters concurrently and concatenates the
// articles of the ones that succeed. It performs no retries; a failed
// source is simply absent from that response.
type Aggregator struct {
	adapters []source.Adapter
	timeout  time.Duration
	log      *slog.Logger
	stats    *metrics.Metrics
}

func New(adapters []source.Adapter, timeout time.Duration, log *slog.Logger, stats *metrics.Metrics) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if stats == nil {
		stats = metrics.Global
	}
	return &Aggregator{adapters: adapters, timeout: timeout, log: log, stats: stats}
}

// Fetch runs the all-settled fan-out. Per-source failures are logged
// and skipped; the union of successful outcomes is returned in
// unspecified order. Only when every adapter fails does Fetch return an
// error, wrapping feed.ErrAllSourcesFailed.
func (a *Aggregator) Fetch(ctx context.Context, q feed.SourceQuery) ([]feed.Article, error) {
	if len(a.adapters) == 0 {
		return nil, fmt.Errorf("no adapters configured: %w", feed.ErrAllSourcesFailed)
	}

	shares := splitPageSize(q.PageSize, a.adapters)
	results := make([]feed.FetchResult, len(a.adapters))

	var g errgroup.Group
	for i, adapter := range a.adapters {
		sub := q
		sub.PageSize = shares[i]

		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			articles, err := adapter.Fetch(cctx, sub)
			if err != nil {
				err = &feed.SourceError{Provider: adapter.Name(), Err: err}
			}
			results[i] = feed.FetchResult{Provider: adapter.Name(), Articles: articles, Err: err}
			return nil
		})
	}
	// Adapter goroutines always return nil; the group is a join point,
	// not an error short-circuit.
	_ = g.Wait()

	var merged []feed.Article
	okCount := 0
	var lastErr error
	for _, res := range results {
		if res.Err != nil {
			a.log.Warn("source failed", "provider", res.Provider, "error", res.Err)
			a.stats.IncrementSourceFailures()
			lastErr = res.Err
			continue
		}
		okCount++
		merged = append(merged, res.Articles...)
	}

	if okCount == 0 {
		return nil, fmt.Errorf("%w: %v", feed.ErrAllSourcesFailed, lastErr)
	}

	a.stats.AddArticlesFetched(len(merged))
	a.log.Debug("aggregation complete",
		"sources_ok", okCount,
		"sources_total", len(a.adapters),
		"articles", len(merged))
	return merged, nil
}

// splitPageSize divides the requested page size across adapters in
// proportion to their weight, with the first (primary) adapter taking
// any remainder.
func splitPageSize(pageSize int, adapters []source.Adapter) []int {
	shares := make([]int, len(adapters))
	if pageSize <= 0 {
		return shares
	}

	totalWeight := 0
	for _, ad := range adapters {
		totalWeight += ad.Weight()
	}
	if totalWeight <= 0 {
		totalWeight = len(adapters)
	}

	assigned := 0
	for i, ad := range adapters {
		w := ad.Weight()
		if w <= 0 {
			w = 1
		}
		shares[i] = pageSize * w / totalWeight
		if shares[i] == 0 {
			shares[i] = 1
		}
		assigned += shares[i]
	}
	if rest := pageSize - assigned; rest > 0 {
		shares[0] += rest
	}
	return shares
}
