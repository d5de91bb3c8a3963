// Package compose is the top-level feed orchestrator. A request moves
// through fetch (parallel), merge, dedup and rank; the only hard
// failure out of fetching is when every source fails at once.
package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"newshub/internal/auth"
	"newshub/internal/cache"
	"newshub/internal/dedup"
	"newshub/internal/feed"
	"newshub/internal/metrics"
	"newshub/internal/profile"
	"newshub/internal/rank"
	"newshub/internal/storage"
)

// Mode selects which feed variant is composed.
type Mode string

const (
	ModeMain          Mode = "main"
	ModeNational      Mode = "national"
	ModeInternational Mode = "international"
	ModeRegional      Mode = "regional"
	ModeForYou        Mode = "for-you"
)

// ParseMode maps the query parameter onto a mode; empty means main.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeMain:
		return ModeMain, nil
	case ModeNational, ModeInternational, ModeRegional, ModeForYou:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown feed mode %q", s)
}

// Fetcher is the aggregation boundary the composer calls into.
type Fetcher interface {
	Fetch(ctx context.Context, q feed.SourceQuery) ([]feed.Article, error)
}

// Request is one feed composition call.
type Request struct {
	Mode     Mode
	Category string
	Query    string
	Page     int
	PageSize int
	Identity auth.Identity
}

// Page is the ranked result delivered to the caller.
type Page struct {
	Articles     []feed.Article `json:"articles"`
	TotalResults int            `json:"totalResults"`
	Page         int            `json:"page"`
}

// Config carries the composer tunables.
type Config struct {
	HomeCountry      string
	DefaultLanguage  string
	PageSize         int
	MaxPageSize      int
	DedupThreshold   float64
	TopCategories    int
	TopKeywords      int
	ForYouCategories int
	CacheTTL         time.Duration
}

type Composer struct {
	fetcher Fetcher
	history storage.HistoryStore
	cfg     Config
	pages   *cache.Cache
	log     *slog.Logger
	stats   *metrics.Metrics
}

func New(fetcher Fetcher, history storage.HistoryStore, cfg Config, pages *cache.Cache, log *slog.Logger, stats *metrics.Metrics) *Composer {
	if stats == nil {
		stats = metrics.Global
	}
	return &Composer{
		fetcher: fetcher,
		history: history,
		cfg:     cfg,
		pages:   pages,
		log:     log,
		stats:   stats,
	}
}

// Feed composes one feed page for the request's mode.
func (c *Composer) Feed(ctx context.Context, req Request) (Page, error) {
	start := time.Now()

	req = c.normalize(req)

	queries, cacheable, err := c.queriesFor(ctx, req)
	if err != nil {
		return Page{}, err
	}

	key := ""
	if cacheable && c.pages != nil {
		key = cache.Key(string(req.Mode), req.Category, req.Query,
			c.language(req.Identity), strconv.Itoa(req.Page), strconv.Itoa(req.PageSize))
		if v, ok := c.pages.Get(key); ok {
			c.stats.IncrementCacheHits()
			return v.(Page), nil
		}
		c.stats.IncrementCacheMisses()
	}

	merged, err := c.fetchAll(ctx, queries)
	if err != nil {
		c.stats.SetError(err.Error())
		return Page{}, err
	}

	collapsed := dedup.Collapse(merged, c.cfg.DedupThreshold)
	c.stats.AddDuplicatesFiltered(len(merged) - len(collapsed))

	page := Page{
		Articles:     rank.Order(collapsed, req.PageSize),
		TotalResults: len(collapsed),
		Page:         req.Page,
	}

	if key != "" {
		c.pages.Set(key, page, c.cfg.CacheTTL)
	}

	c.stats.RecordComposeTime(time.Since(start))
	c.log.Info("feed composed",
		"mode", req.Mode,
		"fetched", len(merged),
		"delivered", len(page.Articles))
	return page, nil
}

// TrackClick appends one reading event to the caller's history.
func (c *Composer) TrackClick(ctx context.Context, id auth.Identity, ev profile.ReadingEvent) error {
	if id.Guest {
		return feed.ErrUnauthorized
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	if err := c.history.Append(ctx, id.UserID, ev); err != nil {
		return fmt.Errorf("record reading event: %w", err)
	}
	c.stats.IncrementClicksTracked()
	return nil
}

// Profile computes the caller's interest profile on demand.
func (c *Composer) Profile(ctx context.Context, id auth.Identity) (profile.InterestProfile, error) {
	if id.Guest {
		return profile.InterestProfile{}, feed.ErrUnauthorized
	}
	history, err := c.history.List(ctx, id.UserID)
	if err != nil {
		return profile.InterestProfile{}, fmt.Errorf("load reading history: %w", err)
	}
	return profile.Build(history, profile.Options{
		TopCategories: c.cfg.TopCategories,
		TopKeywords:   c.cfg.TopKeywords,
	}), nil
}

func (c *Composer) normalize(req Request) Request {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = c.cfg.PageSize
	}
	if c.cfg.MaxPageSize > 0 && req.PageSize > c.cfg.MaxPageSize {
		req.PageSize = c.cfg.MaxPageSize
	}
	return req
}

func (c *Composer) language(id auth.Identity) string {
	if id.Language != "" {
		return id.Language
	}
	return c.cfg.DefaultLanguage
}

// queriesFor builds the source queries for a mode. cacheable is true
// for the shared, non-personalized modes.
func (c *Composer) queriesFor(ctx context.Context, req Request) ([]feed.SourceQuery, bool, error) {
	base := feed.SourceQuery{
		Country:  c.cfg.HomeCountry,
		Language: c.language(req.Identity),
		Category: req.Category,
		Query:    req.Query,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	switch req.Mode {
	case ModeMain:
		return []feed.SourceQuery{base}, true, nil

	case ModeNational:
		base.Category = ""
		base.Query = ""
		return []feed.SourceQuery{base}, true, nil

	case ModeInternational:
		base.Country = ""
		base.Query = ""
		return []feed.SourceQuery{base}, true, nil

	case ModeRegional:
		loc := req.Identity.Location
		place := strings.TrimSpace(strings.TrimSpace(loc.State) + " " + strings.TrimSpace(loc.City))
		if place == "" {
			return nil, false, feed.ErrMissingLocation
		}
		base.Query = place
		return []feed.SourceQuery{base}, false, nil

	case ModeForYou:
		return c.forYouQueries(ctx, req, base)
	}

	return nil, false, fmt.Errorf("unknown feed mode %q", req.Mode)
}

// forYouQueries derives one biased query per top interest category.
// Empty history falls back to the unbiased main feed.
func (c *Composer) forYouQueries(ctx context.Context, req Request, base feed.SourceQuery) ([]feed.SourceQuery, bool, error) {
	if req.Identity.Guest {
		return nil, false, feed.ErrUnauthorized
	}

	history, err := c.history.List(ctx, req.Identity.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("load reading history: %w", err)
	}

	p := profile.Build(history, profile.Options{
		TopCategories: c.cfg.TopCategories,
		TopKeywords:   c.cfg.TopKeywords,
	})
	if _, ok := profile.BiasedQuery(p, base); !ok {
		c.log.Debug("empty history, falling back to main feed", "user", req.Identity.UserID)
		base.Category = ""
		base.Query = ""
		return []feed.SourceQuery{base}, false, nil
	}

	width := c.cfg.ForYouCategories
	if width <= 0 {
		width = 3
	}
	categories := p.TopCategories
	if len(categories) > width {
		categories = categories[:width]
	}

	queries := make([]feed.SourceQuery, 0, len(categories))
	for _, cat := range categories {
		q := base
		q.Category = cat
		q.Query = ""
		queries = append(queries, q)
	}
	return queries, false, nil
}

// fetchAll runs every query through the aggregator. Multi-query modes
// join all-settled: the merge only fails when every call does.
func (c *Composer) fetchAll(ctx context.Context, queries []feed.SourceQuery) ([]feed.Article, error) {
	if len(queries) == 1 {
		return c.fetcher.Fetch(ctx, queries[0])
	}

	results := make([][]feed.Article, len(queries))
	errs := make([]error, len(queries))

	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			results[i], errs[i] = c.fetcher.Fetch(ctx, q)
			return nil
		})
	}
	_ = g.Wait()

	var merged []feed.Article
	okCount := 0
	var lastErr error
	for i := range queries {
		if errs[i] != nil {
			lastErr = errs[i]
			continue
		}
		okCount++
		merged = append(merged, results[i]...)
	}

	if okCount == 0 {
		if errors.Is(lastErr, feed.ErrAllSourcesFailed) {
			return nil, lastErr
		}
		return nil, fmt.Errorf("%w: %v", feed.ErrAllSourcesFailed, lastErr)
	}
	return merged, nil
}
