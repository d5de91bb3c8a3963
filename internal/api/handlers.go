package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"newshub/internal/auth"
	"newshub/internal/compose"
	"newshub/internal/feed"
	"newshub/internal/metrics"
	"newshub/internal/profile"
	"newshub/internal/retry"
	"newshub/internal/scraper"
	"newshub/internal/storage"
)

// FeedService is what the handlers need from the composer.
type FeedService interface {
	Feed(ctx context.Context, req compose.Request) (compose.Page, error)
	TrackClick(ctx context.Context, id auth.Identity, ev profile.ReadingEvent) error
	Profile(ctx context.Context, id auth.Identity) (profile.InterestProfile, error)
}

// Summarizer is the AI collaborator surface.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
	Ask(ctx context.Context, question, articleContext string) (string, error)
}

type Handlers struct {
	feeds      FeedService
	saved      storage.SavedStore
	summarizer Summarizer // nil when no API key is configured
	pages      *scraper.Scraper
	retryCfg   retry.Config
	stats      *metrics.Metrics
	log        *slog.Logger
}

func NewHandlers(feeds FeedService, saved storage.SavedStore, summarizer Summarizer, pages *scraper.Scraper, retryCfg retry.Config, stats *metrics.Metrics, log *slog.Logger) *Handlers {
	if stats == nil {
		stats = metrics.Global
	}
	return &Handlers{
		feeds:      feeds,
		saved:      saved,
		summarizer: summarizer,
		pages:      pages,
		retryCfg:   retryCfg,
		stats:      stats,
		log:        log,
	}
}

// Feed handles GET /api/feed.
func (h *Handlers) Feed(c *gin.Context) {
	mode, err := compose.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))

	result, err := h.feeds.Feed(c.Request.Context(), compose.Request{
		Mode:     mode,
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Page:     page,
		PageSize: pageSize,
		Identity: auth.FromContext(c),
	})
	if err != nil {
		h.feedError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// feedError maps pipeline failures onto distinct response classes so
// the client can tell empty-state, error-state and permission prompt
// apart.
func (h *Handlers) feedError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, feed.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to use the personalized feed"})
	case errors.Is(err, feed.ErrMissingLocation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "set your location to use the regional feed"})
	case errors.Is(err, feed.ErrAllSourcesFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "news sources are unavailable right now"})
	default:
		h.log.Error("feed request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch news"})
	}
}

type trackClickRequest struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Topic    string `json:"topic"`
}

// TrackClick handles POST /api/feed/track-click.
func (h *Handlers) TrackClick(c *gin.Context) {
	var req trackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.URL == "" && req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article must have at least a url or title"})
		return
	}

	err := h.feeds.TrackClick(c.Request.Context(), auth.FromContext(c), profile.ReadingEvent{
		URL:      req.URL,
		Title:    req.Title,
		Category: req.Category,
		Topic:    req.Topic,
	})
	if err != nil {
		if errors.Is(err, feed.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		h.log.Error("track click failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record reading event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Profile handles GET /api/user/profile.
func (h *Handlers) Profile(c *gin.Context) {
	p, err := h.feeds.Profile(c.Request.Context(), auth.FromContext(c))
	if err != nil {
		if errors.Is(err, feed.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		h.log.Error("profile failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute profile"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// SavedList handles GET /api/user/saved.
func (h *Handlers) SavedList(c *gin.Context) {
	id := auth.FromContext(c)
	articles, err := h.saved.List(c.Request.Context(), id.UserID)
	if err != nil {
		h.log.Error("list saved failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load saved articles"})
		return
	}
	if articles == nil {
		articles = []feed.Article{}
	}
	c.JSON(http.StatusOK, gin.H{"savedArticles": articles})
}

// SaveToggle handles POST /api/user/saved: save when absent, remove
// when present.
func (h *Handlers) SaveToggle(c *gin.Context) {
	var art feed.Article
	if err := c.ShouldBindJSON(&art); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if art.URL == "" && art.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "article must have url or id"})
		return
	}
	if art.ID == "" {
		art.ID = feed.ArticleID(art.URL, art.Title, time.Now())
	}

	id := auth.FromContext(c)
	saved, err := h.saved.Toggle(c.Request.Context(), id.UserID, art)
	if err != nil {
		h.log.Error("toggle saved failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update saved article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

type summaryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// AISummary handles POST /api/ai/summary. Thin content is backfilled
// by scraping the article page first.
func (h *Handlers) AISummary(c *gin.Context) {
	if h.summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI summaries are not configured"})
		return
	}

	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	ctx := c.Request.Context()
	content := req.Content
	if len(content) < 300 && req.URL != "" && h.pages != nil {
		if full, err := h.pages.Extract(ctx, req.URL); err == nil {
			content = full.Text
		} else {
			h.log.Warn("content extraction failed", "url", req.URL, "error", err)
		}
	}

	var summary string
	err := retry.Do(ctx, h.retryCfg, func() error {
		var genErr error
		summary, genErr = h.summarizer.Summarize(ctx, req.Title, content)
		return genErr
	})
	if err != nil {
		h.log.Error("summary failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "summary generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

type askRequest struct {
	Question       string `json:"question"`
	ArticleContext string `json:"articleContext"`
}

// AIAsk handles POST /api/ai/ask.
func (h *Handlers) AIAsk(c *gin.Context) {
	if h.summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI chat is not configured"})
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	ctx := c.Request.Context()
	var answer string
	err := retry.Do(ctx, h.retryCfg, func() error {
		var genErr error
		answer, genErr = h.summarizer.Ask(ctx, req.Question, req.ArticleContext)
		return genErr
	})
	if err != nil {
		h.log.Error("ask failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "answer generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// Health handles GET /health.
func (h *Handlers) Health(c *gin.Context) {
	stats := h.stats.GetStats()

	status := http.StatusOK
	state := "ok"
	if healthy, ok := stats["is_healthy"].(bool); ok && !healthy {
		status = http.StatusServiceUnavailable
		state = "error"
	}

	c.JSON(status, gin.H{
		"status":     state,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

// Metrics handles GET /metrics.
func (h *Handlers) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.GetStats())
}
