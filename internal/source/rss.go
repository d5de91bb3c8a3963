package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newshub/internal/feed"
)

// RSS aggregates a configured list of RSS/Atom feeds through one
// adapter. Individual feed failures are logged and skipped; the adapter
// only fails when every feed does.
type RSS struct {
	feeds  []FeedSource
	parser *gofeed.Parser
	log    *slog.Logger
}

func NewRSS(feeds []FeedSource, log *slog.Logger) *RSS {
	return &RSS{
		feeds:  feeds,
		parser: gofeed.NewParser(),
		log:    log,
	}
}

func (s *RSS) Name() string { return "rss" }

func (s *RSS) Weight() int { return 1 }

func (s *RSS) Fetch(ctx context.Context, q feed.SourceQuery) ([]feed.Article, error) {
	var articles []feed.Article
	okCount := 0

	for _, f := range s.feeds {
		if q.Category != "" && f.Category != "" && !strings.EqualFold(f.Category, q.Category) {
			continue
		}

		parsed, err := s.parser.ParseURLWithContext(f.URL, ctx)
		if err != nil {
			s.log.Warn("rss feed failed", "url", f.URL, "error", err)
			continue
		}
		okCount++

		ingested := time.Now()
		for _, item := range parsed.Items {
			if item.Title == "" {
				continue
			}
			articles = append(articles, normalizeRSS(item, f, ingested))
		}
	}

	if okCount == 0 && len(s.feeds) > 0 {
		return nil, fmt.Errorf("all %d rss feeds failed", len(s.feeds))
	}

	if q.PageSize > 0 && len(articles) > q.PageSize {
		articles = articles[:q.PageSize]
	}
	return articles, nil
}

func normalizeRSS(item *gofeed.Item, f FeedSource, ingested time.Time) feed.Article {
	published := ingested
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	}

	sourceName := f.Name
	if sourceName == "" {
		sourceName = "rss"
	}

	imageURL := ""
	if item.Image != nil {
		imageURL = item.Image.URL
	}

	category := f.Category
	if category == "" && len(item.Categories) > 0 {
		category = strings.ToLower(item.Categories[0])
	}

	return feed.Article{
		ID:          feed.ArticleID(item.Link, item.Title, ingested),
		Title:       item.Title,
		Description: item.Description,
		Content:     item.Content,
		URL:         item.Link,
		ImageURL:    imageURL,
		PublishedAt: published,
		SourceName:  sourceName,
		Provider:    "rss",
		Category:    category,
	}
}
