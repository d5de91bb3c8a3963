package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"newshub/internal/feed"
)

const gnewsBase = "https://gnews.io/api/v4"

// GNews talks to gnews.io, the secondary headline source.
type GNews struct {
	apiKey  string
	baseURL string
	client  *http.Client
	quota   *Quota
}

func NewGNews(apiKey string, quota *Quota) *GNews {
	return &GNews{
		apiKey:  apiKey,
		baseURL: gnewsBase,
		client:  &http.Client{},
		quota:   quota,
	}
}

func (s *GNews) Name() string { return "gnews" }

func (s *GNews) Weight() int { return 1 }

func (s *GNews) Fetch(ctx context.Context, q feed.SourceQuery) ([]feed.Article, error) {
	if s.quota != nil {
		if err := s.quota.Allow(s.Name()); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("max", strconv.Itoa(q.PageSize))
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Language != "" {
		params.Set("lang", q.Language)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}

	endpoint := s.baseURL + "/top-headlines"
	if q.Query != "" {
		endpoint = s.baseURL + "/search"
		params.Set("q", q.Query)
	} else if q.Category != "" {
		params.Set("category", q.Category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gnews status %d: %s", resp.StatusCode, body)
	}

	var raw gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	ingested := time.Now()
	articles := make([]feed.Article, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		if a.Title == "" {
			continue
		}
		articles = append(articles, normalizeGNews(a, q.Category, ingested))
	}
	return articles, nil
}

type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`
}

type gnewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

func normalizeGNews(a gnewsArticle, category string, ingested time.Time) feed.Article {
	published := ingested
	if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
		published = t
	}

	return feed.Article{
		ID:          feed.ArticleID(a.URL, a.Title, ingested),
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		URL:         a.URL,
		ImageURL:    a.Image,
		PublishedAt: published,
		SourceName:  a.Source.Name,
		Provider:    "gnews",
		Category:    category,
	}
}
