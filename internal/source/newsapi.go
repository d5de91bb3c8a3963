package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"newshub/internal/feed"
)

const newsAPIBase = "https://newsapi.org/v2"

// NewsAPI talks to newsapi.org. It is the primary source and gets the
// larger share of the page-size split.
type NewsAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
	quota   *Quota
}

func NewNewsAPI(apiKey string, quota *Quota) *NewsAPI {
	return &NewsAPI{
		apiKey:  apiKey,
		baseURL: newsAPIBase,
		client:  &http.Client{},
		quota:   quota,
	}
}

func (s *NewsAPI) Name() string { return "newsapi" }

func (s *NewsAPI) Weight() int { return 2 }

// Fetch queries top-headlines for country browsing and the everything
// endpoint when free text is involved.
func (s *NewsAPI) Fetch(ctx context.Context, q feed.SourceQuery) ([]feed.Article, error) {
	if s.quota != nil {
		if err := s.quota.Allow(s.Name()); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("apiKey", s.apiKey)
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	endpoint := s.baseURL + "/top-headlines"
	if q.Query != "" {
		endpoint = s.baseURL + "/everything"
		params.Set("q", q.Query)
		params.Set("sortBy", "publishedAt")
		if q.Language != "" {
			params.Set("language", q.Language)
		}
	} else {
		if q.Country != "" {
			params.Set("country", q.Country)
		}
		if q.Category != "" {
			params.Set("category", q.Category)
		}
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

	var raw newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || raw.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %d: %s", resp.StatusCode, raw.Message)
	}

	ingested := time.Now()
	articles := make([]feed.Article, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		if a.Title == "" {
			continue
		}
		articles = append(articles, normalizeNewsAPI(a, q.Category, ingested))
	}
	return articles, nil
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Message      string `json:"message"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

// normalizeNewsAPI is the explicit per-provider mapping into the
// canonical schema. Missing optionals are defaulted, never fatal.
func normalizeNewsAPI(a newsAPIArticle, category string, ingested time.Time) feed.Article {
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
		ImageURL:    a.URLToImage,
		PublishedAt: published,
		SourceName:  a.Source.Name,
		Provider:    "newsapi",
		Category:    category,
	}
}
