// Package feed holds the canonical article schema shared by every
// pipeline stage. Articles are immutable once produced by a source
// adapter; later stages copy, never mutate.
package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Article is the unified shape every provider record is normalized into.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	SourceName  string    `json:"sourceName,omitempty"`
	Provider    string    `json:"provider"`
	Category    string    `json:"category,omitempty"`
}

// SourceQuery carries the parameters of one aggregation call. Adapters
// receive it by value and must not hold on to it.
type SourceQuery struct {
	Country  string
	Language string
	Category string
	Query    string
	Page     int
	PageSize int
}

// FetchResult is the settled outcome of a single adapter invocation.
// Exactly one of Articles or Err is meaningful.
type FetchResult struct {
	Provider string
	Articles []Article
	Err      error
}

// ArticleID derives a stable identifier for a raw record. The canonical
// URL is the natural key when present; records without one hash the
// title together with the ingestion timestamp, so normalizing the same
// raw batch twice yields the same id.
func ArticleID(url, title string, ingested time.Time) string {
	h := sha256.New()
	if url != "" {
		h.Write([]byte(url))
	} else {
		h.Write([]byte(title + "|" + ingested.UTC().Format(time.RFC3339)))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
