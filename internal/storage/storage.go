// Package storage is the persistence collaborator: reading-history and
// saved-article stores per user. The pipeline only reads history; the
// click tracker is the single writer.
package storage

import (
	"context"

	"newshub/internal/feed"
	"newshub/internal/profile"
)

// HistoryStore keeps the append-only reading-event log per user,
// capped at a maximum length with the oldest event evicted first.
type HistoryStore interface {
	Append(ctx context.Context, userID string, ev profile.ReadingEvent) error
	List(ctx context.Context, userID string) ([]profile.ReadingEvent, error)
}

// SavedStore keeps each user's saved-article list. Toggle reports
// whether the article is saved after the call.
type SavedStore interface {
	Toggle(ctx context.Context, userID string, art feed.Article) (bool, error)
	List(ctx context.Context, userID string) ([]feed.Article, error)
}
