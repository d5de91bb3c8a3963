package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/feed"
	"newshub/internal/profile"
)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db, 200), mock
}

func TestPostgresAppendTrimsHistory(t *testing.T) {
	store, mock := newMockStore(t)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO reading_history").
		WithArgs("u1", "https://example.com/a", "Headline", "Sports", "cricket", at).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM reading_history").
		WithArgs("u1", 200).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Append(context.Background(), "u1", profile.ReadingEvent{
		URL:      "https://example.com/a",
		Title:    "Headline",
		Category: "Sports",
		Topic:    "cricket",
		At:       at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListHistory(t *testing.T) {
	store, mock := newMockStore(t)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"url", "title", "category", "topic", "clicked_at"}).
		AddRow("https://example.com/a", "First", "Sports", "", at).
		AddRow("https://example.com/b", "Second", "Technology", "", at.Add(time.Hour))
	mock.ExpectQuery("SELECT url, title, category, topic, clicked_at").
		WithArgs("u1").
		WillReturnRows(rows)

	events, err := store.List(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "First", events[0].Title, "oldest first")
	assert.Equal(t, "Technology", events[1].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresToggleSaves(t *testing.T) {
	store, mock := newMockStore(t)

	art := feed.Article{
		ID:          "abc123",
		Title:       "Headline",
		URL:         "https://example.com/a",
		PublishedAt: time.Now(),
		Provider:    "newsapi",
	}

	mock.ExpectExec("DELETE FROM saved_articles").
		WithArgs("u1", "abc123").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO saved_articles").
		WillReturnResult(sqlmock.NewResult(1, 1))

	saved, err := store.Toggle(context.Background(), "u1", art)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresToggleUnsaves(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM saved_articles").
		WithArgs("u1", "abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	saved, err := store.Toggle(context.Background(), "u1", feed.Article{ID: "abc123"})
	require.NoError(t, err)
	assert.False(t, saved, "a second toggle removes the article")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListSaved(t *testing.T) {
	store, mock := newMockStore(t)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"article_id", "title", "description", "url", "image_url",
		"published_at", "source_name", "provider", "category",
	}).AddRow("abc123", "Headline", "desc", "https://example.com/a", "", at, "Wire", "newsapi", "sports")
	mock.ExpectQuery("SELECT article_id, title").
		WithArgs("u1").
		WillReturnRows(rows)

	articles, err := store.Saved().List(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, "abc123", articles[0].ID)
	assert.Equal(t, "newsapi", articles[0].Provider)
	assert.NoError(t, mock.ExpectationsWereMet())
}
