package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"newshub/internal/feed"
	"newshub/internal/profile"
)

// Postgres implements HistoryStore and SavedStore on PostgreSQL.
type Postgres struct {
	db           *sql.DB
	historyLimit int
}

// NewPostgres wraps an existing connection. Used directly by tests.
func NewPostgres(db *sql.DB, historyLimit int) *Postgres {
	if historyLimit <= 0 {
		historyLimit = profile.MaxHistory
	}
	return &Postgres{db: db, historyLimit: historyLimit}
}

// OpenPostgres connects, verifies the connection and ensures the
// schema exists.
func OpenPostgres(ctx context.Context, dsn string, historyLimit int) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := NewPostgres(db, historyLimit)
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

func (p *Postgres) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS reading_history (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		url TEXT,
		title TEXT,
		category VARCHAR(50),
		topic VARCHAR(100),
		clicked_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_reading_history_user ON reading_history(user_id, id);

	CREATE TABLE IF NOT EXISTS saved_articles (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		article_id VARCHAR(64) NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		url TEXT,
		image_url TEXT,
		published_at TIMESTAMP,
		source_name TEXT,
		provider VARCHAR(50),
		category VARCHAR(50),
		saved_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, article_id)
	);
	`

	_, err := p.db.ExecContext(ctx, schema)
	return err
}

// Append records one reading event, then trims the log back to the
// history limit, oldest rows first.
func (p *Postgres) Append(ctx context.Context, userID string, ev profile.ReadingEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO reading_history (user_id, url, title, category, topic, clicked_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, ev.URL, ev.Title, ev.Category, ev.Topic, at)
	if err != nil {
		return fmt.Errorf("append reading event: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `
		DELETE FROM reading_history
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM reading_history
			WHERE user_id = $1 ORDER BY id DESC LIMIT $2
		)`,
		userID, p.historyLimit)
	if err != nil {
		return fmt.Errorf("trim reading history: %w", err)
	}
	return nil
}

// List returns the user's history oldest first.
func (p *Postgres) List(ctx context.Context, userID string) ([]profile.ReadingEvent, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT url, title, category, topic, clicked_at
		FROM reading_history
		WHERE user_id = $1 ORDER BY id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list reading history: %w", err)
	}
	defer rows.Close()

	var events []profile.ReadingEvent
	for rows.Next() {
		var ev profile.ReadingEvent
		if err := rows.Scan(&ev.URL, &ev.Title, &ev.Category, &ev.Topic, &ev.At); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Toggle saves the article for the user, or removes it when already
// saved. Returns the resulting saved state.
func (p *Postgres) Toggle(ctx context.Context, userID string, art feed.Article) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		DELETE FROM saved_articles WHERE user_id = $1 AND article_id = $2`,
		userID, art.ID)
	if err != nil {
		return false, fmt.Errorf("unsave article: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO saved_articles
			(user_id, article_id, title, description, url, image_url, published_at, source_name, provider, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, article_id) DO NOTHING`,
		userID, art.ID, art.Title, art.Description, art.URL, art.ImageURL,
		art.PublishedAt, art.SourceName, art.Provider, art.Category)
	if err != nil {
		return false, fmt.Errorf("save article: %w", err)
	}
	return true, nil
}

// Saved returns a SavedStore view of this store. HistoryStore already
// claims the List method name on Postgres itself.
func (p *Postgres) Saved() SavedStore { return (*postgresSaved)(p) }

// History returns a HistoryStore view of this store.
func (p *Postgres) History() HistoryStore { return p }

type postgresSaved Postgres

func (p *postgresSaved) Toggle(ctx context.Context, userID string, art feed.Article) (bool, error) {
	return (*Postgres)(p).Toggle(ctx, userID, art)
}

func (p *postgresSaved) List(ctx context.Context, userID string) ([]feed.Article, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT article_id, title, description, url, image_url, published_at, source_name, provider, category
		FROM saved_articles
		WHERE user_id = $1 ORDER BY saved_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list saved articles: %w", err)
	}
	defer rows.Close()

	var articles []feed.Article
	for rows.Next() {
		var art feed.Article
		if err := rows.Scan(&art.ID, &art.Title, &art.Description, &art.URL, &art.ImageURL,
			&art.PublishedAt, &art.SourceName, &art.Provider, &art.Category); err != nil {
			return nil, err
		}
		articles = append(articles, art)
	}
	return articles, rows.Err()
}

// Close closes the underlying connection.
func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
