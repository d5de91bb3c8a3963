package source

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/feed"
)

const rssPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Monsoon arrives early this year</title>
      <link>https://example.com/monsoon</link>
      <description>Rains hit the coast a week ahead of schedule.</description>
      <pubDate>Mon, 02 Jun 2025 08:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Local team wins the derby</title>
      <link>https://example.com/derby</link>
      <description>Late goal settles it.</description>
      <pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRSSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssPayload))
	}))
	defer srv.Close()

	s := NewRSS([]FeedSource{{URL: srv.URL, Name: "Test Feed", Category: "general"}}, testLogger())

	articles, err := s.Fetch(context.Background(), feed.SourceQuery{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, articles, 2)

	a := articles[0]
	assert.Equal(t, "Monsoon arrives early this year", a.Title)
	assert.Equal(t, "https://example.com/monsoon", a.URL)
	assert.Equal(t, "Test Feed", a.SourceName)
	assert.Equal(t, "rss", a.Provider)
	assert.Equal(t, "general", a.Category)
	assert.NotEmpty(t, a.ID)
}

func TestRSSFetchSkipsBrokenFeed(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rssPayload))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	s := NewRSS([]FeedSource{
		{URL: bad.URL, Name: "Broken"},
		{URL: good.URL, Name: "Working"},
	}, testLogger())

	articles, err := s.Fetch(context.Background(), feed.SourceQuery{PageSize: 10})
	require.NoError(t, err, "one working feed is enough")
	assert.Len(t, articles, 2)
}

func TestRSSFetchAllFeedsFailed(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	s := NewRSS([]FeedSource{{URL: bad.URL, Name: "Broken"}}, testLogger())

	_, err := s.Fetch(context.Background(), feed.SourceQuery{PageSize: 10})
	assert.Error(t, err)
}

func TestRSSFetchCategoryFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rssPayload))
	}))
	defer srv.Close()

	s := NewRSS([]FeedSource{
		{URL: srv.URL, Name: "Sports Feed", Category: "sports"},
		{URL: srv.URL, Name: "Tech Feed", Category: "technology"},
	}, testLogger())

	articles, err := s.Fetch(context.Background(), feed.SourceQuery{Category: "Sports", PageSize: 10})
	require.NoError(t, err)
	for _, a := range articles {
		assert.Equal(t, "Sports Feed", a.SourceName)
	}
	assert.Len(t, articles, 2)
}

func TestRSSFetchPageSizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rssPayload))
	}))
	defer srv.Close()

	s := NewRSS([]FeedSource{{URL: srv.URL, Name: "Test Feed"}}, testLogger())

	articles, err := s.Fetch(context.Background(), feed.SourceQuery{PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}
