package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/feed"
)

func TestExtractKeywords(t *testing.T) {
	t.Run("drops stopwords and short tokens", func(t *testing.T) {
		got := ExtractKeywords("Breaking News Update on the Elections")
		assert.Equal(t, []string{"elections"}, got)
	})

	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		got := ExtractKeywords("India's GDP grows 7.8% in Q2!")
		assert.Contains(t, got, "india")
		assert.Contains(t, got, "gdp")
		assert.Contains(t, got, "grows")
		assert.NotContains(t, got, "in")
	})

	t.Run("empty title", func(t *testing.T) {
		assert.Empty(t, ExtractKeywords(""))
	})
}

func event(title, category string) ReadingEvent {
	return ReadingEvent{Title: title, Category: category, At: time.Now()}
}

func TestBuildCategoryRanking(t *testing.T) {
	history := []ReadingEvent{
		event("match report", "Sports"),
		event("transfer window", "Sports"),
		event("series decider", "Sports"),
		event("chip shortage", "Technology"),
	}

	p := Build(history, Options{})

	require.NotEmpty(t, p.TopCategories)
	assert.Equal(t, []string{"Sports", "Technology"}, p.TopCategories)
}

func TestBuildDefaultsCategory(t *testing.T) {
	history := []ReadingEvent{
		event("some headline", ""),
		event("another headline", ""),
	}

	p := Build(history, Options{})
	assert.Equal(t, []string{"General"}, p.TopCategories)
}

func TestBuildEmptyHistory(t *testing.T) {
	p := Build(nil, Options{})

	assert.NotNil(t, p.TopCategories)
	assert.NotNil(t, p.TopKeywords)
	assert.Empty(t, p.TopCategories)
	assert.Empty(t, p.TopKeywords)
}

func TestBuildKeywordCutoff(t *testing.T) {
	history := []ReadingEvent{
		event("alpha bravo charlie delta echo", "General"),
		event("alpha bravo charlie", "General"),
		event("alpha bravo", "General"),
	}

	p := Build(history, Options{TopKeywords: 2})

	assert.Equal(t, []string{"alpha", "bravo"}, p.TopKeywords)
}

func TestBuildTieBreakIsDeterministic(t *testing.T) {
	history := []ReadingEvent{
		event("x", "Business"),
		event("y", "Arts"),
	}

	for i := 0; i < 5; i++ {
		p := Build(history, Options{})
		assert.Equal(t, []string{"Arts", "Business"}, p.TopCategories)
	}
}

func TestBiasedQuery(t *testing.T) {
	base := feed.SourceQuery{Country: "in", Language: "en", PageSize: 10}

	t.Run("applies top category", func(t *testing.T) {
		p := InterestProfile{TopCategories: []string{"Sports", "Technology"}}
		q, ok := BiasedQuery(p, base)
		require.True(t, ok)
		assert.Equal(t, "Sports", q.Category)
		assert.Equal(t, "in", q.Country)
	})

	t.Run("empty profile reports no bias", func(t *testing.T) {
		q, ok := BiasedQuery(InterestProfile{}, base)
		assert.False(t, ok)
		assert.Equal(t, base, q)
	})
}
