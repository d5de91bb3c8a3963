package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/feed"
)

func TestOrderMostRecentFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in := []feed.Article{
		{ID: "old", PublishedAt: base},
		{ID: "newest", PublishedAt: base.Add(2 * time.Hour)},
		{ID: "mid", PublishedAt: base.Add(time.Hour)},
	}

	out := Order(in, 0)

	require.Len(t, out, 3)
	assert.Equal(t, "newest", out[0].ID)
	assert.Equal(t, "mid", out[1].ID)
	assert.Equal(t, "old", out[2].ID)
}

func TestOrderStableOnTies(t *testing.T) {
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in := []feed.Article{
		{ID: "first", PublishedAt: at},
		{ID: "second", PublishedAt: at},
		{ID: "third", PublishedAt: at},
	}

	out := Order(in, 0)

	assert.Equal(t, "first", out[0].ID)
	assert.Equal(t, "second", out[1].ID)
	assert.Equal(t, "third", out[2].ID)
}

func TestOrderTruncates(t *testing.T) {
	base := time.Now()
	in := make([]feed.Article, 30)
	for i := range in {
		in[i] = feed.Article{PublishedAt: base.Add(time.Duration(i) * time.Minute)}
	}

	out := Order(in, 10)
	assert.Len(t, out, 10)
}

func TestOrderDoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in := []feed.Article{
		{ID: "a", PublishedAt: base},
		{ID: "b", PublishedAt: base.Add(time.Hour)},
	}

	_ = Order(in, 1)

	assert.Equal(t, "a", in[0].ID)
	assert.Equal(t, "b", in[1].ID)
}
