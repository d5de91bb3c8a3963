// Package rank orders deduplicated articles for delivery.
package rank

import (
	"sort"

	"newshub/internal/feed"
)

// Order sorts articles by publication time, most recent first, and
// truncates to pageSize. The sort is stable so ties keep their
// insertion order. pageSize <= 0 means no truncation.
func Order(articles []feed.Article, pageSize int) []feed.Article {
	out := make([]feed.Article, len(articles))
	copy(out, articles)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})

	if pageSize > 0 && len(out) > pageSize {
		out = out[:pageSize]
	}
	return out
}
