// Package profile derives a user's interest profile from their reading
// history and turns it into a biased source query. The profile has no
// lifecycle of its own: it is recomputed from the event log on demand
// and discarded with the request.
package profile

import (
	"sort"
	"strings"
	"time"

	"newshub/internal/feed"
)

// MaxHistory is the default cap on retained reading events; stores
// evict the oldest event first once the cap is reached.
const MaxHistory = 200

// ReadingEvent records one article click.
type ReadingEvent struct {
	URL      string    `json:"url,omitempty"`
	Title    string    `json:"title,omitempty"`
	Category string    `json:"category,omitempty"`
	Topic    string    `json:"topic,omitempty"`
	At       time.Time `json:"at"`
}

// InterestProfile is the ranked summary of what a user reads.
type InterestProfile struct {
	TopCategories []string `json:"topCategories"`
	TopKeywords   []string `json:"topKeywords"`
}

// Options control the profile cutoffs. Zero values fall back to the
// defaults the service has always used.
type Options struct {
	TopCategories int // default 5
	TopKeywords   int // default 20
}

// stopwords are dropped from title keywords: articles, prepositions and
// generic news vocabulary that says nothing about interests.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {},
	"of": {}, "in": {}, "on": {}, "with": {}, "is": {}, "are": {},
	"this": {}, "that": {}, "to": {}, "from": {}, "at": {}, "by": {},
	"as": {}, "it": {}, "its": {}, "be": {}, "will": {}, "can": {},
	"into": {}, "new": {}, "latest": {}, "breaking": {}, "news": {},
	"update": {}, "updates": {},
}

// ExtractKeywords pulls interest keywords out of a headline: lowercase,
// strip punctuation, drop stopwords and tokens of two characters or
// fewer.
func ExtractKeywords(title string) []string {
	title = strings.ToLower(title)

	b := make([]rune, 0, len(title))
	for _, r := range title {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b = append(b, r)
		} else {
			b = append(b, ' ')
		}
	}

	var words []string
	for _, w := range strings.Fields(string(b)) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		words = append(words, w)
	}
	return words
}

// Build computes the interest profile from an immutable snapshot of the
// reading history. Empty history yields empty lists.
func Build(history []ReadingEvent, opt Options) InterestProfile {
	if opt.TopCategories <= 0 {
		opt.TopCategories = 5
	}
	if opt.TopKeywords <= 0 {
		opt.TopKeywords = 20
	}

	if len(history) == 0 {
		return InterestProfile{TopCategories: []string{}, TopKeywords: []string{}}
	}

	categoryCounts := make(map[string]int)
	keywordCounts := make(map[string]int)

	for _, ev := range history {
		cat := ev.Category
		if cat == "" {
			cat = "General"
		}
		categoryCounts[cat]++

		for _, kw := range ExtractKeywords(ev.Title) {
			keywordCounts[kw]++
		}
	}

	return InterestProfile{
		TopCategories: topN(categoryCounts, opt.TopCategories),
		TopKeywords:   topN(keywordCounts, opt.TopKeywords),
	}
}

// BiasedQuery copies base with the profile's top category as the
// primary filter. ok is false when there is no history to bias by; the
// caller should fall back to the plain main feed instead of issuing an
// empty personalized query.
func BiasedQuery(p InterestProfile, base feed.SourceQuery) (feed.SourceQuery, bool) {
	if len(p.TopCategories) == 0 {
		return base, false
	}
	q := base
	q.Category = p.TopCategories[0]
	return q, true
}

// topN ranks keys by count descending; name ascending breaks ties so
// output is deterministic.
func topN(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
