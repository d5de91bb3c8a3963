// Package dedup collapses near-duplicate articles that different
// providers publish about the same event with slightly different
// headline wording.
package dedup

import (
	"strings"
	"unicode"

	"newshub/internal/feed"
)

// DefaultThreshold is the Dice similarity above which two titles are
// treated as the same story. Empirical; override via config.
const DefaultThreshold = 0.8

type kept struct {
	tokens  map[string]struct{}
	article feed.Article
}

// Collapse removes exact id duplicates and near-duplicate titles.
// When two articles collide, the one with the longer description wins.
// Output order is not guaranteed; the ranker re-sorts.
func Collapse(articles []feed.Article, threshold float64) []feed.Article {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	seenIDs := make(map[string]struct{}, len(articles))
	var entries []*kept

	for _, art := range articles {
		if art.ID != "" {
			if _, dup := seenIDs[art.ID]; dup {
				continue
			}
			seenIDs[art.ID] = struct{}{}
		}

		tokens := tokenize(art.Title)

		// Pairwise scan against everything kept so far. Batches are
		// small (tens to low hundreds), so O(n²) is fine here; bucket
		// by a coarse shingle first if batches ever grow.
		var best *kept
		bestScore := 0.0
		for _, k := range entries {
			if score := dice(tokens, k.tokens); score > bestScore {
				bestScore = score
				best = k
			}
		}

		if best != nil && bestScore >= threshold {
			// Same story. Keep whichever copy says more, under the
			// key of the article admitted first.
			if len(art.Description) > len(best.article.Description) {
				best.article = art
			}
			continue
		}

		entries = append(entries, &kept{tokens: tokens, article: art})
	}

	out := make([]feed.Article, 0, len(entries))
	for _, k := range entries {
		out = append(out, k.article)
	}
	return out
}

// tokenize lowercases a title, strips everything that is not a letter
// or digit and returns the resulting word set.
func tokenize(title string) map[string]struct{} {
	title = strings.ToLower(title)

	b := make([]rune, 0, len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b = append(b, r)
		} else {
			b = append(b, ' ')
		}
	}

	set := make(map[string]struct{})
	for _, w := range strings.Fields(string(b)) {
		set[w] = struct{}{}
	}
	return set
}

// dice is the Dice coefficient over two token sets:
// 2*|A∩B| / (|A|+|B|).
func dice(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for w := range small {
		if _, ok := large[w]; ok {
			inter++
		}
	}
	return 2 * float64(inter) / float64(len(a)+len(b))
}
