package dedup

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/feed"
)

func article(id, title, description string) feed.Article {
	return feed.Article{
		ID:          id,
		Title:       title,
		Description: description,
		PublishedAt: time.Now(),
	}
}

func TestCollapseNearDuplicateTitles(t *testing.T) {
	in := []feed.Article{
		article("a1", "PM announces new policy", "short"),
		article("a2", "PM announces new policy today", "a much longer description of the policy"),
	}

	out := Collapse(in, DefaultThreshold)

	require.Len(t, out, 1)
	assert.Equal(t, "a much longer description of the policy", out[0].Description,
		"the more informative copy must survive")
}

func TestCollapseExactIDDuplicates(t *testing.T) {
	in := []feed.Article{
		article("same", "One story", "x"),
		article("same", "One story", "x"),
		article("other", "A completely different story about football transfers", "y"),
	}

	out := Collapse(in, DefaultThreshold)
	assert.Len(t, out, 2)
}

func TestCollapseKeepsDistinctStories(t *testing.T) {
	in := []feed.Article{
		article("a1", "Markets rally on rate cut hopes", ""),
		article("a2", "Cyclone warning issued for coastal districts", ""),
		article("a3", "Champions League final ends in penalties", ""),
	}

	out := Collapse(in, DefaultThreshold)
	assert.Len(t, out, 3)
}

func TestCollapseNoSurvivingPairAboveThreshold(t *testing.T) {
	in := []feed.Article{
		article("a1", "Election results declared in five states", "d1"),
		article("a2", "Election results declared in five states today", "d2"),
		article("a3", "Results declared in five states", "d3"),
		article("a4", "Budget session begins next week", "d4"),
		article("a5", "Budget session set to begin next week", "d5"),
	}

	out := Collapse(in, DefaultThreshold)

	for i := range out {
		for j := i + 1; j < len(out); j++ {
			a := tokenize(out[i].Title)
			b := tokenize(out[j].Title)
			score := dice(a, b)
			assert.Less(t, score, DefaultThreshold,
				"surviving pair %q / %q scored %.2f", out[i].Title, out[j].Title, score)
		}
	}
}

func TestCollapseIDsUnchanged(t *testing.T) {
	in := []feed.Article{
		article("a1", "Some headline about cricket", ""),
		article("a2", "Another story on the economy", ""),
	}

	out := Collapse(in, DefaultThreshold)

	seen := map[string]bool{}
	for _, a := range in {
		seen[a.ID] = true
	}
	for _, a := range out {
		assert.True(t, seen[a.ID], "output id %q was not in the input", a.ID)
	}
}

func TestCollapseCaseAndPunctuationInsensitive(t *testing.T) {
	in := []feed.Article{
		article("a1", "Tech Giant Launches Flagship Phone!", "d1"),
		article("a2", "tech giant launches flagship phone", "d2 longer"),
	}

	out := Collapse(in, DefaultThreshold)
	require.Len(t, out, 1)
}

func TestCollapseEmptyInput(t *testing.T) {
	assert.Empty(t, Collapse(nil, DefaultThreshold))
}

func TestDice(t *testing.T) {
	a := tokenize("one two three four")
	b := tokenize("one two three five")
	assert.InDelta(t, 0.75, dice(a, b), 1e-9)

	assert.Equal(t, 1.0, dice(a, a))
	assert.Equal(t, 0.0, dice(a, tokenize("")))
}

func BenchmarkCollapse(b *testing.B) {
	in := make([]feed.Article, 200)
	for i := range in {
		in[i] = article(
			fmt.Sprintf("id-%d", i),
			fmt.Sprintf("story number %d about topic %d", i, i%20),
			"",
		)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Collapse(in, DefaultThreshold)
	}
}
