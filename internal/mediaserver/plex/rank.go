package plex

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/plexskill/internal/domain"
)

// rankHubItems orders flattened hub results by how well their titles match
// the query. Hubs come back grouped by type, so without this an artist hub
// always outranks a better matching track hub. Ties keep hub order.
func rankHubItems(query string, items []domain.MediaItem) []domain.MediaItem {
	if len(items) < 2 {
		return items
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}

	scores := make([]int, len(items))
	for i, item := range items {
		scores[i] = matchScore(strings.ToLower(item.Title), query)
	}

	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] < scores[idx[b]]
	})

	ranked := make([]domain.MediaItem, len(items))
	for i, j := range idx {
		ranked[i] = items[j]
	}
	return ranked
}

// matchScore calculates a match score for ranking.
// Lower score = better match
func matchScore(title, query string) int {
	// Exact match is best
	if title == query {
		return 0
	}

	// Prefix match is very good
	if strings.HasPrefix(title, query) {
		return 10
	}

	// Contains match is good
	if strings.Contains(title, query) {
		return 50
	}

	// Every query rune appears in order
	if fuzzy.MatchNormalizedFold(query, title) {
		return 75
	}

	return 100 + fuzzy.LevenshteinDistance(query, title)
}
