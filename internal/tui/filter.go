package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/plexskill/internal/domain"
)

// filterPlaylist fuzzy-matches query against each result's title, album
// and artist. An empty query matches nothing so the caller shows the
// unfiltered playlist.
func filterPlaylist(query string, playlist []domain.SearchResult) fuzzy.Matches {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	targets := make([]string, len(playlist))
	for i, r := range playlist {
		targets[i] = strings.ToLower(filterText(r))
	}
	return fuzzy.Find(strings.ToLower(query), targets)
}

func filterText(r domain.SearchResult) string {
	parts := []string{r.Title}
	if r.Album != "" && r.Album != r.Title {
		parts = append(parts, r.Album)
	}
	if r.Artist != "" {
		parts = append(parts, r.Artist)
	}
	return strings.Join(parts, " · ")
}
