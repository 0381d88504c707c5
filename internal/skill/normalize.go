package skill

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/plexskill/internal/domain"
)

// selectLeaves turns one section's ranked hub results into the playable
// items of category. The top item decides: a container is expanded to all
// of its leaves, a leaf keeps every hub item of the category's leaf kind.
func selectLeaves(ctx context.Context, srv domain.Server, category domain.Category, items []domain.MediaItem) ([]domain.MediaItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	top := items[0]
	if category.Expands(top.Kind) {
		leaves, err := srv.Leaves(ctx, top)
		if err != nil {
			return nil, fmt.Errorf("expand %s %q: %w", top.Kind, top.Title, err)
		}
		return filterKind(leaves, category.LeafKind()), nil
	}

	return filterKind(items, category.LeafKind()), nil
}

func filterKind(items []domain.MediaItem, kind domain.ItemKind) []domain.MediaItem {
	kept := make([]domain.MediaItem, 0, len(items))
	for _, item := range items {
		if item.Kind == kind {
			kept = append(kept, item)
		}
	}
	return kept
}

// normalize maps a leaf item to the flat record handed to the host.
// Playback, media type and confidence are stamped by the caller.
func normalize(srv domain.Server, item domain.MediaItem) (domain.SearchResult, error) {
	uri, err := srv.StreamURL(item)
	if err != nil {
		return domain.SearchResult{}, err
	}

	image, bg := artwork(item)
	r := domain.SearchResult{
		Image:   srv.ResourceURL(image),
		BgImage: srv.ResourceURL(bg),
		URI:     uri,
		Title:   item.Title,
		Length:  item.Duration.Milliseconds(),
	}

	switch item.Kind {
	case domain.ItemKindTrack:
		r.Album = item.ParentTitle
		r.Artist = item.GrandparentTitle
	case domain.ItemKindMovie:
		r.Album = item.Title
		r.Artist = strings.Join(item.Directors, ", ")
	case domain.ItemKindEpisode:
		r.Title = item.EpisodeCode() + " - " + item.Title
		r.Album = item.GrandparentTitle + " - " + item.ParentTitle
		r.Artist = strings.Join(item.Directors, ", ")
	}

	return r, nil
}

// artwork picks the image and background paths for an item. Tracks and
// episodes without their own thumb fall back to the album or show artwork;
// the background falls back to the image.
func artwork(item domain.MediaItem) (image, bg string) {
	image = item.ThumbPath
	if image == "" {
		switch item.Kind {
		case domain.ItemKindTrack:
			image = firstNonEmpty(item.ParentThumbPath, item.GrandparentThumbPath)
		case domain.ItemKindEpisode:
			image = firstNonEmpty(item.GrandparentThumbPath, item.ParentThumbPath)
		}
	}

	bg = firstNonEmpty(item.ArtPath, item.GrandparentArtPath, image)
	return image, bg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
