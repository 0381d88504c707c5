package plex

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/plexskill/internal/domain"
)

// MapSections converts Plex directories to domain section info
func MapSections(dirs []Directory) []domain.SectionInfo {
	sections := make([]domain.SectionInfo, 0, len(dirs))
	for _, d := range dirs {
		if d.Key == "" {
			continue
		}
		sections = append(sections, domain.SectionInfo{
			ID:        d.Key,
			Title:     d.Title,
			Type:      d.Type,
			UpdatedAt: d.ContentChangedAt,
		})
	}
	return sections
}

// MapItems converts Plex metadata to domain media items, skipping kinds
// the skill does not know about (clips, photos, collections)
func MapItems(metadata []Metadata) []domain.MediaItem {
	items := make([]domain.MediaItem, 0, len(metadata))
	for _, m := range metadata {
		item, ok := MapItem(m)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

// MapItem converts a single Plex metadata entry to a domain media item
func MapItem(m Metadata) (domain.MediaItem, bool) {
	kind := domain.ParseItemKind(m.Type)
	if kind == domain.ItemKindUnknown {
		return domain.MediaItem{}, false
	}

	item := domain.MediaItem{
		ID:                   m.RatingKey,
		Key:                  m.Key,
		Kind:                 kind,
		Title:                m.Title,
		ParentTitle:          m.ParentTitle,
		GrandparentTitle:     m.GrandparentTitle,
		Index:                m.Index,
		ParentIndex:          m.ParentIndex,
		Year:                 m.Year,
		Duration:             time.Duration(m.Duration) * time.Millisecond,
		ThumbPath:            m.Thumb,
		ArtPath:              m.Art,
		ParentThumbPath:      m.ParentThumb,
		GrandparentThumbPath: m.GrandparentThumb,
		GrandparentArtPath:   m.GrandparentArt,
	}
	if m.LibrarySectionID > 0 {
		item.SectionID = strconv.Itoa(m.LibrarySectionID)
	}

	// Hub results for containers carry a /children key; the metadata
	// path is always derivable from the ratingKey
	if item.Key == "" || strings.HasSuffix(item.Key, "/children") {
		item.Key = metadataPath(m.RatingKey)
	}

	for _, d := range m.Director {
		if tag := strings.TrimSpace(d.Tag); tag != "" {
			item.Directors = append(item.Directors, tag)
		}
	}

	return item, true
}

// flattenHubs merges hub groups into a single list, hub order first
func flattenHubs(hubs []Hub) []Metadata {
	var all []Metadata
	for _, h := range hubs {
		all = append(all, h.Metadata...)
		all = append(all, h.Directory...)
	}
	return all
}

func metadataPath(ratingKey string) string {
	if ratingKey == "" {
		return ""
	}
	return "/library/metadata/" + ratingKey
}
