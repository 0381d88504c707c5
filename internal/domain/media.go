package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MediaType is the coarse media-type hint supplied by the host with every
// search. Values match the common-play wire codes.
type MediaType int

const (
	MediaTypeGeneric     MediaType = 0
	MediaTypeAudio       MediaType = 1
	MediaTypeMusic       MediaType = 2
	MediaTypeVideo       MediaType = 4
	MediaTypeTV          MediaType = 10
	MediaTypeMovie       MediaType = 11
	MediaTypeDocumentary MediaType = 15
	MediaTypeShortFilm   MediaType = 17
	MediaTypeSilentMovie MediaType = 18
	MediaTypeCartoon     MediaType = 21
)

var mediaTypeNames = map[MediaType]string{
	MediaTypeGeneric:     "generic",
	MediaTypeAudio:       "audio",
	MediaTypeMusic:       "music",
	MediaTypeVideo:       "video",
	MediaTypeTV:          "tv",
	MediaTypeMovie:       "movie",
	MediaTypeDocumentary: "documentary",
	MediaTypeShortFilm:   "short_film",
	MediaTypeSilentMovie: "silent_movie",
	MediaTypeCartoon:     "cartoon",
}

// SupportedMediaTypes lists the hints the skill answers, in display order
func SupportedMediaTypes() []MediaType {
	return []MediaType{
		MediaTypeGeneric,
		MediaTypeMusic,
		MediaTypeAudio,
		MediaTypeMovie,
		MediaTypeShortFilm,
		MediaTypeSilentMovie,
		MediaTypeVideo,
		MediaTypeDocumentary,
		MediaTypeCartoon,
		MediaTypeTV,
	}
}

// String returns the lowercase name of the media type
func (m MediaType) String() string {
	if name, ok := mediaTypeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("media_type(%d)", int(m))
}

// Valid reports whether m is one of the known wire codes
func (m MediaType) Valid() bool {
	_, ok := mediaTypeNames[m]
	return ok
}

// ParseMediaType accepts a name ("music", "short-film") or a numeric wire code.
// An empty string is Generic.
func ParseMediaType(s string) (MediaType, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return MediaTypeGeneric, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if !MediaType(n).Valid() {
			return MediaTypeGeneric, fmt.Errorf("unknown media type code %d", n)
		}
		return MediaType(n), nil
	}
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	for mt, name := range mediaTypeNames {
		if name == s {
			return mt, nil
		}
	}
	return MediaTypeGeneric, fmt.Errorf("unknown media type %q", s)
}

// PlaybackType tells the host which player handles a result
type PlaybackType int

const (
	PlaybackTypeSkill PlaybackType = 0
	PlaybackTypeVideo PlaybackType = 1
	PlaybackTypeAudio PlaybackType = 2
)

// String returns a human-readable representation of the playback type
func (p PlaybackType) String() string {
	switch p {
	case PlaybackTypeVideo:
		return "video"
	case PlaybackTypeAudio:
		return "audio"
	case PlaybackTypeSkill:
		return "skill"
	default:
		return "unknown"
	}
}

// Category is one of the three library section groups the catalog keeps.
type Category int

const (
	CategoryMusic Category = iota
	CategoryMovies
	CategoryShows
)

// Categories returns every category in search order
func Categories() []Category {
	return []Category{CategoryMusic, CategoryMovies, CategoryShows}
}

func (c Category) String() string {
	switch c {
	case CategoryMusic:
		return "music"
	case CategoryMovies:
		return "movies"
	case CategoryShows:
		return "shows"
	default:
		return "unknown"
	}
}

// LeafKind is the only item kind that may appear in a category's results
func (c Category) LeafKind() ItemKind {
	switch c {
	case CategoryMusic:
		return ItemKindTrack
	case CategoryMovies:
		return ItemKindMovie
	case CategoryShows:
		return ItemKindEpisode
	default:
		return ItemKindUnknown
	}
}

// Expands reports whether an item of the given kind is a container whose
// leaves belong to this category (Artist/Album for music, Show/Season for shows).
func (c Category) Expands(kind ItemKind) bool {
	switch c {
	case CategoryMusic:
		return kind == ItemKindArtist || kind == ItemKindAlbum
	case CategoryShows:
		return kind == ItemKindShow || kind == ItemKindSeason
	default:
		return false
	}
}

// Playback returns how results of this category are played
func (c Category) Playback() PlaybackType {
	if c == CategoryMusic {
		return PlaybackTypeAudio
	}
	return PlaybackTypeVideo
}

// CategoryForSectionType maps a server section type to a category.
// Returns false for section types the skill does not search (photos, etc).
func CategoryForSectionType(sectionType string) (Category, bool) {
	switch sectionType {
	case "movie":
		return CategoryMovies, true
	case "show":
		return CategoryShows, true
	case "artist":
		return CategoryMusic, true
	default:
		return 0, false
	}
}
