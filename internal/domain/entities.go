package domain

import (
	"fmt"
	"strings"
	"time"
)

// ItemKind distinguishes the heterogeneous items a hub search returns
type ItemKind int

const (
	ItemKindUnknown ItemKind = iota
	ItemKindArtist
	ItemKindAlbum
	ItemKindTrack
	ItemKindShow
	ItemKindSeason
	ItemKindEpisode
	ItemKindMovie
)

// ParseItemKind maps a server metadata type ("artist", "episode") to a kind
func ParseItemKind(t string) ItemKind {
	switch strings.ToLower(t) {
	case "artist":
		return ItemKindArtist
	case "album":
		return ItemKindAlbum
	case "track":
		return ItemKindTrack
	case "show":
		return ItemKindShow
	case "season":
		return ItemKindSeason
	case "episode":
		return ItemKindEpisode
	case "movie":
		return ItemKindMovie
	default:
		return ItemKindUnknown
	}
}

func (k ItemKind) String() string {
	switch k {
	case ItemKindArtist:
		return "artist"
	case ItemKindAlbum:
		return "album"
	case ItemKindTrack:
		return "track"
	case ItemKindShow:
		return "show"
	case ItemKindSeason:
		return "season"
	case ItemKindEpisode:
		return "episode"
	case ItemKindMovie:
		return "movie"
	default:
		return "unknown"
	}
}

// IsLeaf returns true for directly playable kinds
func (k ItemKind) IsLeaf() bool {
	return k == ItemKindTrack || k == ItemKindEpisode || k == ItemKindMovie
}

// IsAudio returns true for kinds streamed through the audio transcoder
func (k ItemKind) IsAudio() bool {
	return k == ItemKindArtist || k == ItemKindAlbum || k == ItemKindTrack
}

// MediaItem is one entry of a hub search or a container expansion.
// Image paths are server-relative; the owning Server resolves them.
type MediaItem struct {
	ID   string   // ratingKey
	Key  string   // metadata path, e.g. /library/metadata/42
	Kind ItemKind // Artist, Album, Track, Show, Season, Episode or Movie

	Title            string
	ParentTitle      string // album for tracks, season for episodes
	GrandparentTitle string // artist for tracks, show for episodes
	Index            int    // track or episode number
	ParentIndex      int    // disc or season number
	Year             int
	Duration         time.Duration

	Directors []string

	ThumbPath            string
	ArtPath              string
	ParentThumbPath      string
	GrandparentThumbPath string
	GrandparentArtPath   string

	SectionID string
}

// EpisodeCode returns the formatted episode code (e.g., "S01E05")
func (m MediaItem) EpisodeCode() string {
	if m.Kind != ItemKindEpisode {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", m.ParentIndex, m.Index)
}

// SectionInfo describes a library section as reported by a server
type SectionInfo struct {
	ID        string // section key
	Title     string
	Type      string // "movie", "show", "artist", "photo"
	UpdatedAt int64
}

// Resource is an account-visible device returned by the account service
type Resource struct {
	Name             string
	ClientIdentifier string
	Product          string
	Provides         []string
	Presence         bool
	Owned            bool
	AccessToken      string
	Connections      []Connection
}

// ProvidesServer returns true when the resource advertises the "server" capability
func (r Resource) ProvidesServer() bool {
	for _, p := range r.Provides {
		if strings.EqualFold(strings.TrimSpace(p), "server") {
			return true
		}
	}
	return false
}

// Connection is one address a resource can be reached at
type Connection struct {
	Protocol string
	Address  string
	Port     int
	URI      string
	Local    bool
	Relay    bool
}
