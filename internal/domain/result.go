package domain

// SearchResult is one playable entry handed to the host
type SearchResult struct {
	Image           string       `json:"image"`
	BgImage         string       `json:"bg_image"`
	URI             string       `json:"uri"`
	Title           string       `json:"title"`
	Album           string       `json:"album"`
	Artist          string       `json:"artist"`
	Length          int64        `json:"length"` // milliseconds
	MediaType       MediaType    `json:"media_type"`
	Playback        PlaybackType `json:"playback"`
	MatchConfidence int          `json:"match_confidence"`
	SkillID         string       `json:"skill_id,omitempty"`
}

// Batch bundles one category's results with its best representative
type Batch struct {
	MediaType       MediaType      `json:"media_type"`
	Playback        PlaybackType   `json:"playback"`
	Image           string         `json:"image"`
	SkillIcon       string         `json:"skill_icon"`
	BgImage         string         `json:"bg_image"`
	Title           string         `json:"title"`
	Playlist        []SearchResult `json:"playlist"`
	MatchConfidence int            `json:"match_confidence"`
	SkillID         string         `json:"skill_id,omitempty"`

	// Category is not part of the wire record
	Category Category `json:"-"`
}
