package plex

// MediaContainer is the root container for Plex API responses
type MediaContainer struct {
	Size              int         `json:"size"`
	TotalSize         int         `json:"totalSize,omitempty"`
	Identifier        string      `json:"identifier,omitempty"`
	MachineIdentifier string      `json:"machineIdentifier,omitempty"`
	LibrarySectionID  int         `json:"librarySectionID,omitempty"`
	Directory         []Directory `json:"Directory,omitempty"`
	Metadata          []Metadata  `json:"Metadata,omitempty"`
	Hub               []Hub       `json:"Hub,omitempty"`
}

// Directory represents a library section
type Directory struct {
	Art              string `json:"art,omitempty"`
	Thumb            string `json:"thumb,omitempty"`
	Key              string `json:"key"`
	Type             string `json:"type"`
	Title            string `json:"title"`
	Agent            string `json:"agent,omitempty"`
	UpdatedAt        int64  `json:"updatedAt,omitempty"`
	ContentChangedAt int64  `json:"contentChangedAt,omitempty"`
}

// Hub is one typed group of hub search results.
// Plex returns container kinds (artists, shows) under Directory and
// leaf kinds under Metadata depending on server version, so both are read.
type Hub struct {
	HubIdentifier string     `json:"hubIdentifier"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Size          int        `json:"size"`
	Metadata      []Metadata `json:"Metadata,omitempty"`
	Directory     []Metadata `json:"Directory,omitempty"`
}

// Tag is a named person or label attached to metadata (director, genre)
type Tag struct {
	Tag string `json:"tag"`
}

// Metadata represents a media item (artist, album, track, movie, show, season or episode)
type Metadata struct {
	RatingKey            string `json:"ratingKey"`
	Key                  string `json:"key"`
	ParentRatingKey      string `json:"parentRatingKey,omitempty"`
	GrandparentRatingKey string `json:"grandparentRatingKey,omitempty"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	ParentTitle          string `json:"parentTitle,omitempty"`
	GrandparentTitle     string `json:"grandparentTitle,omitempty"`
	Index                int    `json:"index,omitempty"`
	ParentIndex          int    `json:"parentIndex,omitempty"`
	Year                 int    `json:"year,omitempty"`
	Thumb                string `json:"thumb,omitempty"`
	Art                  string `json:"art,omitempty"`
	ParentThumb          string `json:"parentThumb,omitempty"`
	GrandparentThumb     string `json:"grandparentThumb,omitempty"`
	GrandparentArt       string `json:"grandparentArt,omitempty"`
	Duration             int    `json:"duration,omitempty"`
	LibrarySectionID     int    `json:"librarySectionID,omitempty"`
	Director             []Tag  `json:"Director,omitempty"`
}

// APIResponse wraps the MediaContainer for JSON unmarshaling
type APIResponse struct {
	MediaContainer MediaContainer `json:"MediaContainer"`
}

// ServerResource represents a device from the plex.tv resources endpoint
type ServerResource struct {
	Name             string               `json:"name"`
	Product          string               `json:"product"`
	ProductVersion   string               `json:"productVersion"`
	Platform         string               `json:"platform"`
	ClientIdentifier string               `json:"clientIdentifier"`
	Provides         string               `json:"provides"`
	Owned            bool                 `json:"owned"`
	Presence         bool                 `json:"presence"`
	AccessToken      string               `json:"accessToken"`
	Connections      []ResourceConnection `json:"connections"`
}

// ResourceConnection represents a server connection option
type ResourceConnection struct {
	Protocol string `json:"protocol"`
	Address  string `json:"address"`
	Port     int    `json:"port"`
	URI      string `json:"uri"`
	Local    bool   `json:"local"`
	Relay    bool   `json:"relay"`
	IPv6     bool   `json:"IPv6"`
}

// PINResponse represents the response from PIN generation
type PINResponse struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	Product   string `json:"product"`
	Trusted   bool   `json:"trusted"`
	ClientID  string `json:"clientIdentifier"`
	AuthToken string `json:"authToken,omitempty"`
	ExpiresAt string `json:"expiresAt"`
}

// PINCheckResponse represents the response from PIN check
type PINCheckResponse struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	AuthToken string `json:"authToken"`
	ExpiresAt string `json:"expiresAt"`
}

// UserResponse represents the authenticated account
type UserResponse struct {
	ID       int    `json:"id"`
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Title    string `json:"title"`
}
