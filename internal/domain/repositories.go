package domain

import "context"

// Account is the remote account service reached with an access token
type Account interface {
	// Resources lists every device visible to the account
	Resources(ctx context.Context) ([]Resource, error)

	// Connect opens a connection to a resource, trying its addresses in
	// preference order
	Connect(ctx context.Context, res Resource) (Server, error)
}

// Server is a live connection to one media server
type Server interface {
	Name() string

	// Sections lists the library sections hosted by the server
	Sections(ctx context.Context) ([]Section, error)

	// Leaves expands a container (artist, album, show, season) to its
	// playable children
	Leaves(ctx context.Context, item MediaItem) ([]MediaItem, error)

	// StreamURL builds a streamable, token-bearing URL for a leaf item
	StreamURL(item MediaItem) (string, error)

	// ResourceURL resolves a server-relative path (thumb, art) to an
	// absolute URL. Returns "" for an empty path.
	ResourceURL(path string) string
}

// Section is one library section on a server
type Section interface {
	Info() SectionInfo

	// HubSearch runs the server's fuzzy search scoped to this section and
	// returns a small ranked list of heterogeneous items
	HubSearch(ctx context.Context, query string) ([]MediaItem, error)
}

// Settings is the host-owned key/value settings mapping
type Settings interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Settings keys
const (
	SettingToken    = "token"
	SettingClientID = "client_id"
)
