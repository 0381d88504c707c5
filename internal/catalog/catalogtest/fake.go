// Package catalogtest provides in-memory accounts, servers and sections for
// tests that exercise the catalog without a media server.
package catalogtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mmcdole/plexskill/internal/domain"
)

// Section is a library section with canned hub search results
type Section struct {
	SectionInfo domain.SectionInfo
	Results     []domain.MediaItem
	Err         error

	mu      sync.Mutex
	queries []string
}

func (s *Section) Info() domain.SectionInfo { return s.SectionInfo }

func (s *Section) HubSearch(ctx context.Context, query string) ([]domain.MediaItem, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	return s.Results, nil
}

// Queries returns every query the section was searched with
func (s *Section) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// Server is a connected server with fixed sections and container children
type Server struct {
	ServerName  string
	BaseURL     string
	Token       string
	SectionList []*Section
	SectionsErr error

	// Children maps a container ID to its leaves
	Children map[string][]domain.MediaItem
}

func (s *Server) Name() string { return s.ServerName }

func (s *Server) Sections(ctx context.Context) ([]domain.Section, error) {
	if s.SectionsErr != nil {
		return nil, s.SectionsErr
	}
	out := make([]domain.Section, 0, len(s.SectionList))
	for _, sec := range s.SectionList {
		out = append(out, sec)
	}
	return out, nil
}

func (s *Server) Leaves(ctx context.Context, item domain.MediaItem) ([]domain.MediaItem, error) {
	if item.Kind.IsLeaf() {
		return []domain.MediaItem{item}, nil
	}
	children, ok := s.Children[item.ID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return children, nil
}

func (s *Server) StreamURL(item domain.MediaItem) (string, error) {
	if !item.Kind.IsLeaf() {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedItem, item.Kind)
	}
	return fmt.Sprintf("%s/stream/%s?X-Plex-Token=%s", s.BaseURL, item.ID, s.Token), nil
}

func (s *Server) ResourceURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http") {
		return path
	}
	return s.BaseURL + path + "?X-Plex-Token=" + s.Token
}

// Account lists resources and connects to the servers registered by name
type Account struct {
	ResourceList []domain.Resource
	ResourcesErr error

	// Servers maps a resource name to the server Connect returns. A missing
	// name fails to connect.
	Servers map[string]domain.Server

	mu        sync.Mutex
	connected []string
}

func (a *Account) Resources(ctx context.Context) ([]domain.Resource, error) {
	if a.ResourcesErr != nil {
		return nil, a.ResourcesErr
	}
	return a.ResourceList, nil
}

func (a *Account) Connect(ctx context.Context, res domain.Resource) (domain.Server, error) {
	a.mu.Lock()
	a.connected = append(a.connected, res.Name)
	a.mu.Unlock()

	srv, ok := a.Servers[res.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrServerOffline, res.Name)
	}
	return srv, nil
}

// Connected returns the names of every resource Connect was called for
func (a *Account) Connected() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.connected...)
}

// ServerResource returns a present resource that provides "server"
func ServerResource(name string) domain.Resource {
	return domain.Resource{Name: name, Provides: []string{"server"}, Presence: true}
}

// Settings is a map-backed domain.Settings
type Settings struct {
	mu     sync.Mutex
	values map[string]string
}

func NewSettings(kv ...string) *Settings {
	s := &Settings{values: make(map[string]string)}
	for i := 0; i+1 < len(kv); i += 2 {
		s.values[kv[i]] = kv[i+1]
	}
	return s
}

func (s *Settings) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Settings) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
