package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/plexskill/internal/domain"
)

// Section is a library section tagged with its category and the index of
// the server that owns it. The index resolves server-relative URLs later.
type Section struct {
	ServerIndex int
	Category    domain.Category
	Info        domain.SectionInfo
	Handle      domain.Section
}

// Catalog holds the reachable servers and their sections partitioned by
// category. It is built once and never refreshed.
type Catalog struct {
	servers  []domain.Server
	sections map[domain.Category][]Section
}

// Empty returns a catalog with no servers and three empty categories
func Empty() *Catalog {
	return &Catalog{sections: make(map[domain.Category][]Section)}
}

// Connect authenticates with the account, connects to every present
// resource that provides "server" and classifies each server's sections.
//
// Account failures are returned. A server that cannot be reached or cannot
// list its sections is logged and left out.
func Connect(ctx context.Context, account domain.Account, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	resources, err := account.Resources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	c := Empty()
	for _, res := range resources {
		if !res.ProvidesServer() {
			continue
		}
		if !res.Presence {
			logger.Info("skipping offline server", "server", res.Name)
			continue
		}

		srv, err := account.Connect(ctx, res)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("server unreachable", "server", res.Name, "error", err)
			continue
		}

		sections, err := srv.Sections(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrAuthFailed) {
				logger.Warn("server rejected token", "server", res.Name)
			} else {
				logger.Warn("failed to list sections", "server", res.Name, "error", err)
			}
			continue
		}

		idx := len(c.servers)
		c.servers = append(c.servers, srv)
		c.add(idx, sections)
	}

	logger.Info("catalog built",
		"servers", len(c.servers),
		"music", len(c.sections[domain.CategoryMusic]),
		"movies", len(c.sections[domain.CategoryMovies]),
		"shows", len(c.sections[domain.CategoryShows]))

	return c, nil
}

// FromServers builds a catalog from already connected servers
func FromServers(ctx context.Context, servers []domain.Server) (*Catalog, error) {
	c := Empty()
	for _, srv := range servers {
		sections, err := srv.Sections(ctx)
		if err != nil {
			return nil, fmt.Errorf("list sections on %s: %w", srv.Name(), err)
		}
		idx := len(c.servers)
		c.servers = append(c.servers, srv)
		c.add(idx, sections)
	}
	return c, nil
}

func (c *Catalog) add(serverIndex int, sections []domain.Section) {
	for _, s := range sections {
		info := s.Info()
		category, ok := domain.CategoryForSectionType(info.Type)
		if !ok {
			continue
		}
		c.sections[category] = append(c.sections[category], Section{
			ServerIndex: serverIndex,
			Category:    category,
			Info:        info,
			Handle:      s,
		})
	}
}

// Sections returns the sections of one category in discovery order
func (c *Catalog) Sections(category domain.Category) []Section {
	return c.sections[category]
}

// Server returns the server at idx, or nil when out of range
func (c *Catalog) Server(idx int) domain.Server {
	if idx < 0 || idx >= len(c.servers) {
		return nil
	}
	return c.servers[idx]
}

// Servers returns every connected server
func (c *Catalog) Servers() []domain.Server {
	return c.servers
}
