package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/plexskill/internal/domain"
)

// ConnectFunc builds a catalog from scratch
type ConnectFunc func(ctx context.Context) (*Catalog, error)

// Provider builds the catalog on first use and holds it for its lifetime.
// A failed build is not kept, so the next Get tries again.
type Provider struct {
	connect ConnectFunc
	logger  *slog.Logger

	mu      sync.Mutex
	catalog *Catalog
}

// NewProvider creates a provider around connect
func NewProvider(connect ConnectFunc, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{connect: connect, logger: logger}
}

// Static returns a provider that always yields c
func Static(c *Catalog) *Provider {
	return &Provider{catalog: c, logger: slog.Default()}
}

// Get returns the catalog, building it if needed
func (p *Provider) Get(ctx context.Context) (*Catalog, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.catalog != nil {
		return p.catalog, nil
	}

	p.logger.Info("bootstrapping catalog")
	c, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}
	p.catalog = c
	return c, nil
}

// Loaded reports whether the catalog has been built
func (p *Provider) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.catalog != nil
}

// FromSettings returns a ConnectFunc that reads the token from settings and
// connects through the account returned by newAccount
func FromSettings(settings domain.Settings, newAccount func(token string) domain.Account, logger *slog.Logger) ConnectFunc {
	return func(ctx context.Context) (*Catalog, error) {
		token, ok := settings.Get(domain.SettingToken)
		if !ok || strings.TrimSpace(token) == "" {
			return nil, domain.ErrNoToken
		}
		return Connect(ctx, newAccount(token), logger)
	}
}
