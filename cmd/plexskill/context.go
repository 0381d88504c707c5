package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/plexskill/internal/catalog"
	"github.com/mmcdole/plexskill/internal/config"
	"github.com/mmcdole/plexskill/internal/domain"
	"github.com/mmcdole/plexskill/internal/log"
	"github.com/mmcdole/plexskill/internal/mediaserver/plex"
	"github.com/mmcdole/plexskill/internal/skill"
	"github.com/mmcdole/plexskill/internal/store"
)

// commandContext lazily builds the pieces commands share
type commandContext struct {
	configDir string

	cfg      *config.Config
	logger   *slog.Logger
	settings *store.SettingsStore
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	var (
		cfg *config.Config
		err error
	)
	if c.configDir != "" {
		cfg, err = config.Load(c.configDir)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting plexskill", "version", Version)

	c.cfg = cfg
	c.logger = logger
	return cfg, nil
}

func (c *commandContext) openSettings() (*store.SettingsStore, error) {
	if c.settings != nil {
		return c.settings, nil
	}
	settings, err := store.NewSettingsStore(c.cfg.Settings.Path, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}
	c.settings = settings
	return settings, nil
}

func (c *commandContext) close() {
	if c.settings != nil {
		if err := c.settings.Close(); err != nil {
			c.logger.Warn("failed to close settings", "error", err)
		}
		c.settings = nil
	}
}

// clientInfo identifies this install, creating the client id on first use
func (c *commandContext) clientInfo(settings domain.Settings) (plex.ClientInfo, error) {
	clientID, err := store.ClientID(settings)
	if err != nil {
		return plex.ClientInfo{}, err
	}
	return plex.ClientInfo{
		Product:  c.cfg.Plex.Product,
		Version:  Version,
		ClientID: clientID,
	}, nil
}

// newProvider returns the lazily connected catalog. A configured server URL
// skips account discovery; otherwise servers come from the stored token.
func (c *commandContext) newProvider() (*catalog.Provider, error) {
	settings, err := c.openSettings()
	if err != nil {
		return nil, err
	}
	info, err := c.clientInfo(settings)
	if err != nil {
		return nil, err
	}

	var tokens domain.Settings = settings
	if c.cfg.Plex.Token != "" {
		tokens = tokenOverride{Settings: settings, token: c.cfg.Plex.Token}
	}

	cfg, logger := c.cfg, c.logger
	if !cfg.UsesDiscovery() {
		connect := func(ctx context.Context) (*catalog.Catalog, error) {
			token, _ := tokens.Get(domain.SettingToken)
			client := plex.NewClient(cfg.Plex.ServerURL, token, info, logger)
			if err := client.FetchIdentity(ctx); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", domain.ErrServerOffline, cfg.Plex.ServerURL, err)
			}
			return catalog.FromServers(ctx, []domain.Server{client})
		}
		return catalog.NewProvider(connect, logger), nil
	}

	newAccount := func(token string) domain.Account {
		return plex.NewAccountClient(cfg.Plex.AccountURL, token, info, logger)
	}
	return catalog.NewProvider(catalog.FromSettings(tokens, newAccount, logger), logger), nil
}

func (c *commandContext) newSearcher(provider *catalog.Provider, icon string) (*skill.Searcher, error) {
	vocab, err := skill.LoadVocabulary(c.cfg.Skill.Language)
	if err != nil {
		return nil, err
	}
	if c.cfg.Skill.Icon != "" {
		icon = c.cfg.Skill.Icon
	}
	return skill.NewSearcher(provider,
		skill.WithLogger(c.logger),
		skill.WithVocabulary(vocab),
		skill.WithSkillID(c.cfg.Skill.ID),
		skill.WithSkillIcon(icon),
	), nil
}

// tokenOverride serves a configured token in place of the stored one
type tokenOverride struct {
	domain.Settings
	token string
}

func (t tokenOverride) Get(key string) (string, bool) {
	if key == domain.SettingToken {
		return t.token, true
	}
	return t.Settings.Get(key)
}
