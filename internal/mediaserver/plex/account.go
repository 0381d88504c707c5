package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/plexskill/internal/domain"
)

const (
	// DefaultAccountURL is the plex.tv account service
	DefaultAccountURL = "https://plex.tv"

	resourcesEndpoint = "/api/v2/resources?includeHttps=1&includeRelay=1"
	connectTimeout    = 10 * time.Second
)

// AccountClient talks to the plex.tv account service with a user token.
// It implements domain.Account.
type AccountClient struct {
	baseURL    string
	token      string
	info       ClientInfo
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAccountClient creates an account client. An empty baseURL uses plex.tv.
func NewAccountClient(baseURL, token string, info ClientInfo, logger *slog.Logger) *AccountClient {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultAccountURL
	}
	return &AccountClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		info:    info.withDefaults(),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Resources returns every device visible to the account
func (a *AccountClient) Resources(ctx context.Context) ([]domain.Resource, error) {
	if strings.TrimSpace(a.token) == "" {
		return nil, domain.ErrNoToken
	}

	reqURL := a.baseURL + resourcesEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	applyHeaders(req, a.info, a.token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("resources request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrAuthFailed
	}

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("resources request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var raw []ServerResource
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse resources response: %w", err)
	}

	return MapResources(raw), nil
}

// Connect probes the resource's connections in preference order and returns
// a client bound to the first one that answers /identity
func (a *AccountClient) Connect(ctx context.Context, res domain.Resource) (domain.Server, error) {
	token := res.AccessToken
	if token == "" {
		token = a.token
	}

	conns := orderConnections(res.Connections)
	if len(conns) == 0 {
		return nil, fmt.Errorf("%w: %s has no connections", domain.ErrServerOffline, res.Name)
	}

	var errs []error
	for _, conn := range conns {
		client := NewClient(conn.URI, token, a.info, a.logger)
		client.name = res.Name

		probeCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err := client.FetchIdentity(probeCtx)
		cancel()
		if err == nil {
			a.logger.Info("connected to server", "server", res.Name, "uri", conn.URI, "local", conn.Local, "relay", conn.Relay)
			return client, nil
		}

		a.logger.Debug("connection attempt failed", "server", res.Name, "uri", conn.URI, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", conn.URI, err))
		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("%w: %s: %w", domain.ErrServerOffline, res.Name, errors.Join(errs...))
}

// MapResources converts plex.tv resources to domain resources
func MapResources(raw []ServerResource) []domain.Resource {
	resources := make([]domain.Resource, 0, len(raw))
	for _, r := range raw {
		res := domain.Resource{
			Name:             r.Name,
			ClientIdentifier: r.ClientIdentifier,
			Product:          r.Product,
			Presence:         r.Presence,
			Owned:            r.Owned,
			AccessToken:      r.AccessToken,
		}
		for _, p := range strings.Split(r.Provides, ",") {
			if p = strings.TrimSpace(p); p != "" {
				res.Provides = append(res.Provides, p)
			}
		}
		for _, c := range r.Connections {
			res.Connections = append(res.Connections, domain.Connection{
				Protocol: c.Protocol,
				Address:  c.Address,
				Port:     c.Port,
				URI:      c.URI,
				Local:    c.Local,
				Relay:    c.Relay,
			})
		}
		resources = append(resources, res)
	}
	return resources
}

// orderConnections sorts connections best first: https, plex.direct
// hostnames and local addresses are preferred, relays are a last resort
func orderConnections(connections []domain.Connection) []domain.Connection {
	ordered := make([]domain.Connection, 0, len(connections))
	for _, c := range connections {
		c.URI = strings.TrimRight(strings.TrimSpace(c.URI), "/")
		if c.URI == "" {
			continue
		}
		ordered = append(ordered, c)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return connectionScore(ordered[i]) > connectionScore(ordered[j])
	})
	return ordered
}

func connectionScore(conn domain.Connection) int {
	score := 0
	protocol := strings.ToLower(strings.TrimSpace(conn.Protocol))
	if protocol == "https" {
		score += 50
	} else if protocol != "" {
		score -= 10
	}

	if strings.Contains(conn.URI, ".plex.direct") {
		score += 30
	}

	if conn.Local {
		score += 5
	}
	if conn.Relay {
		score -= 40
	}
	return score
}
