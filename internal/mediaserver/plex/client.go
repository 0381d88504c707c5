package plex

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/plexskill/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	defaultProduct = "PlexSkill"
	defaultVersion = "1.0"

	// hubSearchLimit caps items per hub, matching what Plex web asks for
	hubSearchLimit = 10
)

// ClientInfo identifies this application in X-Plex-* headers
type ClientInfo struct {
	Product  string
	Version  string
	ClientID string
	Platform string
}

func (i ClientInfo) withDefaults() ClientInfo {
	if i.Product == "" {
		i.Product = defaultProduct
	}
	if i.Version == "" {
		i.Version = defaultVersion
	}
	if i.ClientID == "" {
		i.ClientID = "plexskill"
	}
	if i.Platform == "" {
		i.Platform = runtime.GOOS
	}
	return i
}

func (i ClientInfo) userAgent() string {
	return i.Product + "/" + i.Version
}

// applyHeaders sets the identification headers every Plex endpoint expects
func applyHeaders(req *http.Request, info ClientInfo, token string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Client-Identifier", info.ClientID)
	req.Header.Set("X-Plex-Product", info.Product)
	req.Header.Set("X-Plex-Version", info.Version)
	req.Header.Set("X-Plex-Platform", info.Platform)
	req.Header.Set("X-Plex-Device-Name", info.Product)
	req.Header.Set("User-Agent", info.userAgent())
	if token != "" {
		req.Header.Set("X-Plex-Token", token)
	}
}

// Client is a connection to a single Plex Media Server.
// It implements domain.Server.
type Client struct {
	name              string
	baseURL           string
	token             string
	info              ClientInfo
	machineIdentifier string // fetched from /identity on connect
	httpClient        *http.Client
	logger            *slog.Logger
}

// NewClient creates a new Plex server client
func NewClient(baseURL, token string, info ClientInfo, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		name:    baseURL,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		info:    info.withDefaults(),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Name returns the server's friendly name, or its URL before identity is known
func (c *Client) Name() string { return c.name }

// BaseURL returns the address the client talks to
func (c *Client) BaseURL() string { return c.baseURL }

// MachineIdentifier returns the identifier fetched by FetchIdentity
func (c *Client) MachineIdentifier() string { return c.machineIdentifier }

// FetchIdentity probes /identity and stores the server's machineIdentifier.
// It doubles as the reachability check when connecting.
func (c *Client) FetchIdentity(ctx context.Context) error {
	body, err := c.doRequest(ctx, http.MethodGet, "/identity", nil)
	if err != nil {
		return err
	}

	id, err := parseIdentity(body)
	if err != nil {
		return err
	}

	c.machineIdentifier = id
	return nil
}

// parseIdentity reads machineIdentifier from a JSON or XML identity body.
// Older servers ignore the Accept header and always answer XML.
func parseIdentity(body []byte) (string, error) {
	var jsonIdentity APIResponse
	if err := json.Unmarshal(body, &jsonIdentity); err == nil {
		if id := jsonIdentity.MediaContainer.MachineIdentifier; id != "" {
			return id, nil
		}
	}

	var xmlIdentity struct {
		XMLName           xml.Name `xml:"MediaContainer"`
		MachineIdentifier string   `xml:"machineIdentifier,attr"`
	}
	if err := xml.Unmarshal(body, &xmlIdentity); err == nil && xmlIdentity.MachineIdentifier != "" {
		return xmlIdentity.MachineIdentifier, nil
	}

	return "", fmt.Errorf("not a Plex server: identity has no machineIdentifier")
}

// doRequest performs an authenticated HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	applyHeaders(req, c.info, c.token)

	c.logger.Debug("plex request", "method", method, "server", c.name, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("plex request failed", "server", c.name, "error", err)
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

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrItemNotFound
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("plex request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// parseResponse parses a JSON response into APIResponse
func (c *Client) parseResponse(body []byte) (*MediaContainer, error) {
	var resp APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp.MediaContainer, nil
}

// Sections returns every library section on the server
func (c *Client) Sections(ctx context.Context) ([]domain.Section, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/library/sections", nil)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	infos := MapSections(container.Directory)
	sections := make([]domain.Section, 0, len(infos))
	for _, info := range infos {
		sections = append(sections, &section{client: c, info: info})
	}
	return sections, nil
}

// HubSearch runs /hubs/search scoped to one section and returns the
// flattened hub items ranked against the query
func (c *Client) HubSearch(ctx context.Context, sectionID, query string) ([]domain.MediaItem, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(hubSearchLimit))
	params.Set("includeCollections", "0")
	if sectionID != "" {
		params.Set("sectionId", sectionID)
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/hubs/search", params)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	items := MapItems(flattenHubs(container.Hub))
	c.logger.Debug("hub search", "server", c.name, "section", sectionID, "query", query, "results", len(items))
	return rankHubItems(query, items), nil
}

// Leaves expands a container to its playable descendants. Leaf items are
// returned unchanged.
func (c *Client) Leaves(ctx context.Context, item domain.MediaItem) ([]domain.MediaItem, error) {
	if item.Kind.IsLeaf() {
		return []domain.MediaItem{item}, nil
	}
	if item.ID == "" {
		return nil, domain.ErrItemNotFound
	}

	path := fmt.Sprintf("/library/metadata/%s/allLeaves", item.ID)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	return MapItems(container.Metadata), nil
}

// StreamURL builds a universal transcode URL for a leaf item
func (c *Client) StreamURL(item domain.MediaItem) (string, error) {
	if !item.Kind.IsLeaf() {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedItem, item.Kind)
	}

	key := item.Key
	if key == "" {
		key = metadataPath(item.ID)
	}
	if key == "" {
		return "", domain.ErrItemNotFound
	}

	streamType := "video"
	if item.Kind.IsAudio() {
		streamType = "audio"
	}

	params := url.Values{}
	params.Set("path", key)
	params.Set("mediaIndex", "0")
	params.Set("partIndex", "0")
	params.Set("fastSeek", "1")
	params.Set("copyts", "1")
	params.Set("offset", "0")
	params.Set("X-Plex-Platform", "Chrome")
	params.Set("X-Plex-Token", c.token)

	return fmt.Sprintf("%s/%s/:/transcode/universal/start.m3u8?%s", c.baseURL, streamType, params.Encode()), nil
}

// ResourceURL resolves a server-relative path and appends the token
func (c *Client) ResourceURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s%sX-Plex-Token=%s", c.baseURL, path, sep, url.QueryEscape(c.token))
}

// section is a library section bound to the client that serves it
type section struct {
	client *Client
	info   domain.SectionInfo
}

func (s *section) Info() domain.SectionInfo { return s.info }

func (s *section) HubSearch(ctx context.Context, query string) ([]domain.MediaItem, error) {
	return s.client.HubSearch(ctx, s.info.ID, query)
}
