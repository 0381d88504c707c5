package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/plexskill/internal/domain"
)

const (
	pinEndpoint  = "/api/v2/pins"
	userEndpoint = "/api/v2/user"

	// LinkURL is where the user enters the PIN
	LinkURL = "https://plex.tv/link"
)

// AuthClient handles the PIN-based account login
type AuthClient struct {
	baseURL    string
	info       ClientInfo
	httpClient *http.Client
	logger     *slog.Logger

	// pollInterval is the first wait between PIN checks; it doubles up to maxPollInterval
	pollInterval    time.Duration
	maxPollInterval time.Duration
}

// NewAuthClient creates a new authentication client. An empty baseURL uses plex.tv.
func NewAuthClient(baseURL string, info ClientInfo, logger *slog.Logger) *AuthClient {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultAccountURL
	}
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		info:    info.withDefaults(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:          logger,
		pollInterval:    1 * time.Second,
		maxPollInterval: 5 * time.Second,
	}
}

func (a *AuthClient) do(ctx context.Context, method, path string, query url.Values, token string) (int, []byte, error) {
	reqURL := a.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	applyHeaders(req, a.info, token)
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("account request failed", "path", path, "error", err)
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// GetPIN generates a new authentication PIN
func (a *AuthClient) GetPIN(ctx context.Context) (pin string, id int, err error) {
	data := url.Values{}
	data.Set("strong", "false")
	data.Set("X-Plex-Product", a.info.Product)
	data.Set("X-Plex-Client-Identifier", a.info.ClientID)

	a.logger.Debug("requesting PIN")

	status, body, err := a.do(ctx, http.MethodPost, pinEndpoint, data, "")
	if err != nil {
		return "", 0, err
	}

	if status != http.StatusCreated && status != http.StatusOK {
		a.logger.Error("PIN request error", "status", status, "body", string(body))
		return "", 0, fmt.Errorf("unexpected status code: %d", status)
	}

	var pinResp PINResponse
	if err := json.Unmarshal(body, &pinResp); err != nil {
		return "", 0, fmt.Errorf("failed to parse PIN response: %w", err)
	}

	a.logger.Info("PIN generated", "pin", pinResp.Code, "id", pinResp.ID)
	return pinResp.Code, pinResp.ID, nil
}

// CheckPIN polls for PIN claim status and returns the auth token
func (a *AuthClient) CheckPIN(ctx context.Context, pinID int) (token string, claimed bool, err error) {
	status, body, err := a.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", pinEndpoint, pinID), nil, "")
	if err != nil {
		return "", false, err
	}

	if status == http.StatusNotFound {
		return "", false, domain.ErrPINExpired
	}

	if status != http.StatusOK {
		a.logger.Error("PIN check error", "status", status, "body", string(body))
		return "", false, fmt.Errorf("unexpected status code: %d", status)
	}

	var pinResp PINCheckResponse
	if err := json.Unmarshal(body, &pinResp); err != nil {
		return "", false, fmt.Errorf("failed to parse PIN response: %w", err)
	}

	if pinResp.AuthToken == "" {
		return "", false, nil // Not yet claimed
	}

	a.logger.Info("PIN claimed successfully")
	return pinResp.AuthToken, true, nil
}

// WaitForPIN polls for PIN claim with exponential backoff
func (a *AuthClient) WaitForPIN(ctx context.Context, pinID int, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	interval := a.pollInterval

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
			token, claimed, err := a.CheckPIN(ctx, pinID)
			if err != nil {
				if errors.Is(err, domain.ErrPINExpired) {
					return "", err
				}
				a.logger.Warn("PIN check error, retrying", "error", err)
				continue
			}

			if claimed {
				return token, nil
			}

			// Increase interval up to max
			interval = min(interval*2, a.maxPollInterval)
		}
	}

	return "", domain.ErrPINExpired
}

// ValidateToken checks a token against the account service and returns the username
func (a *AuthClient) ValidateToken(ctx context.Context, token string) (string, error) {
	status, body, err := a.do(ctx, http.MethodGet, userEndpoint, nil, token)
	if err != nil {
		return "", err
	}

	if status == http.StatusUnauthorized {
		return "", domain.ErrAuthFailed
	}

	if status != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", status)
	}

	var user UserResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("failed to parse user response: %w", err)
	}
	return user.Username, nil
}
