// Package catalog talks to the Spotify Web API: track search for the
// reconciler and playlist management for the live collection and the
// quarter archive buckets.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/franz/music-collector/internal/util"
)

const (
	// APIBaseURL is the Spotify Web API base URL
	APIBaseURL = "https://api.spotify.com/v1"

	// TokenURL is the OAuth token endpoint
	TokenURL = "https://accounts.spotify.com/api/token"

	// RateLimit spaces out API requests to stay well under Spotify's
	// rolling-window limits
	RateLimit = 200 * time.Millisecond

	// requestTimeout bounds every API call
	requestTimeout = 30 * time.Second
)

// Config holds the credentials and endpoints for the catalog client.
// Base URLs default to the public Spotify endpoints; tests point them
// at local servers.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	APIBaseURL string
	TokenURL   string
}

// Validate checks that the credentials required for API access are set
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client ID and secret are required "+
			"(create an app at https://developer.spotify.com/dashboard)", util.ErrInvalidConfig)
	}
	if c.RefreshToken == "" {
		return fmt.Errorf("%w: Spotify refresh token is required", util.ErrInvalidConfig)
	}
	return nil
}

// Client handles Spotify Web API requests with rate limiting and
// automatic access-token refresh
type Client struct {
	httpClient  *http.Client
	cfg         Config
	baseURL     string
	tokenURL    string
	rateLimiter *time.Ticker

	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new Spotify API client
func NewClient(cfg Config) *Client {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = APIBaseURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = TokenURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		cfg:         cfg,
		baseURL:     baseURL,
		tokenURL:    tokenURL,
		rateLimiter: time.NewTicker(RateLimit),
	}
}

// Close releases resources used by the client
func (c *Client) Close() {
	if c.rateLimiter != nil {
		c.rateLimiter.Stop()
	}
}

// token returns a valid access token, refreshing it when missing or
// within a minute of expiry
func (c *Client) token(ctx context.Context) (string, error) {
	if c.accessToken != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.accessToken, nil
	}

	util.DebugLog("Spotify API: refreshing access token")

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.cfg.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, "POST", c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token refresh failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)

	return c.accessToken, nil
}

// apiRequest performs an authenticated API call and decodes the JSON
// response into out (out may be nil for calls with ignorable bodies).
// Transient failures and 429s are retried with backoff; the payload is
// a byte slice rather than a reader so each attempt can replay it.
func (c *Client) apiRequest(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	urlStr := c.baseURL + path
	respBody, err := util.RetryWithBackoff(util.DefaultRetryConfig(), func() ([]byte, error) {
		// Wait for rate limit
		<-c.rateLimiter.C

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("rate limit exceeded (429, too many requests), retry-after: %s",
				resp.Header.Get("Retry-After"))
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			data, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("unexpected status code %d for %s %s: %s", resp.StatusCode, method, path, string(data))
		}

		return io.ReadAll(resp.Body)
	}, method+" "+path)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// CurrentUserID returns the authenticated user's ID
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	var user struct {
		ID string `json:"id"`
	}
	if err := c.apiRequest(ctx, "GET", "/me", nil, &user); err != nil {
		return "", err
	}
	if user.ID == "" {
		return "", fmt.Errorf("current user response contained no ID")
	}
	return user.ID, nil
}
