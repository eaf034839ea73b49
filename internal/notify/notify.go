// Package notify sends a run summary over the LINE Messaging API.
// Credentials are optional; without them Send is a silent no-op, and
// delivery failures are logged but never fail a run.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/franz/music-collector/internal/util"
)

const (
	tokenURL = "https://api.line.me/v2/oauth/accessToken"
	pushURL  = "https://api.line.me/v2/bot/message/push"

	requestTimeout = 15 * time.Second
)

// Config holds the LINE channel credentials and recipient
type Config struct {
	ChannelID     string
	ChannelSecret string
	UserID        string
}

// Configured reports whether all credentials are present
func (c Config) Configured() bool {
	return c.ChannelID != "" && c.ChannelSecret != "" && c.UserID != ""
}

// Notifier pushes text messages to one LINE user. A short-lived access
// token is minted per send, so nothing needs refreshing between runs.
type Notifier struct {
	cfg    Config
	client *http.Client

	// endpoint overrides for tests
	tokenURL string
	pushURL  string
}

func New(cfg Config) *Notifier {
	return &Notifier{
		cfg:      cfg,
		client:   &http.Client{Timeout: requestTimeout},
		tokenURL: tokenURL,
		pushURL:  pushURL,
	}
}

// Summary carries the counts reported in the notification
type Summary struct {
	NewTracks  int
	Resolved   int
	Unresolved int

	// BySource maps producer name to how many candidates it yielded
	BySource map[string]int
}

// Send pushes the run summary. Missing credentials skip silently;
// any other failure is logged as a warning and swallowed.
func (n *Notifier) Send(ctx context.Context, s Summary) {
	if !n.cfg.Configured() {
		util.DebugLog("LINE credentials not set, skipping notification")
		return
	}

	token, err := n.accessToken(ctx)
	if err != nil {
		util.WarnLog("LINE token request failed: %v", err)
		return
	}

	if err := n.push(ctx, token, buildMessage(s)); err != nil {
		util.WarnLog("LINE notification failed: %v", err)
		return
	}
	util.InfoLog("LINE notification sent")
}

func (n *Notifier) accessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {n.cfg.ChannelID},
		"client_secret": {n.cfg.ChannelSecret},
	}
	req, err := http.NewRequestWithContext(ctx, "POST", n.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (n *Notifier) push(ctx context.Context, token, message string) error {
	payload := map[string]any{
		"to": n.cfg.UserID,
		"messages": []map[string]string{
			{"type": "text", "text": message},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.pushURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

func buildMessage(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Music Collector run complete\n\n")
	fmt.Fprintf(&b, "New tracks: %d\n", s.NewTracks)
	fmt.Fprintf(&b, "Resolved: %d\n", s.Resolved)
	fmt.Fprintf(&b, "Unresolved: %d\n", s.Unresolved)

	if len(s.BySource) > 0 {
		b.WriteString("\nBy source:\n")
		names := make([]string, 0, len(s.BySource))
		for name := range s.BySource {
			names = append(names, name)
		}
		// Highest contribution first, names break ties
		sort.Slice(names, func(i, j int) bool {
			if s.BySource[names[i]] != s.BySource[names[j]] {
				return s.BySource[names[i]] > s.BySource[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %d\n", name, s.BySource[name])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
