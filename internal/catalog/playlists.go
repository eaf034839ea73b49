package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/franz/music-collector/internal/util"
)

// batchSize is the Spotify API limit for playlist add/remove calls
const batchSize = 100

// PlaylistEntry is one track of a playlist, with the timestamp the
// external catalog assigned when it was added
type PlaylistEntry struct {
	Ref     string
	AddedAt time.Time
}

// FindPlaylist searches the user's playlists for an exact name match.
// Returns "" (not an error) when no playlist has that name.
func (c *Client) FindPlaylist(ctx context.Context, name string) (string, error) {
	offset := 0
	for {
		var page struct {
			Items []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"items"`
			Next string `json:"next"`
		}

		path := fmt.Sprintf("/me/playlists?limit=50&offset=%d", offset)
		if err := c.apiRequest(ctx, "GET", path, nil, &page); err != nil {
			return "", err
		}

		for _, pl := range page.Items {
			if pl.Name == name {
				return pl.ID, nil
			}
		}

		if page.Next == "" {
			return "", nil
		}
		offset += 50
	}
}

// CreatePlaylist creates a public playlist and returns its ID
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"name":        name,
		"public":      true,
		"description": description,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode playlist payload: %w", err)
	}

	var created struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := c.apiRequest(ctx, "POST", path, payload, &created); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrCatalogMutation, err)
	}

	util.InfoLog("Created playlist %q (%s)", name, created.ID)
	return created.ID, nil
}

// EnsurePlaylist finds a playlist by name or creates it.
// Idempotent get-or-create: an existing playlist is always reused.
func (c *Client) EnsurePlaylist(ctx context.Context, name, description string) (string, error) {
	id, err := c.FindPlaylist(ctx, name)
	if err != nil {
		return "", err
	}
	if id != "" {
		util.DebugLog("Found existing playlist %q (%s)", name, id)
		return id, nil
	}
	return c.CreatePlaylist(ctx, name, description)
}

// ListPlaylistTracks returns every entry of a playlist, following
// pagination
func (c *Client) ListPlaylistTracks(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	var entries []PlaylistEntry
	offset := 0

	for {
		var page struct {
			Items []struct {
				AddedAt string `json:"added_at"`
				Track   struct {
					URI string `json:"uri"`
				} `json:"track"`
			} `json:"items"`
			Next string `json:"next"`
		}

		path := fmt.Sprintf("/playlists/%s/tracks?fields=items(track(uri),added_at),next&limit=100&offset=%d",
			url.PathEscape(playlistID), offset)
		if err := c.apiRequest(ctx, "GET", path, nil, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.Track.URI == "" {
				continue
			}
			addedAt, err := time.Parse(time.RFC3339, item.AddedAt)
			if err != nil {
				util.WarnLog("Skipping playlist entry with unparseable added_at %q: %v", item.AddedAt, err)
				continue
			}
			entries = append(entries, PlaylistEntry{Ref: item.Track.URI, AddedAt: addedAt})
		}

		if page.Next == "" {
			return entries, nil
		}
		offset += 100
	}
}

// AddTracks appends refs to a playlist, batched at the API limit
func (c *Client) AddTracks(ctx context.Context, playlistID string, refs []string) error {
	for i := 0; i < len(refs); i += batchSize {
		end := min(i+batchSize, len(refs))

		payload, err := json.Marshal(map[string]interface{}{"uris": refs[i:end]})
		if err != nil {
			return fmt.Errorf("failed to encode add payload: %w", err)
		}

		path := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
		if err := c.apiRequest(ctx, "POST", path, payload, nil); err != nil {
			return fmt.Errorf("%w: %v", util.ErrCatalogMutation, err)
		}

		util.DebugLog("Added %d tracks to playlist %s", end-i, playlistID)
	}
	return nil
}

// RemoveTracks removes all occurrences of refs from a playlist,
// batched at the API limit
func (c *Client) RemoveTracks(ctx context.Context, playlistID string, refs []string) error {
	for i := 0; i < len(refs); i += batchSize {
		end := min(i+batchSize, len(refs))

		tracks := make([]map[string]string, 0, end-i)
		for _, ref := range refs[i:end] {
			tracks = append(tracks, map[string]string{"uri": ref})
		}
		payload, err := json.Marshal(map[string]interface{}{"tracks": tracks})
		if err != nil {
			return fmt.Errorf("failed to encode remove payload: %w", err)
		}

		path := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
		if err := c.apiRequest(ctx, "DELETE", path, payload, nil); err != nil {
			return fmt.Errorf("%w: %v", util.ErrCatalogMutation, err)
		}
	}
	return nil
}

// ClearPlaylist removes every track from a playlist and returns the
// number removed
func (c *Client) ClearPlaylist(ctx context.Context, playlistID string) (int, error) {
	entries, err := c.ListPlaylistTracks(ctx, playlistID)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	refs := make([]string, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, e.Ref)
	}
	if err := c.RemoveTracks(ctx, playlistID, refs); err != nil {
		return 0, err
	}

	util.InfoLog("Cleared %d tracks from playlist %s", len(refs), playlistID)
	return len(refs), nil
}

// UnfollowPlaylist removes a playlist from the user's library
func (c *Client) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	path := fmt.Sprintf("/playlists/%s/followers", url.PathEscape(playlistID))
	if err := c.apiRequest(ctx, "DELETE", path, nil, nil); err != nil {
		return fmt.Errorf("%w: %v", util.ErrCatalogMutation, err)
	}
	return nil
}

// MergeLegacyPlaylist folds the tracks of an old playlist into the
// destination, skips refs already present, then removes the old
// playlist. A missing legacy playlist is not an error.
func (c *Client) MergeLegacyPlaylist(ctx context.Context, destID, legacyName string) error {
	legacyName = strings.TrimSpace(legacyName)
	if legacyName == "" {
		return nil
	}

	legacyID, err := c.FindPlaylist(ctx, legacyName)
	if err != nil {
		return err
	}
	if legacyID == "" || legacyID == destID {
		return nil
	}

	util.InfoLog("Found legacy playlist %q, merging...", legacyName)

	legacyEntries, err := c.ListPlaylistTracks(ctx, legacyID)
	if err != nil {
		return err
	}

	if len(legacyEntries) > 0 {
		destEntries, err := c.ListPlaylistTracks(ctx, destID)
		if err != nil {
			return err
		}
		existing := make(map[string]bool, len(destEntries))
		for _, e := range destEntries {
			existing[e.Ref] = true
		}

		var refs []string
		for _, e := range legacyEntries {
			if !existing[e.Ref] {
				refs = append(refs, e.Ref)
			}
		}
		if len(refs) > 0 {
			if err := c.AddTracks(ctx, destID, refs); err != nil {
				return err
			}
		}
		util.InfoLog("Merged %d tracks from legacy playlist", len(refs))
	}

	return c.UnfollowPlaylist(ctx, legacyID)
}
