package catalog

import (
	"context"
	"fmt"

	"github.com/franz/music-collector/internal/archive"
)

// Collections adapts the playlist surface to the archiver: the
// configured playlist is the live collection, and archive buckets are
// playlists named "<playlist> — <year> Q<q>", created lazily.
type Collections struct {
	client       *Client
	liveID       string
	playlistName string
}

// NewCollections wraps a client and the resolved live playlist ID
func NewCollections(client *Client, liveID, playlistName string) *Collections {
	return &Collections{
		client:       client,
		liveID:       liveID,
		playlistName: playlistName,
	}
}

// BucketName returns the archive playlist name for a quarter
func (c *Collections) BucketName(q archive.Quarter) string {
	return fmt.Sprintf("%s — %d Q%d", c.playlistName, q.Year, q.Q)
}

// ListLive returns the current live collection entries
func (c *Collections) ListLive(ctx context.Context) ([]archive.Entry, error) {
	tracks, err := c.client.ListPlaylistTracks(ctx, c.liveID)
	if err != nil {
		return nil, err
	}

	entries := make([]archive.Entry, 0, len(tracks))
	for _, t := range tracks {
		entries = append(entries, archive.Entry{Ref: t.Ref, AddedAt: t.AddedAt})
	}
	return entries, nil
}

// EnsureBucket finds or creates the archive playlist for a quarter
func (c *Collections) EnsureBucket(ctx context.Context, q archive.Quarter) (string, error) {
	name := c.BucketName(q)
	description := fmt.Sprintf("%s archive for %s", c.playlistName, q)
	return c.client.EnsurePlaylist(ctx, name, description)
}

// ListBucket returns the refs already present in an archive playlist
func (c *Collections) ListBucket(ctx context.Context, bucket string) ([]string, error) {
	tracks, err := c.client.ListPlaylistTracks(ctx, bucket)
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(tracks))
	for _, t := range tracks {
		refs = append(refs, t.Ref)
	}
	return refs, nil
}

// AddToBucket appends one ref to an archive playlist
func (c *Collections) AddToBucket(ctx context.Context, bucket string, ref string) error {
	return c.client.AddTracks(ctx, bucket, []string{ref})
}

// RemoveFromLive removes one ref from the live playlist
func (c *Collections) RemoveFromLive(ctx context.Context, ref string) error {
	return c.client.RemoveTracks(ctx, c.liveID, []string{ref})
}
