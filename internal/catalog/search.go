package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/franz/music-collector/internal/util"
)

// Match is a candidate catalog entry returned by a search. Artists
// carries every credited artist because featured tracks list several;
// the verification gate accepts a match on any of them.
type Match struct {
	Artists []string
	Title   string
	Ref     string
}

// searchResult mirrors the Spotify search response shape
type searchResult struct {
	Tracks struct {
		Items []struct {
			URI     string `json:"uri"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
		} `json:"items"`
	} `json:"tracks"`
}

// SearchStrict issues a field-qualified query (track + artist
// qualifiers) and returns the top result, or nil if there is none.
// Precision stage: the qualifiers keep unrelated tracks out.
func (c *Client) SearchStrict(ctx context.Context, artist, title string) (*Match, error) {
	query := fmt.Sprintf("track:%s artist:%s", title, artist)
	util.DebugLog("Spotify API: strict search %q", query)
	return c.search(ctx, query)
}

// SearchLoose issues a free-text query combining artist and title.
// Recall stage: catches tracks the qualified query misses; the caller's
// verification gate is what keeps false positives out.
func (c *Client) SearchLoose(ctx context.Context, artist, title string) (*Match, error) {
	query := fmt.Sprintf("%s %s", artist, title)
	util.DebugLog("Spotify API: loose search %q", query)
	return c.search(ctx, query)
}

func (c *Client) search(ctx context.Context, query string) (*Match, error) {
	path := fmt.Sprintf("/search?q=%s&type=track&limit=1", url.QueryEscape(query))

	var result searchResult
	if err := c.apiRequest(ctx, "GET", path, nil, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrCatalogLookup, err)
	}

	if len(result.Tracks.Items) == 0 {
		return nil, nil
	}

	item := result.Tracks.Items[0]
	match := &Match{
		Title: item.Name,
		Ref:   item.URI,
	}
	for _, a := range item.Artists {
		match.Artists = append(match.Artists, a.Name)
	}

	util.DebugLog("Spotify: top hit %v - %q (%s)", match.Artists, match.Title, match.Ref)

	return match, nil
}
