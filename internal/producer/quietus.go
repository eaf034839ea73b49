package producer

import (
	"context"
	"strings"
)

// QuietusFeedURL is the site-wide feed; review coverage is picked out
// by category
const QuietusFeedURL = "https://thequietus.com/feed"

var quietusReviewCategories = []string{"reviews", "review", "albums", "tracks", "music"}

// Editorial features that carry no single artist credit
var quietusSkipWords = []string{
	"guide to", "best albums", "best tracks", "interview", "in photos", "playlist",
}

// Quietus reads the review feed; headlines follow the plain
// «Artist – Album» convention.
type Quietus struct {
	cfg Config
	url string
}

func NewQuietus(cfg Config) *Quietus {
	return &Quietus{cfg: cfg.withDefaults(), url: QuietusFeedURL}
}

func (q *Quietus) Name() string { return "The Quietus" }

func (q *Quietus) Fetch(ctx context.Context) ([]Track, error) {
	body, err := fetchPage(ctx, q.cfg, q.url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := decodeFeed(body)
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for _, item := range feed.Items {
		if len(tracks) >= q.cfg.MaxPerSource {
			break
		}
		if !hasCategory(item.Categories, quietusReviewCategories) {
			continue
		}
		text := CleanText(item.Title)
		if containsAny(strings.ToLower(text), quietusSkipWords) {
			continue
		}
		artist, title, ok := SplitArtistTitle(text)
		if !ok {
			continue
		}
		tracks = append(tracks, Track{Artist: artist, Title: title, Source: q.Name()})
	}

	return dedupeTracks(tracks), nil
}
