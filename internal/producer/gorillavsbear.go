package producer

import "context"

// GorillaVsBearFeedURL points at the blog's main feed
const GorillaVsBearFeedURL = "https://gorillavsbear.net/feed/"

var gvbMusicCategories = []string{"mp3", "video", "on-blast", "music", "track", "single"}

// GorillaVsBear reads the blog feed. Posts tagged as track coverage
// headline cleanly as «Artist – Title».
type GorillaVsBear struct {
	cfg Config
	url string
}

func NewGorillaVsBear(cfg Config) *GorillaVsBear {
	return &GorillaVsBear{cfg: cfg.withDefaults(), url: GorillaVsBearFeedURL}
}

func (g *GorillaVsBear) Name() string { return "Gorilla vs. Bear" }

func (g *GorillaVsBear) Fetch(ctx context.Context) ([]Track, error) {
	body, err := fetchPage(ctx, g.cfg, g.url)
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
		if len(tracks) >= g.cfg.MaxPerSource {
			break
		}
		if !hasCategory(item.Categories, gvbMusicCategories) {
			continue
		}
		artist, title, ok := SplitArtistTitle(CleanText(item.Title))
		if !ok {
			continue
		}
		tracks = append(tracks, Track{Artist: artist, Title: title, Source: g.Name()})
	}

	return dedupeTracks(tracks), nil
}
