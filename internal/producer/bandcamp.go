package producer

import (
	"context"
	"regexp"
	"strings"
)

// BandcampDailyFeedURL carries the editorial picks, including the
// daily album recommendation
const BandcampDailyFeedURL = "https://daily.bandcamp.com/feed"

var bandcampPickCategories = []string{"album of the day", "best of", "features"}

// «Artist, "Album Title"»
var bcCommaQuoteRe = regexp.MustCompile(`^(.+?),\s*["“‘']+(.+?)["”’']+`)

// BandcampDaily reads the editorial feed and keeps the single-artist
// recommendations. Roundups like «Essential Releases, Feb 6» carry no
// single credit and are skipped.
type BandcampDaily struct {
	cfg Config
	url string
}

func NewBandcampDaily(cfg Config) *BandcampDaily {
	return &BandcampDaily{cfg: cfg.withDefaults(), url: BandcampDailyFeedURL}
}

func (b *BandcampDaily) Name() string { return "Bandcamp Daily" }

func (b *BandcampDaily) Fetch(ctx context.Context) ([]Track, error) {
	body, err := fetchPage(ctx, b.cfg, b.url)
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
		if len(tracks) >= b.cfg.MaxPerSource {
			break
		}
		if !hasCategory(item.Categories, bandcampPickCategories) {
			continue
		}
		text := CleanText(item.Title)
		lower := strings.ToLower(text)
		if strings.HasPrefix(lower, "essential releases") || strings.HasPrefix(lower, "the best ") {
			continue
		}
		artist, title, ok := parseBandcampTitle(text)
		if !ok {
			continue
		}
		tracks = append(tracks, Track{Artist: artist, Title: title, Source: b.Name()})
	}

	return dedupeTracks(tracks), nil
}

func parseBandcampTitle(text string) (artist, title string, ok bool) {
	if m := bcCommaQuoteRe.FindStringSubmatch(text); m != nil {
		artist = strings.TrimSpace(m[1])
		title = strings.TrimSpace(m[2])
		if artist != "" && title != "" {
			return artist, title, true
		}
	}
	return SplitArtistTitle(text)
}
