package producer

import (
	"context"
	"regexp"
	"strings"
)

// StereogumFeedURL is the site-wide RSS feed
const StereogumFeedURL = "https://www.stereogum.com/feed/"

// Categories marking a post as track coverage rather than general news
var stereogumTrackCategories = []string{"track", "song", "single", "video", "new music"}

var (
	// «Artist — "Song"»
	sgDirectRe = regexp.MustCompile(`^(.+?)\s*[—–-]\s*["“](.+?)["”]`)
	// «Artist Announces Album — Hear "Song"»
	sgHearRe   = regexp.MustCompile(`[Hh]ear\s+["“](.+?)["”]`)
	sgArtistRe = regexp.MustCompile(`^(.+?)\s+(?:Announce|Share|Release|Debut|Drop|Unveil|Return)`)
	// «Artist Announce Album X — Hear The Title Track»
	sgTitleTrackArtistRe = regexp.MustCompile(`^(.+?)\s+(?:Announce|Share)`)
	sgTitleTrackAlbumRe  = regexp.MustCompile(`(?:Album|EP|LP|Project)\s+(.+?)\s*[—–-]`)
)

// Stereogum reads the RSS feed and keeps entries whose categories mark
// them as track coverage. Headline formats vary; parseStereogumTitle
// tries them in order of reliability.
type Stereogum struct {
	cfg Config
	url string
}

func NewStereogum(cfg Config) *Stereogum {
	return &Stereogum{cfg: cfg.withDefaults(), url: StereogumFeedURL}
}

func (s *Stereogum) Name() string { return "Stereogum" }

func (s *Stereogum) Fetch(ctx context.Context) ([]Track, error) {
	body, err := fetchPage(ctx, s.cfg, s.url)
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
		if len(tracks) >= s.cfg.MaxPerSource {
			break
		}
		if !hasCategory(item.Categories, stereogumTrackCategories) {
			continue
		}
		artist, title, ok := parseStereogumTitle(CleanText(item.Title))
		if !ok {
			continue
		}
		tracks = append(tracks, Track{Artist: artist, Title: title, Source: s.Name()})
	}

	return dedupeTracks(tracks), nil
}

// parseStereogumTitle extracts (artist, title) from a feed headline
func parseStereogumTitle(text string) (artist, title string, ok bool) {
	if m := sgDirectRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
	}

	if m := sgHearRe.FindStringSubmatch(text); m != nil {
		if am := sgArtistRe.FindStringSubmatch(text); am != nil {
			return strings.TrimSpace(am[1]), strings.TrimSpace(m[1]), true
		}
	}

	// Album title track announcements: the song shares the album name
	if strings.Contains(text, "Hear The Title Track") || strings.Contains(text, "Hear the Title Track") {
		am := sgTitleTrackArtistRe.FindStringSubmatch(text)
		bm := sgTitleTrackAlbumRe.FindStringSubmatch(text)
		if am != nil && bm != nil {
			return strings.TrimSpace(am[1]), strings.TrimSpace(bm[1]), true
		}
	}

	return "", "", false
}
