package producer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/franz/music-collector/internal/util"
)

// SlantURLs are tried in order; parts of the site sit behind bot
// protection and the paths have moved before
var SlantURLs = []string{
	"https://www.slantmagazine.com/music/",
	"https://www.slantmagazine.com/category/music/",
}

// Body text betraying a JS challenge page instead of real content
var slantChallengeWords = []string{
	"enable javascript", "checking your browser", "just a moment", "cloudflare",
}

var slantSkipWords = []string{
	"best of", "worst of", "ranked", "interview", "the 25", "film", "tv",
}

// «FKA twigs 'Eusexua Afterglow' Review ...»
var slantQuotedRe = regexp.MustCompile(`['‘“"]+(.+?)['’”"]+`)

// Slant scrapes the music review listing. Review headlines lead with
// the artist and quote the record title.
type Slant struct {
	cfg  Config
	urls []string
}

func NewSlant(cfg Config) *Slant {
	return &Slant{cfg: cfg.withDefaults(), urls: SlantURLs}
}

func (s *Slant) Name() string { return "Slant" }

func (s *Slant) Fetch(ctx context.Context) ([]Track, error) {
	var tracks []Track

	for _, url := range s.urls {
		body, err := fetchPage(ctx, s.cfg, url)
		if err != nil {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(body)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse page: %w", err)
		}

		if containsAny(strings.ToLower(doc.Text()), slantChallengeWords) {
			util.WarnLog("Slant is behind a JS challenge, skipping this run")
			return nil, nil
		}

		doc.Find("h2 a, h3 a, .post-title a, article h2, .entry-title a").
			EachWithBreak(func(_ int, heading *goquery.Selection) bool {
				if len(tracks) >= s.cfg.MaxPerSource {
					return false
				}

				text := CleanText(heading.Text())
				if containsAny(strings.ToLower(text), slantSkipWords) {
					return true
				}

				artist, title, ok := parseSlantTitle(text)
				if !ok {
					return true
				}
				tracks = append(tracks, Track{Artist: artist, Title: title, Source: s.Name()})
				return true
			})

		if len(tracks) > 0 {
			break
		}
	}

	return dedupeTracks(tracks), nil
}

func parseSlantTitle(text string) (artist, title string, ok bool) {
	if loc := slantQuotedRe.FindStringSubmatchIndex(text); loc != nil {
		title = strings.TrimSpace(text[loc[2]:loc[3]])
		artist = strings.TrimSpace(text[:loc[0]])
		if artist != "" && title != "" {
			return artist, title, true
		}
	}

	if lower := strings.ToLower(text); strings.HasPrefix(lower, "review:") {
		text = strings.TrimSpace(text[len("review:"):])
	}
	return SplitArtistTitle(text)
}
