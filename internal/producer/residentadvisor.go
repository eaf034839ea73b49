package producer

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ResidentAdvisorURLs are tried in order; /tracks redirects to the
// singles reviews
var ResidentAdvisorURLs = []string{
	"https://ra.co/reviews/singles",
	"https://ra.co/tracks",
}

// ResidentAdvisor scrapes the singles reviews. The site is a React
// app, so only what survives server-side rendering is visible; yield
// can legitimately be tiny.
type ResidentAdvisor struct {
	cfg  Config
	urls []string
}

func NewResidentAdvisor(cfg Config) *ResidentAdvisor {
	return &ResidentAdvisor{cfg: cfg.withDefaults(), urls: ResidentAdvisorURLs}
}

func (r *ResidentAdvisor) Name() string { return "Resident Advisor" }

func (r *ResidentAdvisor) Fetch(ctx context.Context) ([]Track, error) {
	var tracks []Track
	var lastErr error
	fetched := false

	for _, url := range r.urls {
		body, err := fetchPage(ctx, r.cfg, url)
		if err != nil {
			lastErr = err
			continue
		}
		fetched = true

		doc, err := goquery.NewDocumentFromReader(body)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse page: %w", err)
		}

		doc.Find("li a, article a, [class*='track'] a, [class*='Track'] a, h3 a").
			EachWithBreak(func(_ int, link *goquery.Selection) bool {
				if len(tracks) >= r.cfg.MaxPerSource {
					return false
				}
				text := CleanText(link.Text())
				if len(text) < 5 {
					return true
				}
				artist, title, ok := SplitArtistTitle(text)
				if !ok {
					return true
				}
				tracks = append(tracks, Track{Artist: artist, Title: title, Source: r.Name()})
				return true
			})

		if len(tracks) > 0 {
			break
		}
	}

	if !fetched {
		return nil, lastErr
	}
	return dedupeTracks(tracks), nil
}
