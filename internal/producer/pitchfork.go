package producer

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// PitchforkURL is the Best New Tracks listing page
const PitchforkURL = "https://pitchfork.com/reviews/best/tracks/"

// Pitchfork scrapes the Best New Tracks page. Each entry sits in a
// div whose class starts with SummaryItemWrapper; the title lives in
// h3.summary-item__hed (wrapped in typographic quotes) and the artist
// in div.summary-item__sub-hed.
type Pitchfork struct {
	cfg Config
	url string
}

func NewPitchfork(cfg Config) *Pitchfork {
	return &Pitchfork{cfg: cfg.withDefaults(), url: PitchforkURL}
}

func (p *Pitchfork) Name() string { return "Pitchfork" }

func (p *Pitchfork) Fetch(ctx context.Context) ([]Track, error) {
	body, err := fetchPage(ctx, p.cfg, p.url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var tracks []Track
	doc.Find("div[class*='SummaryItemWrapper']").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if len(tracks) >= p.cfg.MaxPerSource {
			return false
		}

		title := TrimTitleQuotes(CleanText(item.Find("h3[class*='summary-item__hed']").First().Text()))
		artist := CleanText(item.Find("div[class*='summary-item__sub-hed']").First().Text())

		if artist != "" && title != "" {
			tracks = append(tracks, Track{Artist: artist, Title: title, Source: p.Name()})
		}
		return true
	})

	return dedupeTracks(tracks), nil
}
