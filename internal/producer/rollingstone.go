package producer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/franz/music-collector/internal/util"
)

// RollingStoneListsURL indexes the magazine's music lists; the
// producer looks for the current best-songs ranking there
const RollingStoneListsURL = "https://www.rollingstone.com/music/music-lists/"

const rollingStoneBase = "https://www.rollingstone.com"

// How many index links to consider before giving up
const rsLinkScanLimit = 200

// RollingStone runs in two phases: find this year's (or last year's)
// best-songs list on the index page, then scrape entry headlines off
// the list itself. The list lands near year's end, so early-year runs
// often find nothing; that is a clean zero, not a failure.
type RollingStone struct {
	cfg  Config
	url  string
	base string
	now  func() time.Time
}

func NewRollingStone(cfg Config) *RollingStone {
	return &RollingStone{
		cfg:  cfg.withDefaults(),
		url:  RollingStoneListsURL,
		base: rollingStoneBase,
		now:  time.Now,
	}
}

func (r *RollingStone) Name() string { return "Rolling Stone" }

func (r *RollingStone) Fetch(ctx context.Context) ([]Track, error) {
	body, err := fetchPage(ctx, r.cfg, r.url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	listURL := r.findBestSongsList(doc)
	if listURL == "" {
		util.DebugLog("Rolling Stone: no current best-songs list on the index")
		return nil, nil
	}
	if strings.HasPrefix(listURL, "/") {
		listURL = r.base + listURL
	}

	body, err = fetchPage(ctx, r.cfg, listURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err = goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse list page: %w", err)
	}

	var tracks []Track
	doc.Find("h2, h3, .c-gallery-vertical-album__title").
		EachWithBreak(func(_ int, heading *goquery.Selection) bool {
			if len(tracks) >= r.cfg.MaxPerSource {
				return false
			}
			artist, title, ok := SplitArtistTitle(CleanText(heading.Text()))
			if !ok {
				return true
			}
			tracks = append(tracks, Track{Artist: artist, Title: title, Source: r.Name()})
			return true
		})

	return dedupeTracks(tracks), nil
}

// findBestSongsList scans index links for a best-songs ranking dated
// this year or last
func (r *RollingStone) findBestSongsList(doc *goquery.Document) string {
	year := strconv.Itoa(r.now().Year())
	lastYear := strconv.Itoa(r.now().Year() - 1)

	var found string
	doc.Find("a[href]").EachWithBreak(func(i int, link *goquery.Selection) bool {
		if i >= rsLinkScanLimit {
			return false
		}
		href, _ := link.Attr("href")
		text := strings.ToLower(link.Text())
		if !strings.Contains(href, "best-songs") && !strings.Contains(text, "best songs") {
			return true
		}
		if !strings.Contains(href, year) && !strings.Contains(href, lastYear) {
			return true
		}
		found = href
		return false
	})
	return found
}
