package producer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ConsequenceURL is the Song of the Week category archive
const ConsequenceURL = "https://consequence.net/category/cos-exclusive-features/top-song-of-the-week/"

// Roundups and non-song coverage sharing the category page
var cosSkipWords = []string{
	"staff picks", "best songs of the week", "songs of the week",
	"best albums", "best music", "new album", "tour", "interview",
	"evolution", "crate digging",
}

// Quoted song title. The straight single quote stays out of the class
// so possessives like «Exodus' "3111"» keep their apostrophe.
var cosQuotedRe = regexp.MustCompile(`["“”‘’]+(.+?)["“”‘’]+`)

var cosPossessiveRe = regexp.MustCompile(`['’]s?\s*$`)

// Words marking where the artist name ends and the editorial
// description begins, as in «Poison Ruin Go Medieval on "Eidolon"»
var cosVerbRe = regexp.MustCompile(`(?i)^(?:` +
	`go(?:es)?|brings?|takes?|makes?|locks?|marks?|drops?|returns?|` +
	`releases?|delivers?|shares?|unveils?|debuts?|announces?|` +
	`explores?|channels?|captures?|embraces?|finds?|reveals?|` +
	`offers?|opens?|closes?|plays?|feels?|moves?|gives?|continues?|` +
	`celebrates?|launch(?:es)?|showcases?|premieres?|introduces?|` +
	`presents?|tackles?|unleash(?:es)?|confronts?|navigates?|` +
	`demands?|paints?|steers?|wades?|resurrects?|sharpens?|soars?|` +
	`dives?|wrestles?|wages?|salutes?|taps?|hits?|gets?|puts?|sets?|` +
	`cuts?|teams?|joins?|leads?|rides?|rises?|talks?|` +
	`is|are|has|have|had|was|were|will|would|can|could|` +
	`punk-rock|alt-metal|hard-hitting|full-intensity|` +
	`new|latest|signature|artistic|triumphant` +
	`)$`)

// Consequence scrapes the Song of the Week archive. Headlines are
// editorial sentences with the track quoted, like «Black Veil Brides
// Continue Artistic Leap with "Certainty"».
type Consequence struct {
	cfg Config
	url string
}

func NewConsequence(cfg Config) *Consequence {
	return &Consequence{cfg: cfg.withDefaults(), url: ConsequenceURL}
}

func (c *Consequence) Name() string { return "Consequence" }

func (c *Consequence) Fetch(ctx context.Context) ([]Track, error) {
	body, err := fetchPage(ctx, c.cfg, c.url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var tracks []Track
	doc.Find("h2 a, h3 a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if len(tracks) >= c.cfg.MaxPerSource {
			return false
		}

		text := CleanText(link.Text())
		if !strings.Contains(strings.ToLower(text), "song of the week") {
			return true
		}

		artist, title, ok := parseConsequenceTitle(text)
		if !ok {
			return true
		}
		tracks = append(tracks, Track{Artist: artist, Title: title, Source: c.Name()})
		return true
	})

	return dedupeTracks(tracks), nil
}

func parseConsequenceTitle(text string) (artist, title string, ok bool) {
	if containsAny(strings.ToLower(text), cosSkipWords) {
		return "", "", false
	}

	// Drop column prefixes like «Heavy Song of the Week:»
	if idx := strings.Index(text, ":"); idx != -1 {
		text = strings.TrimSpace(text[idx+1:])
	}

	if loc := cosQuotedRe.FindStringSubmatchIndex(text); loc != nil {
		title = strings.TrimSpace(text[loc[2]:loc[3]])
		prefix := strings.TrimSpace(text[:loc[0]])

		artist = cutAtVerb(prefix, cosVerbRe)
		artist = strings.TrimSpace(cosPossessiveRe.ReplaceAllString(artist, ""))
		if artist != "" && title != "" {
			return artist, title, true
		}
	}

	return SplitArtistTitle(text)
}
