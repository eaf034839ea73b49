package producer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SpinURL lists the magazine's new-music coverage
const SpinURL = "https://www.spin.com/new-music/"

var spinSkipWords = []string{
	"interview", "obituary", "dies", "dead", "death", "tour", "festival",
	"halftime", "super bowl", "teases new music", "let it be",
}

// Typographic quotes only; a closing single quote followed by a letter
// is a contraction («Where's») rather than the end of the title
var spinQuotedRe = regexp.MustCompile(`[‘“](.+?)(?:”|’(?:[^a-zA-Z]|$))`)

var (
	spinPossessiveRe = regexp.MustCompile(`['’]s\s*$`)
	spinFillerRe     = regexp.MustCompile(`(?i)\s+(?:With\s+)?(?:New\s+|Debut\s+)?(?:EP|LP|Album|Single)\s*$`)
	spinNumericRe    = regexp.MustCompile(`^\d+\s+`)
)

var spinVerbRe = regexp.MustCompile(`(?i)^(?:` +
	`takes?|brings?|makes?|finds?|sees?|grows?|drops?|gets?|puts?|` +
	`shares?|unveils?|releases?|delivers?|debuts?|announces?|` +
	`explores?|channels?|captures?|embraces?|confronts?|navigates?|` +
	`returns?|continues?|celebrates?|enlivens?|ascends?|soars?|` +
	`dives?|rides?|rises?|leads?|opens?|closes?|plays?|feels?|` +
	`moves?|gives?|joins?|teams?|taps?|hits?|cuts?|runs?|turns?|` +
	`keeps?|holds?|stands?|tells?|calls?|shows?|wants?|needs?|` +
	`looks?|creates?|builds?|picks?|stays?|dances?|reminds?|` +
	`proves?|lets?|is|are|has|have|had|was|were|will|would|still` +
	`)$`)

// Spin scrapes the new-music listing. Headlines are editorial
// sentences like «Cat Power Takes Us Back In Time With New EP 'Redux'»
// with the record quoted in typographic quotes.
type Spin struct {
	cfg Config
	url string
}

func NewSpin(cfg Config) *Spin {
	return &Spin{cfg: cfg.withDefaults(), url: SpinURL}
}

func (s *Spin) Name() string { return "SPIN" }

func (s *Spin) Fetch(ctx context.Context) ([]Track, error) {
	body, err := fetchPage(ctx, s.cfg, s.url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var tracks []Track
	doc.Find("h3.entry-title").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if len(tracks) >= s.cfg.MaxPerSource {
			return false
		}

		text := CleanText(heading.Text())
		if len(text) < 10 {
			return true
		}

		artist, title, ok := parseSpinTitle(text)
		if !ok {
			return true
		}
		tracks = append(tracks, Track{Artist: artist, Title: title, Source: s.Name()})
		return true
	})

	return dedupeTracks(tracks), nil
}

func parseSpinTitle(text string) (artist, title string, ok bool) {
	if containsAny(strings.ToLower(text), spinSkipWords) {
		return "", "", false
	}

	loc := spinQuotedRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", "", false
	}
	title = strings.TrimRight(strings.TrimSpace(text[loc[2]:loc[3]]), ".,;:!?")
	prefix := strings.TrimSpace(text[:loc[0]])
	if title == "" {
		return "", "", false
	}

	// «On Kelly Moran's 'Mirrors,' All Is Not What It Seems»
	if strings.HasPrefix(strings.ToLower(prefix), "on ") {
		inner := strings.TrimSpace(prefix[3:])
		inner = strings.TrimSpace(spinPossessiveRe.ReplaceAllString(inner, ""))
		if inner != "" {
			return inner, title, true
		}
		return "", "", false
	}

	// «30 Years Later, 'The Ghost of Tom Joad' ...» names no artist
	if prefix == "" || spinNumericRe.MatchString(prefix) {
		return "", "", false
	}

	prefix = strings.TrimSpace(spinPossessiveRe.ReplaceAllString(prefix, ""))
	prefix = strings.TrimSpace(spinFillerRe.ReplaceAllString(prefix, ""))

	artist = cutAtVerb(prefix, spinVerbRe)
	if artist == "" {
		return "", "", false
	}
	return artist, title, true
}
