package producer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LineOfBestFitURL lists recent Song of the Day picks
const LineOfBestFitURL = "https://www.thelineofbestfit.com/tracks"

var (
	// Song title sits in quotes at the end of the headline
	lobfTitleRe = regexp.MustCompile(`['‘’“”"]+(.+?)['‘’“”"]+\s*$`)
	// Possessive artist, as in «Charlie Le Mindu's musical project ...»
	lobfPossessiveRe = regexp.MustCompile(`^(.+?)['’]s\s+`)
	// Capitalized words up to the first lowercase word (the verb),
	// allowing lowercase connectives inside the name
	lobfArtistRe = regexp.MustCompile(`^((?:[A-Z0-9\x{00C0}-\x{024F}][\w.\x{00C0}-\x{024F}-]*(?:\s+(?:and|&|the|of|de|von|van|feat\.?|ft\.?|x|vs\.?)\s+)?)+)(?:\s+[a-z])`)
)

// Verbs that separate the artist name from the editorial description
// when the capitalization heuristic fails
var lobfVerbs = []string{
	"shares", "share", "unveils", "unveil", "releases", "release",
	"announces", "announce", "debuts", "debut", "delivers", "deliver",
	"drops", "drop", "returns", "return", "confronts", "confront",
	"explores", "explore", "channels", "channel", "captures", "capture",
	"embraces", "embrace", "numbs", "numb", "soars", "soar",
	"finds", "find", "reveals", "reveal", "offers", "offer",
	"brings", "bring", "opens", "open", "navigates", "navigate",
	"does", "do", "is", "are", "has", "have", "gets", "get",
	"takes", "take", "makes", "make", "goes", "go", "comes", "come",
	"puts", "put", "sets", "set", "rises", "rise", "leads", "lead",
	"turns", "turn", "keeps", "keep", "holds", "hold", "tells", "tell",
	"calls", "call", "shows", "show", "wants", "want", "needs", "need",
	"looks", "look", "creates", "create", "builds", "build",
	"teams", "team", "joins", "join", "taps", "tap",
	"weaves", "weave", "blends", "blend", "crafts", "craft",
	"evokes", "evoke", "reflects", "reflect", "pours", "pour",
	"strips", "strip", "transforms", "transform", "breaks", "break",
}

// LineOfBestFit scrapes the /tracks listing. Headlines read
// «ARTIST NAME verbs a description 'Song Title'»: the title is quoted
// at the end and the artist is everything before the first verb.
type LineOfBestFit struct {
	cfg Config
	url string
}

func NewLineOfBestFit(cfg Config) *LineOfBestFit {
	return &LineOfBestFit{cfg: cfg.withDefaults(), url: LineOfBestFitURL}
}

func (l *LineOfBestFit) Name() string { return "The Line of Best Fit" }

func (l *LineOfBestFit) Fetch(ctx context.Context) ([]Track, error) {
	body, err := fetchPage(ctx, l.cfg, l.url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var tracks []Track
	doc.Find("a[href*='/tracks/']").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if len(tracks) >= l.cfg.MaxPerSource {
			return false
		}

		text := CleanText(link.Text())
		if len(text) < 10 {
			return true
		}

		artist, title, ok := parseLOBFTitle(text)
		if !ok {
			return true
		}
		tracks = append(tracks, Track{Artist: artist, Title: title, Source: l.Name()})
		return true
	})

	return dedupeTracks(tracks), nil
}

// parseLOBFTitle pulls the quoted title off the end, then works out
// where the artist name stops in the remaining prefix
func parseLOBFTitle(text string) (artist, title string, ok bool) {
	loc := lobfTitleRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", "", false
	}
	title = strings.TrimSpace(text[loc[2]:loc[3]])
	prefix := strings.TrimSpace(text[:loc[0]])

	if m := lobfPossessiveRe.FindStringSubmatch(prefix); m != nil {
		if a := strings.TrimSpace(m[1]); a != "" {
			return a, title, true
		}
	}

	if m := lobfArtistRe.FindStringSubmatch(prefix); m != nil {
		if a := strings.TrimSpace(m[1]); a != "" {
			return a, title, true
		}
	}

	// Last resort: cut at the earliest known verb
	prefixLower := strings.ToLower(prefix)
	bestIdx := len(prefix)
	for _, verb := range lobfVerbs {
		if idx := strings.Index(prefixLower, " "+verb+" "); idx != -1 && idx < bestIdx {
			bestIdx = idx
		}
	}

	artist = prefix
	if bestIdx < len(prefix) {
		artist = prefix[:bestIdx]
	}
	artist = strings.TrimSpace(strings.Trim(strings.TrimSpace(artist), ","))
	if artist == "" || title == "" {
		return "", "", false
	}
	return artist, title, true
}
