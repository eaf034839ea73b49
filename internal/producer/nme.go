package producer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NMEURL is the track-review listing
const NMEURL = "https://www.nme.com/reviews/track"

var nmeSkipWords = []string{"interview", "obituary", "surprise", "release is"}

var (
	// Typographic quotes only, so possessive apostrophes inside the
	// title («Where's My Phone?») don't end the match early
	nmeQuotedRe = regexp.MustCompile(`[‘“](.+?)(?:”|’(?:[^a-zA-Z]|$))`)

	nmeReviewSuffixRe = regexp.MustCompile(`(?i)\s*(?:single |track )?review.*$`)
	nmeTrailingDashRe = regexp.MustCompile(`\s*[–—-]\s*$`)
	nmeFillerRe       = regexp.MustCompile(`(?i)['’]s?\s+(?:new\s+)?(?:winter\s+|debut\s+|latest\s+)?(?:single|EP|album|track|song|record|release)\s*$`)
	nmePossessiveRe   = regexp.MustCompile(`['’]s?\s*$`)

	// «... a curtain call for Arctic Monkeys?»
	nmeForRe = regexp.MustCompile(`\bfor\s+(.+?)(?:\s*[?!.]|\s*$)`)
	// «... by Kendrick Lamar is a masterpiece»
	nmeByRe = regexp.MustCompile(`\bby\s+(.+?)(?:\s*[-–—:?!.]|\s*$)`)
	// «, Wolf Alice are bolder than ever» after the quoted title
	nmeCapRunRe = regexp.MustCompile(`^([A-Z][\w]*(?:\s+(?:and|&|the|of|The)\s+[A-Z][\w]*|\s+[A-Z][\w]*)*)`)

	nmeLeadingJunkRe = regexp.MustCompile(`^[,\s]+`)
)

var nmeVerbRe = regexp.MustCompile(`(?i)^(?:` +
	`takes?|brings?|makes?|finds?|sees?|drops?|gets?|puts?|` +
	`shares?|unveils?|releases?|delivers?|debuts?|announces?|` +
	`explores?|channels?|captures?|embraces?|confronts?|navigates?|` +
	`returns?|continues?|celebrates?|soars?|dives?|rides?|rises?|` +
	`leads?|opens?|closes?|plays?|feels?|moves?|gives?|joins?|` +
	`teams?|taps?|hits?|cuts?|runs?|turns?|keeps?|holds?|stands?|` +
	`tells?|calls?|shows?|wants?|needs?|looks?|creates?|builds?|` +
	`picks?|reminds?|proves?|` +
	`is|are|has|have|had|was|were|will|would|goes|go` +
	`)$`)

// NME scrapes the track-review listing. Headlines are full editorial
// sentences and come in several shapes; parseNMETitle locates the
// quoted track first, then works out which side the artist is on.
type NME struct {
	cfg Config
	url string
}

func NewNME(cfg Config) *NME {
	return &NME{cfg: cfg.withDefaults(), url: NMEURL}
}

func (n *NME) Name() string { return "NME" }

func (n *NME) Fetch(ctx context.Context) ([]Track, error) {
	body, err := fetchPage(ctx, n.cfg, n.url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var tracks []Track
	doc.Find(".entry-title a, h3.entry-title a, .td_module_wrap .entry-title a").
		EachWithBreak(func(_ int, heading *goquery.Selection) bool {
			if len(tracks) >= n.cfg.MaxPerSource {
				return false
			}

			text := CleanText(heading.Text())
			if len(text) < 5 {
				return true
			}

			artist, title, ok := parseNMETitle(text)
			if !ok {
				return true
			}
			tracks = append(tracks, Track{Artist: artist, Title: title, Source: n.Name()})
			return true
		})

	return dedupeTracks(tracks), nil
}

func parseNMETitle(text string) (artist, title string, ok bool) {
	if containsAny(strings.ToLower(text), nmeSkipWords) {
		return "", "", false
	}

	loc := nmeQuotedRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return parseNMEDashFormat(text)
	}

	title = strings.TrimSpace(text[loc[2]:loc[3]])
	title = strings.TrimSpace(nmeReviewSuffixRe.ReplaceAllString(title, ""))
	prefix := strings.TrimSpace(text[:loc[0]])
	suffix := strings.TrimSpace(text[loc[1]:])
	if title == "" {
		return "", "", false
	}

	// «Is 'Opening Night' a curtain call for Arctic Monkeys?» and
	// «On 'Bloom Baby Bloom', Wolf Alice are...» put the artist after
	// the title
	switch strings.ToLower(prefix) {
	case "is", "on", "with", "from", "for":
		prefix = ""
	}
	if prefix == "" {
		artist = nmeArtistFromSuffix(suffix)
		if artist == "" {
			return "", "", false
		}
		return artist, title, true
	}

	// «Harry Styles takes things slow on 'Aperture'»: the artist
	// leads, trailed by filler or a possessive
	prefix = strings.TrimSpace(nmeTrailingDashRe.ReplaceAllString(prefix, ""))
	prefix = strings.TrimSpace(nmeFillerRe.ReplaceAllString(prefix, ""))
	prefix = strings.TrimSpace(nmePossessiveRe.ReplaceAllString(prefix, ""))

	artist = cutAtVerb(prefix, nmeVerbRe)
	if artist == "" {
		return "", "", false
	}
	return artist, title, true
}

// parseNMEDashFormat handles the plainer «Artist – 'Track' review»
func parseNMEDashFormat(text string) (artist, title string, ok bool) {
	artist, title, ok = SplitArtistTitle(text)
	if !ok {
		return "", "", false
	}
	title = strings.TrimSpace(nmeReviewSuffixRe.ReplaceAllString(title, ""))
	title = TrimTitleQuotes(title)
	if title == "" {
		return "", "", false
	}
	return artist, title, true
}

// nmeArtistFromSuffix pulls the artist out of the text after the
// quoted title
func nmeArtistFromSuffix(suffix string) string {
	suffix = nmeLeadingJunkRe.ReplaceAllString(suffix, "")

	if m := nmeForRe.FindStringSubmatch(suffix); m != nil {
		if artist := strings.TrimSpace(m[1]); artist != "" {
			return artist
		}
	}
	if m := nmeByRe.FindStringSubmatch(suffix); m != nil {
		if artist := strings.TrimSpace(m[1]); artist != "" {
			return artist
		}
	}
	if m := nmeCapRunRe.FindStringSubmatch(suffix); m != nil {
		if artist := cutAtVerb(strings.TrimSpace(m[1]), nmeVerbRe); artist != "" {
			return artist
		}
	}
	return ""
}
