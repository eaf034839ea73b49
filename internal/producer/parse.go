package producer

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	leadingQuotesRe       = regexp.MustCompile(`^[‘’“”'"]+`)
	trailingQuotesRe      = regexp.MustCompile(`[‘’“”'"]+$`)
	quotesBeforeBracketRe = regexp.MustCompile(`[‘’“”'"]+(\s*\[)`)

	// Strips punctuation off a word before checking it against a verb
	// alternation; apostrophes and hyphens stay (Where's, hard-hitting)
	wordPunctRe = regexp.MustCompile(`[^\w'’-]`)
)

// Separators tried in order by SplitArtistTitle
var artistTitleSeps = []string{" – ", " - ", " — ", ": "}

// CleanText collapses whitespace runs and applies NFC normalization so
// accented names compare consistently downstream
func CleanText(text string) string {
	text = norm.NFC.String(text)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// TrimTitleQuotes strips typographic and plain quotes wrapping a track
// title while keeping trailing additions like "[ft. ...]" intact
func TrimTitleQuotes(text string) string {
	text = leadingQuotesRe.ReplaceAllString(text, "")
	text = trailingQuotesRe.ReplaceAllString(text, "")
	text = quotesBeforeBracketRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// SplitArtistTitle parses the common «Artist – Title» headline shape.
// Stray quotes around either half are dropped.
func SplitArtistTitle(text string) (artist, title string, ok bool) {
	text = strings.TrimSpace(text)
	for _, sep := range artistTitleSeps {
		idx := strings.Index(text, sep)
		if idx == -1 {
			continue
		}
		artist = strings.Trim(strings.TrimSpace(text[:idx]), `"'‘’“”`)
		title = strings.Trim(strings.TrimSpace(text[idx+len(sep):]), `"'‘’“”`)
		if artist != "" && title != "" {
			return artist, title, true
		}
	}
	return "", "", false
}

// cutAtVerb truncates an editorial headline prefix at the first verb,
// leaving the artist name. The first word is never treated as a verb.
// verbRe must be anchored to match whole words.
func cutAtVerb(prefix string, verbRe *regexp.Regexp) string {
	words := strings.Fields(prefix)
	for i := 1; i < len(words); i++ {
		if verbRe.MatchString(wordPunctRe.ReplaceAllString(words[i], "")) {
			if cand := strings.TrimSpace(strings.Join(words[:i], " ")); cand != "" {
				return cand
			}
		}
	}
	return prefix
}

// containsAny reports whether text contains any of the given
// substrings. Callers lowercase text first.
func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// identityKey builds the case-insensitive dedup key used within a
// single source's output
func identityKey(artist, title string) [2]string {
	return [2]string{
		strings.ToLower(strings.TrimSpace(artist)),
		strings.ToLower(strings.TrimSpace(title)),
	}
}
