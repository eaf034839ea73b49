// Package reconcile turns raw producer candidates into deduplicated,
// catalog-resolved tracks. Identity is the case-insensitive
// (artist, title) pair; resolution is attempted exactly once, when an
// identity is first seen.
package reconcile

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/franz/music-collector/internal/catalog"
)

// Typographic punctuation folded to ASCII before comparison, so a
// curly apostrophe on one side never blocks an otherwise exact match
var punctFolder = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
)

func normalizeForMatch(text string) string {
	return strings.TrimSpace(punctFolder.Replace(norm.NFC.String(text)))
}

// verifyMatch gates a search result: the returned title must equal the
// requested title, and at least one credited artist must equal the
// requested artist. Equality is case-insensitive after trimming and
// punctuation folding; anything looser lets covers and karaoke
// versions through.
func verifyMatch(m *catalog.Match, artist, title string) bool {
	if m == nil {
		return false
	}
	if !strings.EqualFold(normalizeForMatch(m.Title), normalizeForMatch(title)) {
		return false
	}
	want := normalizeForMatch(artist)
	for _, credited := range m.Artists {
		if strings.EqualFold(normalizeForMatch(credited), want) {
			return true
		}
	}
	return false
}
