package store

import (
	"testing"
	"time"
)

func TestRecordIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	first, inserted, err := store.Record("Sufjan Stevens", "Video Game", "Stereogum")
	if err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	if !inserted {
		t.Error("expected inserted=true on first record")
	}

	second, inserted, err := store.Record("Sufjan Stevens", "Video Game", "Pitchfork")
	if err != nil {
		t.Fatalf("second record failed: %v", err)
	}
	if inserted {
		t.Error("expected inserted=false on repeat record")
	}

	if second.ID != first.ID {
		t.Errorf("expected same record, got IDs %d and %d", first.ID, second.ID)
	}
	// Existing record must come back unchanged, including its source
	if second.Source != "Stereogum" {
		t.Errorf("expected original source preserved, got %q", second.Source)
	}

	count, err := store.CountTracks()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 stored record, got %d", count)
	}
}

func TestIdentityKeyIsCaseInsensitive(t *testing.T) {
	store := openTestStore(t)

	first, inserted, err := store.Record("Sufjan Stevens", "Video Game", "Stereogum")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if !inserted {
		t.Fatal("expected first record to insert")
	}

	second, inserted, err := store.Record("sufjan stevens", "video game", "SPIN")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if inserted {
		t.Error("expected case-variant record to dedupe")
	}
	if second.ID != first.ID {
		t.Errorf("expected same identity, got IDs %d and %d", first.ID, second.ID)
	}

	// Display casing of the first sighting is preserved
	if second.Artist != "Sufjan Stevens" {
		t.Errorf("expected original casing preserved, got %q", second.Artist)
	}
}

func TestRecordTrimsWhitespace(t *testing.T) {
	store := openTestStore(t)

	if _, _, err := store.Record("  Boygenius ", " Emily  ", "NME"); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	track, err := store.Lookup("Boygenius", "Emily")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if track == nil {
		t.Fatal("expected trimmed identity to match")
	}
	if track.Artist != "Boygenius" || track.Title != "Emily" {
		t.Errorf("expected trimmed fields, got %q / %q", track.Artist, track.Title)
	}
}

func TestLookupUnseenReturnsNil(t *testing.T) {
	store := openTestStore(t)

	track, err := store.Lookup("Nobody", "Nothing")
	if err != nil {
		t.Fatalf("lookup of unseen identity errored: %v", err)
	}
	if track != nil {
		t.Errorf("expected nil for unseen identity, got %+v", track)
	}
}

func TestSetCatalogRefNeverOverwrites(t *testing.T) {
	store := openTestStore(t)

	track, _, err := store.Record("Mitski", "Bug Like an Angel", "Pitchfork")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if track.Resolved() {
		t.Fatal("new record should start unresolved")
	}

	if err := store.SetCatalogRef(track.ID, "spotify:track:abc123"); err != nil {
		t.Fatalf("first SetCatalogRef failed: %v", err)
	}

	// A later, weaker match must not downgrade the stored ref
	if err := store.SetCatalogRef(track.ID, "spotify:track:wrong"); err != nil {
		t.Fatalf("second SetCatalogRef failed: %v", err)
	}

	got, err := store.Lookup("Mitski", "Bug Like an Angel")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got.CatalogRef != "spotify:track:abc123" {
		t.Errorf("expected original ref retained, got %q", got.CatalogRef)
	}
}

func TestSetCatalogRefRejectsEmpty(t *testing.T) {
	store := openTestStore(t)

	track, _, err := store.Record("Mitski", "Star", "Pitchfork")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if err := store.SetCatalogRef(track.ID, ""); err == nil {
		t.Error("expected error setting empty catalog ref")
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := openTestStore(t)

	// Insert with explicit timestamps to control ordering
	stamps := []struct {
		artist string
		title  string
		seen   string
	}{
		{"Artist A", "Old Song", "2026-08-01 10:00:00"},
		{"Artist B", "Mid Song", "2026-08-15 10:00:00"},
		{"Artist C", "New Song", "2026-08-29 10:00:00"},
	}
	for _, s := range stamps {
		_, err := store.db.Exec(
			"INSERT INTO tracks (artist, title, source, first_seen_at) VALUES (?, ?, ?, ?)",
			s.artist, s.title, "SPIN", s.seen,
		)
		if err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
	}

	cutoff := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	recent, err := store.Recent(cutoff)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}

	if len(recent) != 2 {
		t.Fatalf("expected 2 recent tracks, got %d", len(recent))
	}
	if recent[0].Title != "New Song" || recent[1].Title != "Mid Song" {
		t.Errorf("expected newest-first ordering, got %q then %q", recent[0].Title, recent[1].Title)
	}
}

func TestCountBySource(t *testing.T) {
	store := openTestStore(t)

	seeds := []struct{ artist, title, source string }{
		{"A", "One", "Pitchfork"},
		{"B", "Two", "Pitchfork"},
		{"C", "Three", "Stereogum"},
	}
	for _, s := range seeds {
		if _, _, err := store.Record(s.artist, s.title, s.source); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	counts, err := store.CountBySource()
	if err != nil {
		t.Fatalf("count by source failed: %v", err)
	}
	if counts["Pitchfork"] != 2 || counts["Stereogum"] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
