package reconcile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/franz/music-collector/internal/catalog"
	"github.com/franz/music-collector/internal/producer"
	"github.com/franz/music-collector/internal/store"
)

type fakeCatalog struct {
	strict map[string]*catalog.Match
	loose  map[string]*catalog.Match

	strictCalls int
	looseCalls  int
	err         error
}

func key(artist, title string) string { return artist + "|" + title }

func (f *fakeCatalog) SearchStrict(_ context.Context, artist, title string) (*catalog.Match, error) {
	f.strictCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.strict[key(artist, title)], nil
}

func (f *fakeCatalog) SearchLoose(_ context.Context, artist, title string) (*catalog.Match, error) {
	f.looseCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.loose[key(artist, title)], nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestIngestResolvesNewTracks(t *testing.T) {
	st := newTestStore(t)
	cat := &fakeCatalog{
		strict: map[string]*catalog.Match{
			key("Big Thief", "Simulation Swarm"): {
				Artists: []string{"Big Thief"},
				Title:   "Simulation Swarm",
				Ref:     "spotify:track:swarm",
			},
		},
	}
	r := New(st, cat, false)

	summary, err := r.Ingest(context.Background(), []producer.Track{
		{Artist: "Big Thief", Title: "Simulation Swarm", Source: "Pitchfork"},
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if summary.Inserted != 1 || summary.Resolved != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if len(summary.ResolvedRefs) != 1 || summary.ResolvedRefs[0] != "spotify:track:swarm" {
		t.Errorf("unexpected resolved refs: %v", summary.ResolvedRefs)
	}
	if cat.looseCalls != 0 {
		t.Errorf("loose stage should not run after a strict hit, got %d calls", cat.looseCalls)
	}

	track, err := st.Lookup("Big Thief", "Simulation Swarm")
	if err != nil || track == nil {
		t.Fatalf("Lookup failed: track=%v err=%v", track, err)
	}
	if track.CatalogRef != "spotify:track:swarm" {
		t.Errorf("catalog ref not persisted: %q", track.CatalogRef)
	}
}

func TestIngestFallsBackToLooseStage(t *testing.T) {
	st := newTestStore(t)
	cat := &fakeCatalog{
		loose: map[string]*catalog.Match{
			key("MGMT", "Mother Nature"): {
				Artists: []string{"MGMT"},
				Title:   "Mother Nature",
				Ref:     "spotify:track:nature",
			},
		},
	}
	r := New(st, cat, false)

	summary, err := r.Ingest(context.Background(), []producer.Track{
		{Artist: "MGMT", Title: "Mother Nature", Source: "Stereogum"},
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if summary.Resolved != 1 {
		t.Errorf("expected loose-stage resolution, got %+v", summary)
	}
	if cat.strictCalls != 1 || cat.looseCalls != 1 {
		t.Errorf("expected both stages once, got strict=%d loose=%d", cat.strictCalls, cat.looseCalls)
	}
}

func TestIngestRejectsUnverifiedMatch(t *testing.T) {
	st := newTestStore(t)
	// The catalog returns a near miss at both stages
	near := &catalog.Match{Artists: []string{"Boy Genius Band"}, Title: "Emily I'm Sorry", Ref: "spotify:track:wrong"}
	cat := &fakeCatalog{
		strict: map[string]*catalog.Match{key("Boy Genius", "Emily I'm Sorry"): near},
		loose:  map[string]*catalog.Match{key("Boy Genius", "Emily I'm Sorry"): near},
	}
	r := New(st, cat, false)

	summary, err := r.Ingest(context.Background(), []producer.Track{
		{Artist: "Boy Genius", Title: "Emily I'm Sorry", Source: "Pitchfork"},
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if summary.Resolved != 0 || summary.Unresolved != 1 {
		t.Errorf("near miss must stay unresolved: %+v", summary)
	}
	if len(summary.UnresolvedTracks) != 1 || summary.UnresolvedTracks[0] != "Boy Genius - Emily I'm Sorry" {
		t.Errorf("unresolved identity should be listed: %v", summary.UnresolvedTracks)
	}

	track, _ := st.Lookup("Boy Genius", "Emily I'm Sorry")
	if track == nil || track.CatalogRef != "" {
		t.Errorf("track should be stored without a ref: %+v", track)
	}
}

func TestIngestSkipsResolutionForDuplicates(t *testing.T) {
	st := newTestStore(t)
	cat := &fakeCatalog{}
	r := New(st, cat, false)

	first := []producer.Track{{Artist: "Mitski", Title: "Star", Source: "Pitchfork"}}
	if _, err := r.Ingest(context.Background(), first); err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}
	callsAfterFirst := cat.strictCalls + cat.looseCalls

	// Same identity again, different casing and source
	second := []producer.Track{{Artist: "mitski", Title: "STAR", Source: "Stereogum"}}
	summary, err := r.Ingest(context.Background(), second)
	if err != nil {
		t.Fatalf("second Ingest failed: %v", err)
	}
	if summary.Duplicates != 1 || summary.Inserted != 0 {
		t.Errorf("duplicate not detected: %+v", summary)
	}
	if cat.strictCalls+cat.looseCalls != callsAfterFirst {
		t.Error("resolution must not be retried for an already-seen identity")
	}
}

func TestIngestIsolatesLookupFailures(t *testing.T) {
	st := newTestStore(t)
	cat := &fakeCatalog{err: errors.New("catalog down")}
	r := New(st, cat, false)

	summary, err := r.Ingest(context.Background(), []producer.Track{
		{Artist: "A", Title: "One", Source: "s"},
		{Artist: "B", Title: "Two", Source: "s"},
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if summary.Inserted != 2 {
		t.Errorf("both tracks should be stored despite catalog failures: %+v", summary)
	}
	if summary.LookupFailures != 2 || summary.Unresolved != 2 {
		t.Errorf("lookup failures should count as unresolved: %+v", summary)
	}
	if len(summary.UnresolvedTracks) != 2 || summary.UnresolvedTracks[0] != "A - One" {
		t.Errorf("unresolved identities should be listed: %v", summary.UnresolvedTracks)
	}

	if n, err := st.CountTracks(); err != nil || n != 2 {
		t.Errorf("CountTracks = %d, %v; want 2", n, err)
	}
}

func TestIngestDryRunWritesNothing(t *testing.T) {
	st := newTestStore(t)

	// Pre-seed one identity so the dry run sees a duplicate
	if _, _, err := st.Record("Mitski", "Star", "Pitchfork"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	cat := &fakeCatalog{}
	r := New(st, cat, true)

	summary, err := r.Ingest(context.Background(), []producer.Track{
		{Artist: "Mitski", Title: "Star", Source: "Stereogum"},
		{Artist: "Big Thief", Title: "Simulation Swarm", Source: "Pitchfork"},
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if summary.Inserted != 1 || summary.Duplicates != 1 {
		t.Errorf("unexpected dry-run summary: %+v", summary)
	}
	if cat.strictCalls != 0 || cat.looseCalls != 0 {
		t.Error("dry run must not touch the catalog")
	}
	if n, _ := st.CountTracks(); n != 1 {
		t.Errorf("dry run wrote to the store: %d tracks", n)
	}
}

func TestIngestDryRunDedupesWithinBatch(t *testing.T) {
	st := newTestStore(t)
	r := New(st, nil, true)

	// Two sources reporting the same brand-new identity must count as
	// one insert and one duplicate, matching what a real run records
	summary, err := r.Ingest(context.Background(), []producer.Track{
		{Artist: "Big Thief", Title: "Simulation Swarm", Source: "Pitchfork"},
		{Artist: "big thief", Title: "simulation swarm", Source: "Stereogum"},
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if summary.Inserted != 1 || summary.Duplicates != 1 {
		t.Errorf("in-batch repeat miscounted: %+v", summary)
	}
	if n, _ := st.CountTracks(); n != 0 {
		t.Errorf("dry run wrote to the store: %d tracks", n)
	}
}
