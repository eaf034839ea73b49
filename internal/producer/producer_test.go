package producer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const pitchforkFixture = `<html><body>
<div class="SummaryItemWrapper-abc123">
  <h3 class="summary-item__hed-xyz">“Simulation Swarm”</h3>
  <div class="summary-item__sub-hed-xyz">Big Thief</div>
</div>
<div class="SummaryItemWrapper-def456">
  <h3 class="summary-item__hed-xyz">“Sé Miimii” [ft. DJ Skycee]</h3>
  <div class="summary-item__sub-hed-xyz">Yaya Bey</div>
</div>
<div class="SummaryItemWrapper-ghi789">
  <h3 class="summary-item__hed-xyz">“Simulation Swarm”</h3>
  <div class="summary-item__sub-hed-xyz">Big Thief</div>
</div>
</body></html>`

const stereogumFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<item>
  <title>Waxahatchee — “Right Back To It”</title>
  <category>New Music</category>
</item>
<item>
  <title>The 25 Best Albums Of The Year So Far</title>
  <category>Lists</category>
</item>
<item>
  <title>Momma Announce New Album — Hear “I Want You (Fever)”</title>
  <category>Track Premiere</category>
</item>
</channel></rss>`

const lobfFixture = `<html><body>
<a href="/tracks/mx-lonely-anesthetic">MX LONELY numb the pain on full-intensity eruption 'Anesthetic'</a>
<a href="/tracks/mx-lonely-anesthetic">MX LONELY numb the pain on full-intensity eruption 'Anesthetic'</a>
<a href="/features/interview">Some unrelated feature link</a>
<a href="/tracks/fontaines-starburster">Fontaines D.C. share hypnotic new track 'Starburster'</a>
</body></html>`

func serveFixture(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("unexpected User-Agent: %q", ua)
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPitchforkFetch(t *testing.T) {
	srv := serveFixture(t, pitchforkFixture)
	p := NewPitchfork(Config{})
	p.url = srv.URL

	tracks, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks (duplicate dropped), got %d: %+v", len(tracks), tracks)
	}
	if tracks[0].Artist != "Big Thief" || tracks[0].Title != "Simulation Swarm" {
		t.Errorf("unexpected first track: %+v", tracks[0])
	}
	if tracks[1].Title != "Sé Miimii [ft. DJ Skycee]" {
		t.Errorf("quote cleanup failed: %q", tracks[1].Title)
	}
	if tracks[0].Source != "Pitchfork" {
		t.Errorf("unexpected source: %q", tracks[0].Source)
	}
}

func TestStereogumFetch(t *testing.T) {
	srv := serveFixture(t, stereogumFixture)
	s := NewStereogum(Config{})
	s.url = srv.URL

	tracks, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks (list post filtered), got %d: %+v", len(tracks), tracks)
	}
	if tracks[0].Artist != "Waxahatchee" || tracks[0].Title != "Right Back To It" {
		t.Errorf("unexpected first track: %+v", tracks[0])
	}
	if tracks[1].Artist != "Momma" || tracks[1].Title != "I Want You (Fever)" {
		t.Errorf("unexpected second track: %+v", tracks[1])
	}
}

func TestLineOfBestFitFetch(t *testing.T) {
	srv := serveFixture(t, lobfFixture)
	l := NewLineOfBestFit(Config{})
	l.url = srv.URL

	tracks, err := l.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d: %+v", len(tracks), tracks)
	}
	if tracks[0].Artist != "MX LONELY" || tracks[0].Title != "Anesthetic" {
		t.Errorf("unexpected first track: %+v", tracks[0])
	}
	if tracks[1].Artist != "Fontaines D.C." || tracks[1].Title != "Starburster" {
		t.Errorf("unexpected second track: %+v", tracks[1])
	}
}

func TestFetchMaxPerSource(t *testing.T) {
	srv := serveFixture(t, pitchforkFixture)
	p := NewPitchfork(Config{MaxPerSource: 1})
	p.url = srv.URL

	tracks, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(tracks) != 1 {
		t.Errorf("expected cap of 1 track, got %d", len(tracks))
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewPitchfork(Config{})
	p.url = srv.URL

	if _, err := p.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

type stubProducer struct {
	name   string
	tracks []Track
	err    error
}

func (s *stubProducer) Name() string { return s.name }
func (s *stubProducer) Fetch(ctx context.Context) ([]Track, error) {
	return s.tracks, s.err
}

func TestCollectAllIsolatesFailures(t *testing.T) {
	producers := []Producer{
		&stubProducer{name: "ok-1", tracks: []Track{{Artist: "A", Title: "1", Source: "ok-1"}}},
		&stubProducer{name: "broken", err: errors.New("boom")},
		&stubProducer{name: "ok-2", tracks: []Track{{Artist: "B", Title: "2", Source: "ok-2"}}},
	}

	tracks, failures := CollectAll(context.Background(), producers)
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	// Registry order must hold regardless of goroutine scheduling
	if tracks[0].Source != "ok-1" || tracks[1].Source != "ok-2" {
		t.Errorf("tracks out of registry order: %+v", tracks)
	}
	if len(failures) != 1 || failures[0].Producer != "broken" {
		t.Errorf("unexpected failures: %+v", failures)
	}
}
