package producer

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Sufjan   Stevens  ", "Sufjan Stevens"},
		{"Video\n\tGame", "Video Game"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrimTitleQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`“Hard”`, "Hard"},
		{`"Sé Miimii" [ft. DJ Skycee]`, "Sé Miimii [ft. DJ Skycee]"},
		{`‘Anesthetic’`, "Anesthetic"},
		{"No Quotes", "No Quotes"},
	}
	for _, tt := range tests {
		if got := TrimTitleQuotes(tt.in); got != tt.want {
			t.Errorf("TrimTitleQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitArtistTitle(t *testing.T) {
	tests := []struct {
		in     string
		artist string
		title  string
		ok     bool
	}{
		{"Panda Bear – Ferry Lady", "Panda Bear", "Ferry Lady", true},
		{"Sharon Van Etten - Heal Your Wounds", "Sharon Van Etten", "Heal Your Wounds", true},
		{`Oneohtrix Point Never: "Plastic"`, "Oneohtrix Point Never", "Plastic", true},
		{"a headline with no separator", "", "", false},
		{" – no artist half", "", "", false},
	}
	for _, tt := range tests {
		artist, title, ok := SplitArtistTitle(tt.in)
		if ok != tt.ok || artist != tt.artist || title != tt.title {
			t.Errorf("SplitArtistTitle(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, artist, title, ok, tt.artist, tt.title, tt.ok)
		}
	}
}

func TestCutAtVerb(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Harry Styles takes things slow on", "Harry Styles"},
		{"Blackwater Holylight Explore Darkness on", "Blackwater Holylight"},
		{"Wolf Alice", "Wolf Alice"},
		// The first word never counts as a verb
		{"Shares of sorrow", "Shares of sorrow"},
	}
	for _, tt := range tests {
		if got := cutAtVerb(tt.in, spinVerbRe); got != tt.want {
			t.Errorf("cutAtVerb(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseStereogumTitle(t *testing.T) {
	tests := []struct {
		in     string
		artist string
		title  string
		ok     bool
	}{
		{`Waxahatchee — “Right Back To It”`, "Waxahatchee", "Right Back To It", true},
		{`Godspeed You! Black Emperor Announce New Album — Hear “Raindrops Cast In Lead”`, "Godspeed You! Black Emperor", "Raindrops Cast In Lead", true},
		{`The 25 Best Albums Of The Year So Far`, "", "", false},
	}
	for _, tt := range tests {
		artist, title, ok := parseStereogumTitle(tt.in)
		if ok != tt.ok || artist != tt.artist || title != tt.title {
			t.Errorf("parseStereogumTitle(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, artist, title, ok, tt.artist, tt.title, tt.ok)
		}
	}
}

func TestParseLOBFTitle(t *testing.T) {
	tests := []struct {
		in     string
		artist string
		title  string
		ok     bool
	}{
		{`MX LONELY numb the pain on full-intensity eruption 'Anesthetic'`, "MX LONELY", "Anesthetic", true},
		{`Charlie Le Mindu's musical project shares new single 'Glitter'`, "Charlie Le Mindu", "Glitter", true},
		{`Fontaines D.C. share hypnotic new track 'Starburster'`, "Fontaines D.C.", "Starburster", true},
		{`an article with no quoted title at all`, "", "", false},
	}
	for _, tt := range tests {
		artist, title, ok := parseLOBFTitle(tt.in)
		if ok != tt.ok || artist != tt.artist || title != tt.title {
			t.Errorf("parseLOBFTitle(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.in, artist, title, ok, tt.artist, tt.title, tt.ok)
		}
	}
}

func TestDedupeTracks(t *testing.T) {
	in := []Track{
		{Artist: "Mitski", Title: "Star", Source: "a"},
		{Artist: "mitski", Title: "STAR", Source: "a"},
		{Artist: "Mitski", Title: "Heaven", Source: "a"},
	}
	out := dedupeTracks(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 tracks after dedupe, got %d", len(out))
	}
	if out[0].Title != "Star" || out[1].Title != "Heaven" {
		t.Errorf("dedupe should keep first occurrence order, got %+v", out)
	}
}
