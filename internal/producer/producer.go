// Package producer defines the candidate sources: independent scrapers
// of music review sites, each yielding raw (artist, title) candidates.
// Producers share no mutable state and are free to fail independently.
package producer

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/franz/music-collector/internal/util"
)

const (
	// DefaultUserAgent is sent on every fetch; some sites reject
	// non-browser agents outright
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	// DefaultMaxPerSource caps how many candidates one source may yield
	DefaultMaxPerSource = 50

	// DefaultTimeout bounds every page fetch
	DefaultTimeout = 30 * time.Second
)

// Track is one raw candidate as reported by a source
type Track struct {
	Artist string
	Title  string
	Source string
}

// Producer is the capability interface every candidate source
// implements. Fetch is finite and side-effect-free toward the engine's
// own state.
type Producer interface {
	Name() string
	Fetch(ctx context.Context) ([]Track, error)
}

// Config is threaded into every producer at construction time
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxPerSource int

	// HTTPClient overrides the default client, for tests
	HTTPClient *http.Client
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.UserAgent == "" {
		out.UserAgent = DefaultUserAgent
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.MaxPerSource <= 0 {
		out.MaxPerSource = DefaultMaxPerSource
	}
	return out
}

func (c *Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.Timeout}
}

// DefaultRegistry returns the shipped producers in execution order.
// Adding a source means appending its constructor here.
func DefaultRegistry(cfg Config) []Producer {
	cfg = cfg.withDefaults()
	return []Producer{
		NewPitchfork(cfg),
		NewStereogum(cfg),
		NewLineOfBestFit(cfg),
		NewConsequence(cfg),
		NewNME(cfg),
		NewSpin(cfg),
		NewRollingStone(cfg),
		NewSlant(cfg),
		NewResidentAdvisor(cfg),
		NewQuietus(cfg),
		NewGorillaVsBear(cfg),
		NewBandcampDaily(cfg),
	}
}

// FetchFailure records one producer that failed during collection
type FetchFailure struct {
	Producer string
	Err      error
}

// CollectAll runs every producer concurrently and gathers their
// candidates. One producer's failure never affects the others; failures
// come back alongside the candidates so the run summary can report
// them. Candidate order follows registry order for determinism.
func CollectAll(ctx context.Context, producers []Producer) ([]Track, []FetchFailure) {
	type outcome struct {
		tracks []Track
		err    error
	}

	outcomes := make([]outcome, len(producers))

	var wg sync.WaitGroup
	for i, p := range producers {
		wg.Add(1)
		go func(i int, p Producer) {
			defer wg.Done()
			tracks, err := p.Fetch(ctx)
			outcomes[i] = outcome{tracks: tracks, err: err}
		}(i, p)
	}
	wg.Wait()

	var all []Track
	var failures []FetchFailure
	for i, p := range producers {
		if outcomes[i].err != nil {
			util.WarnLog("Producer %s failed: %v", p.Name(), outcomes[i].err)
			failures = append(failures, FetchFailure{Producer: p.Name(), Err: outcomes[i].err})
			continue
		}
		util.InfoLog("Producer %s: %d candidates", p.Name(), len(outcomes[i].tracks))
		all = append(all, outcomes[i].tracks...)
	}

	return all, failures
}

// dedupeTracks drops repeated identities within one source's output,
// keeping first occurrence (page layouts often repeat links)
func dedupeTracks(tracks []Track) []Track {
	seen := make(map[[2]string]bool, len(tracks))
	out := tracks[:0]
	for _, t := range tracks {
		key := identityKey(t.Artist, t.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
