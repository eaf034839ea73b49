package reconcile

import (
	"context"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/franz/music-collector/internal/catalog"
	"github.com/franz/music-collector/internal/producer"
	"github.com/franz/music-collector/internal/report"
	"github.com/franz/music-collector/internal/store"
	"github.com/franz/music-collector/internal/util"
)

// Catalog is the slice of the external catalog the reconciler needs:
// two search stages, strict first, exercised at most once per new
// identity
type Catalog interface {
	SearchStrict(ctx context.Context, artist, title string) (*catalog.Match, error)
	SearchLoose(ctx context.Context, artist, title string) (*catalog.Match, error)
}

// Summary reports what one ingest pass did
type Summary struct {
	Candidates     int
	Inserted       int
	Duplicates     int
	Resolved       int
	Unresolved     int
	LookupFailures int
	StoreFailures  int

	// ResolvedRefs holds the catalog refs resolved this pass, in
	// candidate order, for the caller to push into the live collection
	ResolvedRefs []string

	// UnresolvedTracks lists the identities that stayed unresolved,
	// as "Artist - Title", in candidate order
	UnresolvedTracks []string
}

// Reconciler drives ingestion: dedup against the store, then resolve
// fresh identities against the catalog
type Reconciler struct {
	store   *store.Store
	catalog Catalog
	dryRun  bool
	events  *report.EventLogger
}

func New(st *store.Store, cat Catalog, dryRun bool) *Reconciler {
	return &Reconciler{store: st, catalog: cat, dryRun: dryRun}
}

// WithEvents attaches an event logger; per-track outcomes land in the
// run's JSONL journal
func (r *Reconciler) WithEvents(events *report.EventLogger) *Reconciler {
	r.events = events
	return r
}

// Ingest processes candidates one at a time. Duplicates are dropped
// without touching the catalog; a brand-new identity gets exactly one
// resolution attempt, and whatever the outcome it is never retried on
// later runs. Failures on one candidate never stop the rest.
//
// In dry-run mode nothing is written: candidates are only checked
// against the store and counted.
func (r *Reconciler) Ingest(ctx context.Context, candidates []producer.Track) (*Summary, error) {
	summary := &Summary{Candidates: len(candidates)}

	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() && !r.dryRun {
		bar = progressbar.NewOptions(len(candidates),
			progressbar.OptionSetDescription("Reconciling"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	// In dry mode the store never sees the batch, so in-batch repeats
	// have to be tracked here to report what a real run would
	seen := make(map[string]bool)

	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		r.ingestOne(ctx, cand, summary, seen)
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	return summary, nil
}

func (r *Reconciler) ingestOne(ctx context.Context, cand producer.Track, summary *Summary, seen map[string]bool) {
	if r.dryRun {
		key := identityOf(cand)
		if seen[key] {
			summary.Duplicates++
			return
		}
		seen[key] = true

		existing, err := r.store.Lookup(cand.Artist, cand.Title)
		if err != nil {
			util.WarnLog("Lookup failed for %s - %s: %v", cand.Artist, cand.Title, err)
			summary.StoreFailures++
			return
		}
		if existing == nil {
			util.InfoLog("[dry-run] Would add: %s - %s (%s)", cand.Artist, cand.Title, cand.Source)
			summary.Inserted++
		} else {
			summary.Duplicates++
		}
		return
	}

	track, inserted, err := r.store.Record(cand.Artist, cand.Title, cand.Source)
	if err != nil {
		util.WarnLog("Failed to record %s - %s: %v", cand.Artist, cand.Title, err)
		summary.StoreFailures++
		return
	}
	if !inserted {
		util.DebugLog("Duplicate: %s - %s (first seen from %s)", track.Artist, track.Title, track.Source)
		r.events.LogDedup(cand.Artist, cand.Title, cand.Source)
		summary.Duplicates++
		return
	}
	summary.Inserted++

	ref, stage, err := r.resolve(ctx, cand.Artist, cand.Title)
	if err != nil {
		util.WarnLog("Catalog lookup failed for %s - %s: %v", cand.Artist, cand.Title, err)
		r.events.LogSkip(cand.Artist, cand.Title, "lookup failed: "+err.Error())
		summary.LookupFailures++
		summary.Unresolved++
		summary.UnresolvedTracks = append(summary.UnresolvedTracks, cand.Artist+" - "+cand.Title)
		return
	}
	if ref == "" {
		util.DebugLog("No catalog match: %s - %s", cand.Artist, cand.Title)
		r.events.LogSkip(cand.Artist, cand.Title, "no catalog match")
		summary.Unresolved++
		summary.UnresolvedTracks = append(summary.UnresolvedTracks, cand.Artist+" - "+cand.Title)
		return
	}

	if err := r.store.SetCatalogRef(track.ID, ref); err != nil {
		util.WarnLog("Failed to store catalog ref for %s - %s: %v", cand.Artist, cand.Title, err)
		summary.StoreFailures++
		return
	}
	r.events.LogResolve(cand.Artist, cand.Title, ref, stage)
	summary.Resolved++
	summary.ResolvedRefs = append(summary.ResolvedRefs, ref)
}

// identityOf builds the same case-insensitive key the store's unique
// index enforces
func identityOf(cand producer.Track) string {
	return strings.ToLower(strings.TrimSpace(cand.Artist)) + "\x00" +
		strings.ToLower(strings.TrimSpace(cand.Title))
}

// resolve runs the two-stage search. The strict stage pins artist and
// title to their query fields; the loose stage is free text for cases
// where the catalog spells a credit differently. Either way the top
// result must pass the exact-match gate or the track stays unresolved.
func (r *Reconciler) resolve(ctx context.Context, artist, title string) (ref, stage string, err error) {
	match, err := r.catalog.SearchStrict(ctx, artist, title)
	if err != nil {
		return "", "", err
	}
	if verifyMatch(match, artist, title) {
		return match.Ref, "strict", nil
	}

	match, err = r.catalog.SearchLoose(ctx, artist, title)
	if err != nil {
		return "", "", err
	}
	if verifyMatch(match, artist, title) {
		return match.Ref, "loose", nil
	}
	return "", "", nil
}
