package archive

import (
	"context"
	"sort"
	"time"

	"github.com/franz/music-collector/internal/report"
	"github.com/franz/music-collector/internal/util"
)

// Entry is one member of the live collection. AddedAt is assigned by
// the external catalog at insertion time; this engine only reads it.
type Entry struct {
	Ref     string
	AddedAt time.Time
}

// Collections is the surface the archiver needs from the external
// catalog: the live collection plus lazily-created archive buckets.
type Collections interface {
	ListLive(ctx context.Context) ([]Entry, error)
	// EnsureBucket resolves or creates the archive bucket for a quarter.
	// Must be idempotent: an existing bucket is reused, never duplicated.
	EnsureBucket(ctx context.Context, q Quarter) (string, error)
	ListBucket(ctx context.Context, bucket string) ([]string, error)
	AddToBucket(ctx context.Context, bucket string, ref string) error
	RemoveFromLive(ctx context.Context, ref string) error
}

// BucketResult carries one touched bucket's per-quarter counts
type BucketResult struct {
	Quarter  Quarter
	Migrated int
	Failed   int
}

// Result summarizes one archival pass
type Result struct {
	Scanned  int
	Migrated int
	Failed   []string       // refs left in the live collection for retry
	Buckets  []BucketResult // buckets touched this run, oldest first
}

// Archiver migrates stale live entries into quarter archive buckets
type Archiver struct {
	coll   Collections
	now    func() time.Time
	events *report.EventLogger
}

// New creates an archiver over the given collections
func New(coll Collections) *Archiver {
	return &Archiver{coll: coll, now: time.Now}
}

// NewAt creates an archiver with a fixed clock, for tests
func NewAt(coll Collections, now func() time.Time) *Archiver {
	return &Archiver{coll: coll, now: now}
}

// WithEvents attaches a run-event journal. Each migrated or failed
// entry is recorded individually.
func (a *Archiver) WithEvents(events *report.EventLogger) *Archiver {
	a.events = events
	return a
}

// ArchiveStale migrates every live entry whose added_at falls in a
// quarter before the current one. Each distinct prior quarter gets its
// own bucket, even if runs were skipped across several quarters. A
// failure on one entry never blocks the others; failed refs stay in
// the live collection and heal on the next run's re-attempt.
func (a *Archiver) ArchiveStale(ctx context.Context) (*Result, error) {
	result := &Result{}

	entries, err := a.coll.ListLive(ctx)
	if err != nil {
		return nil, err
	}
	result.Scanned = len(entries)

	current := QuarterOf(a.now())

	// Partition stale entries by the quarter of their added_at
	stale := make(map[Quarter][]Entry)
	for _, e := range entries {
		q := QuarterOf(e.AddedAt)
		if q.Before(current) {
			stale[q] = append(stale[q], e)
		}
	}

	if len(stale) == 0 {
		// Idempotent no-op: zero writes
		util.DebugLog("Archiver: all %d live entries belong to %s", len(entries), current)
		return result, nil
	}

	quarters := make([]Quarter, 0, len(stale))
	for q := range stale {
		quarters = append(quarters, q)
	}
	sort.Slice(quarters, func(i, j int) bool { return quarters[i].Before(quarters[j]) })

	for _, q := range quarters {
		a.migrateQuarter(ctx, q, stale[q], result)
	}

	return result, nil
}

// migrateQuarter moves one quarter's stale entries into its bucket.
// Bucket-level failures mark every entry of the quarter as failed but
// do not stop migration of other quarters.
func (a *Archiver) migrateQuarter(ctx context.Context, q Quarter, entries []Entry, result *Result) {
	bucket, err := a.coll.EnsureBucket(ctx, q)
	if err != nil {
		util.WarnLog("Archiver: failed to resolve bucket for %s: %v", q, err)
		for _, e := range entries {
			result.Failed = append(result.Failed, e.Ref)
			a.events.LogMigrate(e.Ref, q.String(), err)
		}
		return
	}

	// A previous interrupted run may have added entries to the bucket
	// without removing them from the live collection; skip the re-add
	// so the bucket stays duplicate-free. If the listing itself fails
	// the run cannot tell what is already archived, so the whole
	// quarter waits for the next run rather than risking duplicates.
	refs, err := a.coll.ListBucket(ctx, bucket)
	if err != nil {
		util.WarnLog("Archiver: failed to list bucket %s, leaving its entries for the next run: %v", q, err)
		for _, e := range entries {
			result.Failed = append(result.Failed, e.Ref)
			a.events.LogMigrate(e.Ref, q.String(), err)
		}
		result.Buckets = append(result.Buckets, BucketResult{Quarter: q, Failed: len(entries)})
		return
	}
	existing := make(map[string]bool, len(refs))
	for _, ref := range refs {
		existing[ref] = true
	}

	counts := BucketResult{Quarter: q}
	for _, e := range entries {
		if !existing[e.Ref] {
			if err := a.coll.AddToBucket(ctx, bucket, e.Ref); err != nil {
				// Entry stays live; retried next run
				util.WarnLog("Archiver: failed to archive %s to %s: %v", e.Ref, q, err)
				result.Failed = append(result.Failed, e.Ref)
				counts.Failed++
				a.events.LogMigrate(e.Ref, q.String(), err)
				continue
			}
		}

		if err := a.coll.RemoveFromLive(ctx, e.Ref); err != nil {
			// The entry is now in both containers; the bucket dedup
			// above makes the next run's re-attempt converge.
			util.WarnLog("Archiver: archived %s to %s but failed to remove from live: %v", e.Ref, q, err)
			result.Failed = append(result.Failed, e.Ref)
			counts.Failed++
			a.events.LogMigrate(e.Ref, q.String(), err)
			continue
		}

		result.Migrated++
		counts.Migrated++
		a.events.LogMigrate(e.Ref, q.String(), nil)
	}
	result.Buckets = append(result.Buckets, counts)

	util.InfoLog("Archiver: migrated %d entries to %s", counts.Migrated, q)
}
