package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/music-collector/internal/archive"
	"github.com/franz/music-collector/internal/backup"
	"github.com/franz/music-collector/internal/catalog"
	"github.com/franz/music-collector/internal/notify"
	"github.com/franz/music-collector/internal/producer"
	"github.com/franz/music-collector/internal/reconcile"
	"github.com/franz/music-collector/internal/report"
	"github.com/franz/music-collector/internal/store"
	"github.com/franz/music-collector/internal/util"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect, reconcile and archive tracks",
	Long: `Run one full collection pass:

1. Fetch candidates from every configured source
2. Deduplicate against the local database
3. Archive live playlist entries from previous quarters
4. Match new tracks on Spotify and add them to the live playlist
5. Write the quarterly JSON backup and send the optional notification

With --dry-run, candidates are only checked against the database and
reported; nothing is written anywhere.`,
	RunE: runCollect,
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "report what would happen without writing")
	rootCmd.AddCommand(runCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	setupLogging()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	dbPath := viper.GetString("db")
	startTime := time.Now()

	// One run at a time; overlapping cron and manual runs corrupt the
	// playlist bookkeeping
	lock, err := util.AcquireRunLock(dataDir())
	if err != nil {
		if errors.Is(err, util.ErrLocked) {
			return fmt.Errorf("another run is already in progress")
		}
		return err
	}
	defer lock.Release()

	util.InfoLog("Opening database: %s", dbPath)
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	logLevel := report.LevelInfo
	if viper.GetBool("quiet") {
		logLevel = report.LevelWarning
	} else if viper.GetBool("verbose") {
		logLevel = report.LevelDebug
	}

	events, err := report.NewEventLogger(filepath.Join(dataDir(), "events"), logLevel)
	if err != nil {
		util.WarnLog("Failed to create event logger: %v", err)
		events = report.NullLogger()
	}
	defer events.Close()

	summary := &report.RunSummary{
		StartedAt:    startTime,
		DryRun:       dryRun,
		EventLogPath: events.Path(),
	}
	defer func() {
		summary.Duration = time.Since(startTime)
		summary.Print(os.Stdout)
	}()

	// Phase 1: collection
	util.InfoLog("=== Phase 1: Collection ===")
	producers := producer.DefaultRegistry(producer.Config{
		MaxPerSource: GetConfigInt("max_per_source", producer.DefaultMaxPerSource),
	})
	candidates, failures := producer.CollectAll(ctx, producers)

	summary.Candidates = len(candidates)
	summary.SourceCounts = make(map[string]int)
	for _, c := range candidates {
		summary.SourceCounts[c.Source]++
	}
	for _, f := range failures {
		summary.SourceFailures = append(summary.SourceFailures, f.Producer)
		events.LogFetch(f.Producer, 0, f.Err)
	}
	for source, count := range summary.SourceCounts {
		events.LogFetch(source, count, nil)
	}

	if dryRun {
		util.InfoLog("")
		util.InfoLog("=== Dry run: checking against database only ===")
		rec := reconcile.New(db, nil, true)
		ingested, err := rec.Ingest(ctx, candidates)
		if err != nil {
			return err
		}
		fillReconcileCounts(summary, ingested)
		return nil
	}

	// Phase 2: catalog session
	util.InfoLog("")
	util.InfoLog("=== Phase 2: Catalog session ===")
	catCfg := catalogConfig()
	if err := catCfg.Validate(); err != nil {
		return err
	}
	client := catalog.NewClient(catCfg)
	defer client.Close()

	name := playlistName()
	liveID, err := client.EnsurePlaylist(ctx, name, DefaultPlaylistDescription)
	if err != nil {
		return fmt.Errorf("failed to resolve live playlist: %w", err)
	}
	util.InfoLog("Live playlist: %s (%s)", name, liveID)

	// Pull tracks left behind by a renamed or superseded playlist
	if legacy := viper.GetString("legacy_playlist"); legacy != "" && legacy != name {
		if err := client.MergeLegacyPlaylist(ctx, liveID, legacy); err != nil {
			util.WarnLog("Legacy playlist merge failed: %v", err)
		}
	}

	// Phase 3: quarterly archival, before new tracks land so they can
	// never be swept into the previous quarter's bucket
	util.InfoLog("")
	util.InfoLog("=== Phase 3: Quarterly archival ===")
	archiver := archive.New(catalog.NewCollections(client, liveID, name)).WithEvents(events)
	archResult, err := archiver.ArchiveStale(ctx)
	if err != nil {
		util.WarnLog("Archival failed, continuing with collection: %v", err)
		events.LogError(report.EventArchive, err)
	} else {
		summary.Migrated = archResult.Migrated
		summary.ArchiveFailed = len(archResult.Failed)
		for _, b := range archResult.Buckets {
			summary.ArchivedBuckets = append(summary.ArchivedBuckets, b.Quarter.String())
			events.LogArchive(b.Quarter.String(), b.Migrated, b.Failed)
		}
	}

	// Phase 4: reconciliation
	util.InfoLog("")
	util.InfoLog("=== Phase 4: Reconciliation ===")
	rec := reconcile.New(db, client, false).WithEvents(events)
	ingested, err := rec.Ingest(ctx, candidates)
	if err != nil {
		return err
	}
	fillReconcileCounts(summary, ingested)

	if len(ingested.ResolvedRefs) > 0 {
		if err := client.AddTracks(ctx, liveID, ingested.ResolvedRefs); err != nil {
			util.WarnLog("Failed to add tracks to live playlist: %v", err)
			events.LogError(report.EventResolve, err)
		} else {
			util.SuccessLog("Added %d tracks to %s", len(ingested.ResolvedRefs), name)
		}
	}

	// Phase 5: backup and notification
	util.InfoLog("")
	util.InfoLog("=== Phase 5: Backup ===")
	quarter := archive.QuarterOf(startTime)
	entries := backupEntries(db, startTime)
	added, err := backup.NewManager(dataDir()).Save(quarter, entries)
	if err != nil {
		util.WarnLog("Backup failed: %v", err)
		events.LogError(report.EventBackup, err)
	} else if added > 0 {
		util.SuccessLog("Backed up %d tracks to %s", added, quarter)
		events.LogBackup(quarter.String(), added)
		summary.BackedUp = added
	}

	notify.New(notifyConfig()).Send(ctx, notify.Summary{
		NewTracks:  ingested.Inserted,
		Resolved:   ingested.Resolved,
		Unresolved: ingested.Unresolved,
		BySource:   summary.SourceCounts,
	})

	return nil
}

func fillReconcileCounts(summary *report.RunSummary, s *reconcile.Summary) {
	summary.Inserted = s.Inserted
	summary.Duplicates = s.Duplicates
	summary.Resolved = s.Resolved
	summary.Unresolved = s.Unresolved
	summary.UnresolvedTracks = s.UnresolvedTracks
	summary.LookupFailures = s.LookupFailures
	summary.StoreFailures = s.StoreFailures
}

// backupEntries pulls the tracks first seen during this run, with
// whatever catalog refs they resolved to
func backupEntries(db *store.Store, since time.Time) []backup.Entry {
	tracks, err := db.Recent(since)
	if err != nil {
		util.WarnLog("Failed to read new tracks for backup: %v", err)
		return nil
	}
	entries := make([]backup.Entry, 0, len(tracks))
	for _, t := range tracks {
		entries = append(entries, backup.Entry{
			Artist:     t.Artist,
			Title:      t.Title,
			Source:     t.Source,
			CatalogRef: t.CatalogRef,
			AddedAt:    t.FirstSeenAt,
		})
	}
	return entries
}
