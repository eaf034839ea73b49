package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/music-collector/internal/archive"
	"github.com/franz/music-collector/internal/catalog"
	"github.com/franz/music-collector/internal/util"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive stale live playlist entries",
	Long: `Move every live playlist entry added in a previous quarter into its
dated archive playlist. Runs as part of every collection pass; this
command exists for catching up manually after failed runs.`,
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	setupLogging()

	lock, err := util.AcquireRunLock(dataDir())
	if err != nil {
		return err
	}
	defer lock.Release()

	catCfg := catalogConfig()
	if err := catCfg.Validate(); err != nil {
		return err
	}
	client := catalog.NewClient(catCfg)
	defer client.Close()

	name := playlistName()
	liveID, err := client.FindPlaylist(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up live playlist: %w", err)
	}
	if liveID == "" {
		util.InfoLog("Playlist %q does not exist yet, nothing to archive", name)
		return nil
	}

	archiver := archive.New(catalog.NewCollections(client, liveID, name))
	result, err := archiver.ArchiveStale(ctx)
	if err != nil {
		return fmt.Errorf("archival failed: %w", err)
	}

	if result.Migrated == 0 && len(result.Failed) == 0 {
		util.InfoLog("Live playlist has no stale entries (%d scanned)", result.Scanned)
		return nil
	}

	for _, b := range result.Buckets {
		util.SuccessLog("Archived %d entries into %s", b.Migrated, b.Quarter)
	}
	util.SuccessLog("Migrated %d of %d entries", result.Migrated, result.Scanned)
	if len(result.Failed) > 0 {
		util.WarnLog("%d entries failed and remain live; rerun to retry", len(result.Failed))
	}
	return nil
}
