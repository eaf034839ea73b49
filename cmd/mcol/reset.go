package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/music-collector/internal/catalog"
	"github.com/franz/music-collector/internal/util"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the live playlist and delete the local database",
	Long: `Remove every track from the live playlist and delete the track
database, so the next run starts from scratch. Archive playlists and
quarterly backups are left untouched.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().Bool("force", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	setupLogging()

	dbPath := viper.GetString("db")
	name := playlistName()

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		fmt.Printf("This clears playlist %q and deletes %s. Continue? [y/N] ", name, dbPath)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

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

	liveID, err := client.FindPlaylist(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up live playlist: %w", err)
	}
	if liveID == "" {
		util.InfoLog("Playlist %q does not exist, nothing to clear", name)
	} else {
		removed, err := client.ClearPlaylist(ctx, liveID)
		if err != nil {
			return fmt.Errorf("failed to clear playlist: %w", err)
		}
		util.SuccessLog("Removed %d tracks from %s", removed, name)
	}

	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			util.InfoLog("Database %s does not exist", dbPath)
		} else {
			return fmt.Errorf("failed to delete database: %w", err)
		}
	} else {
		util.SuccessLog("Deleted %s", dbPath)
	}

	return nil
}
