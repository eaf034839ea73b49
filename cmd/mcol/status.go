package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/music-collector/internal/backup"
	"github.com/franz/music-collector/internal/store"
	"github.com/franz/music-collector/internal/util"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database statistics and check its health",
	Long: `Show how many tracks have been collected, how many resolved on
Spotify, the per-source breakdown and the backups on disk, after
verifying database integrity.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	setupLogging()

	dbPath := viper.GetString("db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Printf("No database at %s yet. Run 'mcol run' first.\n", dbPath)
		return nil
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.CheckIntegrity(); err != nil {
		return err
	}
	util.SuccessLog("Database integrity: ok")

	total, err := db.CountTracks()
	if err != nil {
		return err
	}
	resolved, err := db.CountResolved()
	if err != nil {
		return err
	}
	bySource, err := db.CountBySource()
	if err != nil {
		return err
	}

	fmt.Printf("\nTracks collected: %d\n", total)
	fmt.Printf("Resolved on Spotify: %d\n", resolved)
	fmt.Printf("Unresolved: %d\n\n", total-resolved)

	if len(bySource) > 0 {
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Source", "Tracks"})

		names := make([]string, 0, len(bySource))
		for name := range bySource {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return bySource[names[i]] > bySource[names[j]] })
		for _, name := range names {
			tw.AppendRow(table.Row{name, bySource[name]})
		}
		tw.Render()
	}

	quarters, err := backup.NewManager(dataDir()).List()
	if err != nil {
		util.WarnLog("Failed to list backups: %v", err)
		return nil
	}
	if len(quarters) == 0 {
		fmt.Println("\nNo quarterly backups yet.")
	} else {
		labels := make([]string, 0, len(quarters))
		for _, q := range quarters {
			labels = append(labels, q.Label())
		}
		fmt.Printf("\nQuarterly backups: %v\n", labels)
	}

	return nil
}
