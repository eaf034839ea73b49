package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/music-collector/internal/store"
	"github.com/franz/music-collector/internal/util"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently collected tracks",
	Long: `Show tracks first seen within the given window, newest first,
with their resolution status and source.`,
	RunE: runRecent,
}

func init() {
	recentCmd.Flags().Int("days", 7, "how many days back to show")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	setupLogging()

	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		days = 7
	}

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	since := time.Now().AddDate(0, 0, -days)
	tracks, err := db.Recent(since)
	if err != nil {
		return fmt.Errorf("failed to query tracks: %w", err)
	}

	if len(tracks) == 0 {
		fmt.Printf("No tracks collected in the last %d days.\n", days)
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.SetAllowedRowLength(util.GetTerminalWidth())
	tw.AppendHeader(table.Row{"Artist", "Title", "Source", "Status", "First Seen"})

	resolved := 0
	for _, t := range tracks {
		status := "unresolved"
		if t.Resolved() {
			status = "resolved"
			resolved++
		}
		tw.AppendRow(table.Row{
			t.Artist,
			t.Title,
			t.Source,
			status,
			humanize.Time(t.FirstSeenAt),
		})
	}
	tw.Render()

	util.InfoLog("%d tracks, %d resolved", len(tracks), resolved)
	return nil
}
