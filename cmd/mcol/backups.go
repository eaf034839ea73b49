package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/franz/music-collector/internal/backup"
)

var backupsCmd = &cobra.Command{
	Use:   "backups [quarter]",
	Short: "List quarterly backups or show one quarter's tracks",
	Long: `Without arguments, list every quarterly backup on disk. With a
quarter argument (Q1, 2026Q1 or 2026/Q1), show that quarter's tracks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackups,
}

func init() {
	rootCmd.AddCommand(backupsCmd)
}

func runBackups(cmd *cobra.Command, args []string) error {
	setupLogging()
	mgr := backup.NewManager(dataDir())

	if len(args) == 0 {
		return listBackups(mgr)
	}
	return showBackup(mgr, args[0])
}

func listBackups(mgr *backup.Manager) error {
	quarters, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(quarters) == 0 {
		fmt.Println("No backups yet.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Quarter", "Tracks", "Resolved"})

	for _, q := range quarters {
		entries, err := mgr.Load(q)
		if err != nil {
			tw.AppendRow(table.Row{q.String(), "unreadable", ""})
			continue
		}
		resolved := 0
		for _, e := range entries {
			if e.CatalogRef != "" {
				resolved++
			}
		}
		tw.AppendRow(table.Row{q.String(), len(entries), resolved})
	}
	tw.Render()
	return nil
}

func showBackup(mgr *backup.Manager, query string) error {
	q, err := mgr.Find(query, time.Now().Year())
	if err != nil {
		return err
	}
	entries, err := mgr.Load(q)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(q.String())
	tw.AppendHeader(table.Row{"Artist", "Title", "Source", "Resolved"})

	for _, e := range entries {
		resolved := ""
		if e.CatalogRef != "" {
			resolved = "yes"
		}
		tw.AppendRow(table.Row{e.Artist, e.Title, e.Source, resolved})
	}
	tw.Render()
	return nil
}
