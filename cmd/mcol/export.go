package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/franz/music-collector/internal/backup"
	"github.com/franz/music-collector/internal/export"
	"github.com/franz/music-collector/internal/util"
)

var exportCmd = &cobra.Command{
	Use:   "export <quarter>",
	Short: "Export a quarterly backup as CSV or plain text",
	Long: `Export one quarter's backup for playlist conversion tools.

CSV output suits TuneMyMusic and Soundiiz; TXT is an "Artist - Title"
list for manual searching. By default only tracks that were matched on
Spotify are exported; --all includes the unmatched ones too.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", export.FormatCSV, "output format (csv or txt)")
	exportCmd.Flags().Bool("all", false, "include tracks without a catalog match")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	setupLogging()

	format, _ := cmd.Flags().GetString("format")
	includeAll, _ := cmd.Flags().GetBool("all")

	mgr := backup.NewManager(dataDir())
	q, err := mgr.Find(args[0], time.Now().Year())
	if err != nil {
		quarters, listErr := mgr.List()
		if listErr == nil && len(quarters) > 0 {
			labels := make([]string, 0, len(quarters))
			for _, avail := range quarters {
				labels = append(labels, avail.Label())
			}
			util.InfoLog("Available backups: %v", labels)
		}
		return err
	}

	entries, err := mgr.Load(q)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	path, err := export.NewExporter(dataDir()).Write(q.Label(), format, entries, includeAll)
	if err != nil {
		return err
	}

	util.SuccessLog("Exported %s to %s", q, path)
	if format == export.FormatCSV {
		util.InfoLog("Import via https://www.tunemymusic.com/ (source: File, destination: any platform)")
	}
	return nil
}
