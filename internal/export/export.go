// Package export renders quarterly snapshots as CSV or plain text for
// playlist conversion tools (TuneMyMusic, Soundiiz) and manual import.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/franz/music-collector/internal/backup"
	"github.com/franz/music-collector/internal/util"
)

// Formats accepted by Write
const (
	FormatCSV = "csv"
	FormatTXT = "txt"
)

// Exporter writes export files under one directory
type Exporter struct {
	dir string

	// now is swappable for tests; file names carry a timestamp
	now func() time.Time
}

func NewExporter(dataDir string) *Exporter {
	return &Exporter{dir: filepath.Join(dataDir, "exports"), now: time.Now}
}

// Write renders entries in the given format and returns the path of
// the created file. Unresolved entries are skipped unless includeAll
// is set; conversion tools choke on tracks the catalog never matched.
func (e *Exporter) Write(label, format string, entries []backup.Entry, includeAll bool) (string, error) {
	if !includeAll {
		kept := entries[:0:0]
		for _, entry := range entries {
			if entry.CatalogRef != "" {
				kept = append(kept, entry)
			}
		}
		entries = kept
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w: no exportable tracks", util.ErrNotFound)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	stamp := e.now().Format("20060102_150405")
	switch strings.ToLower(format) {
	case FormatCSV:
		path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.csv", label, stamp))
		return path, e.writeCSV(path, entries)
	case FormatTXT:
		path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.txt", label, stamp))
		return path, e.writeTXT(path, entries)
	default:
		return "", fmt.Errorf("%w: unknown export format %q", util.ErrInvalidConfig, format)
	}
}

func (e *Exporter) writeCSV(path string, entries []backup.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Artist", "Title"}); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := w.Write([]string{entry.Artist, entry.Title}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return f.Close()
}

func (e *Exporter) writeTXT(path string, entries []backup.Entry) error {
	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s - %s\n", entry.Artist, entry.Title)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
