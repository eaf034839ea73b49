package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// RunSummary aggregates what one collection run did. It is printed at
// the end of every run, including failed and dry ones, so scheduled
// executions always leave a trace in the journal.
type RunSummary struct {
	StartedAt time.Time
	Duration  time.Duration
	DryRun    bool

	// Collection
	Candidates     int
	SourceCounts   map[string]int
	SourceFailures []string

	// Reconciliation
	Inserted         int
	Duplicates       int
	Resolved         int
	Unresolved       int
	UnresolvedTracks []string
	LookupFailures   int
	StoreFailures    int

	// Archival
	Migrated        int
	ArchiveFailed   int
	ArchivedBuckets []string

	// Backup
	BackedUp int

	EventLogPath string
}

// Print renders the summary as plain text
func (s *RunSummary) Print(w io.Writer) {
	title := "Collection run complete"
	if s.DryRun {
		title = "Collection run complete (dry run, nothing written)"
	}
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("-", len(title)))

	fmt.Fprintf(w, "  Candidates:     %d\n", s.Candidates)
	if len(s.SourceCounts) > 0 {
		names := make([]string, 0, len(s.SourceCounts))
		for name := range s.SourceCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "    %-20s %d\n", name, s.SourceCounts[name])
		}
	}
	for _, name := range s.SourceFailures {
		fmt.Fprintf(w, "    %-20s failed\n", name)
	}

	fmt.Fprintf(w, "  New tracks:     %d\n", s.Inserted)
	fmt.Fprintf(w, "  Duplicates:     %d\n", s.Duplicates)
	fmt.Fprintf(w, "  Resolved:       %d\n", s.Resolved)
	fmt.Fprintf(w, "  Unresolved:     %d\n", s.Unresolved)
	for _, name := range s.UnresolvedTracks {
		fmt.Fprintf(w, "    %s\n", name)
	}
	if s.LookupFailures > 0 {
		fmt.Fprintf(w, "  Lookup errors:  %d\n", s.LookupFailures)
	}
	if s.StoreFailures > 0 {
		fmt.Fprintf(w, "  Store errors:   %d\n", s.StoreFailures)
	}

	if s.Migrated > 0 || s.ArchiveFailed > 0 {
		fmt.Fprintf(w, "  Archived:       %d", s.Migrated)
		if len(s.ArchivedBuckets) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(s.ArchivedBuckets, ", "))
		}
		fmt.Fprintln(w)
		if s.ArchiveFailed > 0 {
			fmt.Fprintf(w, "  Archive errors: %d\n", s.ArchiveFailed)
		}
	}
	if s.BackedUp > 0 {
		fmt.Fprintf(w, "  Backed up:      %d\n", s.BackedUp)
	}

	if s.Duration > 0 {
		fmt.Fprintf(w, "\n  Took %s\n", s.Duration.Round(time.Millisecond))
	}
	if s.EventLogPath != "" {
		fmt.Fprintf(w, "  Event log: %s\n", s.EventLogPath)
	}
	fmt.Fprintln(w)
}
