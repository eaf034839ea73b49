package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Track represents one stored track identity
type Track struct {
	ID          int64
	Artist      string
	Title       string
	Source      string
	CatalogRef  string // empty means not resolved in the catalog
	FirstSeenAt time.Time
}

// Resolved reports whether the track has a catalog reference
func (t *Track) Resolved() bool {
	return t.CatalogRef != ""
}

// Lookup retrieves a track by its case-insensitive identity key.
// Returns nil (not an error) when the identity has never been seen.
func (s *Store) Lookup(artist, title string) (*Track, error) {
	t := &Track{}
	err := s.db.QueryRow(`
		SELECT id, artist, title, source, COALESCE(catalog_ref, ''), first_seen_at
		FROM tracks
		WHERE artist = ? COLLATE NOCASE AND title = ? COLLATE NOCASE
	`, strings.TrimSpace(artist), strings.TrimSpace(title)).Scan(
		&t.ID, &t.Artist, &t.Title, &t.Source, &t.CatalogRef, &t.FirstSeenAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up track: %w", err)
	}

	return t, nil
}

// Record inserts a track identity if it has never been seen.
// When an identity-key match already exists, the stored record is
// returned unchanged with inserted=false; re-ingestion is idempotent.
// The ON CONFLICT clause rides on the unique identity index, so the
// upsert-if-absent is atomic on the single writer connection.
func (s *Store) Record(artist, title, source string) (*Track, bool, error) {
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)

	result, err := s.db.Exec(`
		INSERT INTO tracks (artist, title, source)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`, artist, title, source)
	if err != nil {
		return nil, false, fmt.Errorf("failed to record track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to record track: %w", err)
	}
	inserted := rows == 1

	track, err := s.Lookup(artist, title)
	if err != nil {
		return nil, false, err
	}
	if track == nil {
		return nil, false, fmt.Errorf("track vanished after insert: %s - %s", artist, title)
	}

	return track, inserted, nil
}

// SetCatalogRef resolves a track against the external catalog.
// A ref is set at most once: if the record already carries a non-empty
// catalog_ref the call is a no-op, so a later weaker match can never
// downgrade an earlier strong one.
func (s *Store) SetCatalogRef(id int64, ref string) error {
	if ref == "" {
		return fmt.Errorf("catalog ref cannot be empty")
	}

	_, err := s.db.Exec(`
		UPDATE tracks SET catalog_ref = ?
		WHERE id = ? AND (catalog_ref IS NULL OR catalog_ref = '')
	`, ref, id)
	if err != nil {
		return fmt.Errorf("failed to set catalog ref: %w", err)
	}

	return nil
}

// Recent returns all tracks first seen at or after the cutoff,
// newest first. Used for reporting, never for dedup decisions.
func (s *Store) Recent(since time.Time) ([]*Track, error) {
	// first_seen_at defaults to CURRENT_TIMESTAMP, which SQLite stores as
	// "YYYY-MM-DD HH:MM:SS" text; compare against the same format
	cutoff := since.UTC().Format("2006-01-02 15:04:05")
	rows, err := s.db.Query(`
		SELECT id, artist, title, source, COALESCE(catalog_ref, ''), first_seen_at
		FROM tracks
		WHERE first_seen_at >= ?
		ORDER BY first_seen_at DESC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*Track
	for rows.Next() {
		t := &Track{}
		err := rows.Scan(&t.ID, &t.Artist, &t.Title, &t.Source, &t.CatalogRef, &t.FirstSeenAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}

	return tracks, rows.Err()
}

// CountTracks returns the total number of stored identities
func (s *Store) CountTracks() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM tracks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}

// CountResolved returns the number of identities with a catalog ref
func (s *Store) CountResolved() (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM tracks
		WHERE catalog_ref IS NOT NULL AND catalog_ref != ''
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count resolved tracks: %w", err)
	}
	return count, nil
}

// CountBySource returns identity counts grouped by producer name
func (s *Store) CountBySource() (map[string]int, error) {
	rows, err := s.db.Query("SELECT source, COUNT(*) FROM tracks GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("failed to count by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		counts[source] = count
	}

	return counts, rows.Err()
}
