package store

// Schema v1 - Initial database schema
//
// The unique index on (artist, title) with COLLATE NOCASE enforces the
// identity-key invariant in the database itself: no two stored records
// may share a case-insensitive (artist, title) pair.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- One record per distinct track identity
CREATE TABLE IF NOT EXISTS tracks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  artist TEXT NOT NULL,
  title TEXT NOT NULL,
  source TEXT NOT NULL,
  catalog_ref TEXT,
  first_seen_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tracks_identity
  ON tracks(artist COLLATE NOCASE, title COLLATE NOCASE);

CREATE INDEX IF NOT EXISTS idx_tracks_first_seen ON tracks(first_seen_at);
CREATE INDEX IF NOT EXISTS idx_tracks_source ON tracks(source);
`
