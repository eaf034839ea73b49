// Package backup persists quarterly JSON snapshots of collected
// tracks under <data>/backups/YYYY/QN.json. Snapshots are append-only
// across runs: Save merges into whatever the file already holds.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/franz/music-collector/internal/archive"
	"github.com/franz/music-collector/internal/util"
)

// Entry is one track in a quarterly snapshot
type Entry struct {
	Artist     string    `json:"artist"`
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	CatalogRef string    `json:"catalog_ref,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

// Manager reads and writes snapshots under one backups directory
type Manager struct {
	baseDir string
}

func NewManager(dataDir string) *Manager {
	return &Manager{baseDir: filepath.Join(dataDir, "backups")}
}

func (m *Manager) path(q archive.Quarter) string {
	return filepath.Join(m.baseDir, strconv.Itoa(q.Year), fmt.Sprintf("Q%d.json", q.Q))
}

// Save merges entries into the quarter's snapshot, deduplicating on
// the case-insensitive (artist, title) identity. Returns how many
// entries were actually added.
func (m *Manager) Save(q archive.Quarter, entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	existing, err := m.Load(q)
	if err != nil && !os.IsNotExist(err) {
		util.WarnLog("Backup %s unreadable, starting fresh: %v", q, err)
		existing = nil
	}

	seen := make(map[[2]string]bool, len(existing))
	for _, e := range existing {
		seen[identity(e.Artist, e.Title)] = true
	}

	added := 0
	for _, e := range entries {
		key := identity(e.Artist, e.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		existing = append(existing, e)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	path := m.path(q)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write backup: %w", err)
	}

	return added, nil
}

// Load reads one quarter's snapshot. A missing file surfaces as an
// os.IsNotExist error so callers can tell "no backup" from corruption.
func (m *Manager) Load(q archive.Quarter) ([]Entry, error) {
	data, err := os.ReadFile(m.path(q))
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse backup %s: %w", m.path(q), err)
	}
	return entries, nil
}

// List returns every quarter that has a snapshot on disk, oldest first
func (m *Manager) List() ([]archive.Quarter, error) {
	years, err := os.ReadDir(m.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var quarters []archive.Quarter
	for _, yd := range years {
		if !yd.IsDir() {
			continue
		}
		year, err := strconv.Atoi(yd.Name())
		if err != nil {
			continue
		}
		files, err := os.ReadDir(filepath.Join(m.baseDir, yd.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			name := f.Name()
			if !strings.HasPrefix(name, "Q") || !strings.HasSuffix(name, ".json") {
				continue
			}
			q, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "Q"), ".json"))
			if err != nil || q < 1 || q > 4 {
				continue
			}
			quarters = append(quarters, archive.Quarter{Year: year, Q: q})
		}
	}

	sort.Slice(quarters, func(i, j int) bool { return quarters[i].Before(quarters[j]) })
	return quarters, nil
}

// Find resolves a quarter query like "Q1", "2026Q1" or "2026/Q1"
// against the snapshots on disk. A bare "QN" means the given year.
func (m *Manager) Find(query string, year int) (archive.Quarter, error) {
	q := strings.ToUpper(strings.NewReplacer("/", "", "-", "", " ", "").Replace(query))

	available, err := m.List()
	if err != nil {
		return archive.Quarter{}, err
	}
	for _, quarter := range available {
		label := strings.ToUpper(quarter.Label())
		if q == label {
			return quarter, nil
		}
		if q == fmt.Sprintf("Q%d", quarter.Q) && quarter.Year == year {
			return quarter, nil
		}
	}
	return archive.Quarter{}, fmt.Errorf("%w: no backup matches %q", util.ErrNotFound, query)
}

func identity(artist, title string) [2]string {
	return [2]string{strings.ToLower(strings.TrimSpace(artist)), strings.ToLower(strings.TrimSpace(title))}
}
