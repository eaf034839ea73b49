package report

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

func readEvents(t *testing.T, path string) []Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open event log: %v", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("bad event line %q: %v", scanner.Text(), err)
		}
		events = append(events, e)
	}
	return events
}

func TestEventLoggerWritesJSONL(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	if err := logger.LogFetch("Pitchfork", 12, nil); err != nil {
		t.Fatalf("LogFetch failed: %v", err)
	}
	if err := logger.LogResolve("Big Thief", "Simulation Swarm", "spotify:track:a", "strict"); err != nil {
		t.Fatalf("LogResolve failed: %v", err)
	}
	if err := logger.LogMigrate("spotify:track:b", "2025 Q4", nil); err != nil {
		t.Fatalf("LogMigrate failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events := readEvents(t, logger.Path())
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Event != EventFetch || events[0].Source != "Pitchfork" || events[0].Count != 12 {
		t.Errorf("unexpected fetch event: %+v", events[0])
	}
	if events[1].Ref != "spotify:track:a" || events[1].Stage != "strict" {
		t.Errorf("unexpected resolve event: %+v", events[1])
	}
	if events[2].Quarter != "2025 Q4" {
		t.Errorf("unexpected migrate event: %+v", events[2])
	}
	for _, e := range events {
		if e.Timestamp.IsZero() {
			t.Errorf("event missing timestamp: %+v", e)
		}
	}
}

func TestEventLoggerMinLevel(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelInfo)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	// Dedup events are debug level and should be filtered out
	if err := logger.LogDedup("Mitski", "Star", "Stereogum"); err != nil {
		t.Fatalf("LogDedup failed: %v", err)
	}
	if err := logger.LogSkip("Mitski", "Star", "no catalog match"); err != nil {
		t.Fatalf("LogSkip failed: %v", err)
	}
	logger.Close()

	events := readEvents(t, logger.Path())
	if len(events) != 1 {
		t.Fatalf("expected 1 event after level filter, got %d", len(events))
	}
	if events[0].Event != EventSkip {
		t.Errorf("wrong event survived the filter: %+v", events[0])
	}
}

func TestEventLoggerErrorLevels(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelDebug)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}

	logger.LogFetch("Stereogum", 0, errors.New("feed unreachable"))
	logger.LogError(EventArchive, errors.New("bucket creation failed"))
	logger.Close()

	events := readEvents(t, logger.Path())
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Level != LevelWarning || events[0].Error != "feed unreachable" {
		t.Errorf("unexpected fetch failure event: %+v", events[0])
	}
	if events[1].Level != LevelError {
		t.Errorf("unexpected error event: %+v", events[1])
	}
}

func TestEventLoggerFilenameCarriesRunID(t *testing.T) {
	logger, err := NewEventLogger(t.TempDir(), LevelInfo)
	if err != nil {
		t.Fatalf("NewEventLogger failed: %v", err)
	}
	defer logger.Close()

	if logger.RunID() == "" {
		t.Error("run ID should not be empty")
	}
	if !strings.Contains(logger.Path(), logger.RunID()) {
		t.Errorf("path %q does not contain run ID %q", logger.Path(), logger.RunID())
	}
}

func TestNullLoggerIsSafe(t *testing.T) {
	logger := NullLogger()
	if err := logger.Log(&Event{Level: LevelInfo, Event: EventFetch}); err != nil {
		t.Errorf("nil logger Log returned error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("nil logger Close returned error: %v", err)
	}
	if logger.Path() != "" {
		t.Errorf("nil logger Path should be empty, got %q", logger.Path())
	}
}
