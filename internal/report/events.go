package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventFetch   EventType = "fetch"
	EventDedup   EventType = "dedup"
	EventResolve EventType = "resolve"
	EventSkip    EventType = "skip"
	EventArchive EventType = "archive"
	EventMigrate EventType = "migrate"
	EventBackup  EventType = "backup"
	EventError   EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single event in a collection run
type Event struct {
	Timestamp time.Time         `json:"ts"`
	Level     EventLevel        `json:"level"`
	Event     EventType         `json:"event"`
	Artist    string            `json:"artist,omitempty"`
	Title     string            `json:"title,omitempty"`
	Source    string            `json:"source,omitempty"`
	Ref       string            `json:"ref,omitempty"`
	Quarter   string            `json:"quarter,omitempty"`
	Stage     string            `json:"stage,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Count     int               `json:"count,omitempty"`
	Error     string            `json:"error,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file, one file per run
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	runID    string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level.
// minLevel determines which events are written (e.g., LevelInfo skips
// LevelDebug). Each run gets its own file named by timestamp and a
// short run ID so overlapping manual runs never clobber each other.
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	runID := uuid.NewString()[:8]
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("run-%s-%s.jsonl", timestamp, runID)
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		runID:    runID,
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogFetch logs one producer's yield
func (l *EventLogger) LogFetch(source string, count int, err error) error {
	level := LevelInfo
	errMsg := ""
	if err != nil {
		level = LevelWarning
		errMsg = err.Error()
	}

	return l.Log(&Event{
		Level:  level,
		Event:  EventFetch,
		Source: source,
		Count:  count,
		Error:  errMsg,
	})
}

// LogDedup logs a candidate dropped as an already-seen identity
func (l *EventLogger) LogDedup(artist, title, source string) error {
	return l.Log(&Event{
		Level:  LevelDebug,
		Event:  EventDedup,
		Artist: artist,
		Title:  title,
		Source: source,
	})
}

// LogResolve logs a successful catalog resolution
func (l *EventLogger) LogResolve(artist, title, ref, stage string) error {
	return l.Log(&Event{
		Level:  LevelInfo,
		Event:  EventResolve,
		Artist: artist,
		Title:  title,
		Ref:    ref,
		Stage:  stage,
	})
}

// LogSkip logs a track left unresolved
func (l *EventLogger) LogSkip(artist, title, reason string) error {
	return l.Log(&Event{
		Level:  LevelInfo,
		Event:  EventSkip,
		Artist: artist,
		Title:  title,
		Reason: reason,
	})
}

// LogArchive logs the outcome of one quarter's migration
func (l *EventLogger) LogArchive(quarter string, migrated, failed int) error {
	level := LevelInfo
	if failed > 0 {
		level = LevelWarning
	}

	return l.Log(&Event{
		Level:   level,
		Event:   EventArchive,
		Quarter: quarter,
		Count:   migrated,
		Extra: map[string]string{
			"failed": fmt.Sprintf("%d", failed),
		},
	})
}

// LogMigrate logs one entry moved to a quarterly bucket
func (l *EventLogger) LogMigrate(ref, quarter string, err error) error {
	level := LevelDebug
	errMsg := ""
	if err != nil {
		level = LevelError
		errMsg = err.Error()
	}

	return l.Log(&Event{
		Level:   level,
		Event:   EventMigrate,
		Ref:     ref,
		Quarter: quarter,
		Error:   errMsg,
	})
}

// LogBackup logs a snapshot write
func (l *EventLogger) LogBackup(quarter string, added int) error {
	return l.Log(&Event{
		Level:   LevelInfo,
		Event:   EventBackup,
		Quarter: quarter,
		Count:   added,
	})
}

// LogError logs an error event
func (l *EventLogger) LogError(event EventType, err error) error {
	return l.Log(&Event{
		Level: LevelError,
		Event: event,
		Error: err.Error(),
	})
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// RunID returns the short identifier of this run
func (l *EventLogger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// NullLogger returns a no-op event logger
func NullLogger() *EventLogger {
	return nil
}
