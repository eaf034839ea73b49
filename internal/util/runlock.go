package util

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// RunLock guards against overlapping runs. The engine assumes a single
// writer during its execution window, so mutating commands take the lock
// before touching the store or the external catalog.
type RunLock struct {
	lock *flock.Flock
	path string
}

// AcquireRunLock takes an exclusive file lock in the data directory.
// Returns ErrLocked if another process already holds it.
func AcquireRunLock(dataDir string) (*RunLock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := filepath.Join(dataDir, "mcol.lock")
	lock := flock.New(path)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file: %s)", ErrLocked, path)
	}

	return &RunLock{lock: lock, path: path}, nil
}

// Release drops the lock. Safe to call on a nil receiver.
func (l *RunLock) Release() {
	if l == nil || l.lock == nil {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		WarnLog("Failed to release run lock %s: %v", l.path, err)
	}
}

// Path returns the lock file location
func (l *RunLock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}
