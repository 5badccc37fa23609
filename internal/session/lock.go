package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ScanLock serializes scans across processes sharing one cache
// directory. Works on all platforms.
type ScanLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewScanLock creates a lock at <dir>/.scan.lock.
func NewScanLock(dir string) *ScanLock {
	lockPath := filepath.Join(dir, ".scan.lock")
	return &ScanLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// TryLock attempts to acquire the lock without blocking. Returns false
// when another process holds it.
func (l *ScanLock) TryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to acquire scan lock: %w", err)
	}
	l.locked = acquired
	return acquired, nil
}

// Unlock releases the lock. Safe to call when not held.
func (l *ScanLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	return l.flock.Unlock()
}
