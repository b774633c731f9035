package os

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Flock guards against a second overlay instance fighting over the
// backend and the screen.
type Flock struct {
	f *flock.Flock
}

func NewFileLock(path string) (*Flock, error) {
	if path == "" {
		path = filepath.Join(os.TempDir(), "lerche.lock")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	_ = f.Close()
	return &Flock{f: flock.New(path)}, nil
}

// TryLock acquires the lock without blocking; ok is false when another
// process holds it.
func (f *Flock) TryLock() (bool, error) { return f.f.TryLock() }

func (f *Flock) Unlock() error { return f.f.Unlock() }
