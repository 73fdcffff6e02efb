package library

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the library lock.
var ErrLocked = errors.New("library is locked by another scan")

// Lock is an exclusive advisory lock on the library database.
type Lock struct {
	lock *flock.Flock
}

// AcquireLock takes the lock file beside dbPath without blocking.
func AcquireLock(dbPath string) (*Lock, error) {
	lock := flock.New(dbPath + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &Lock{lock: lock}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.lock.Path()
}

// Release unlocks the library.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
