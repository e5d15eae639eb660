// Package lock serializes installs and uninstalls of the same install
// location across processes with an advisory file lock. The core packages
// never lock; callers such as the CLI take the lock around an operation.
package lock

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/prebuilt/pkg/errors"
	"github.com/arthur-debert/prebuilt/pkg/internal/hashutil"
	"github.com/arthur-debert/prebuilt/pkg/logging"
	"github.com/gofrs/flock"
)

// Lock is a held lock on one install location
type Lock struct {
	fl       *flock.Flock
	location string
}

// PathFor returns the lock file used for location
func PathFor(locksDir, location string) string {
	return filepath.Join(locksDir, hashutil.PathKey(location)+".lock")
}

// Acquire takes the lock for location without waiting. When another
// process holds it the error is coded errors.ErrLocked.
func Acquire(locksDir, location string) (*Lock, error) {
	fl, err := newFlock(locksDir, location)
	if err != nil {
		return nil, err
	}
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to lock %s", location).
			WithDetail(errors.DetailPath, fl.Path())
	}
	if !ok {
		return nil, lockedError(location, fl.Path())
	}
	logger := logging.GetLogger("lock")
	logger.Debug().Str("location", location).Str("file", fl.Path()).Msg("Lock acquired")
	return &Lock{fl: fl, location: location}, nil
}

// AcquireWait retries every retryDelay until the lock is free or ctx is done.
func AcquireWait(ctx context.Context, locksDir, location string, retryDelay time.Duration) (*Lock, error) {
	fl, err := newFlock(locksDir, location)
	if err != nil {
		return nil, err
	}
	ok, err := fl.TryLockContext(ctx, retryDelay)
	if err != nil && ctx.Err() == nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to lock %s", location).
			WithDetail(errors.DetailPath, fl.Path())
	}
	if !ok {
		return nil, lockedError(location, fl.Path())
	}
	return &Lock{fl: fl, location: location}, nil
}

// With runs fn while holding the lock for location
func With(locksDir, location string, fn func() error) error {
	l, err := Acquire(locksDir, location)
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Release()
	}()
	return fn()
}

// Release gives the lock up. The lock file stays behind for reuse.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	if err := l.fl.Unlock(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to unlock %s", l.location)
	}
	logger := logging.GetLogger("lock")
	logger.Debug().Str("location", l.location).Msg("Lock released")
	return nil
}

func newFlock(locksDir, location string) (*flock.Flock, error) {
	if err := os.MkdirAll(locksDir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to create locks directory").
			WithDetail(errors.DetailPath, locksDir)
	}
	return flock.New(PathFor(locksDir, location)), nil
}

func lockedError(location, path string) error {
	return errors.Newf(errors.ErrLocked, "another prebuilt process is working on %s", location).
		WithDetail(errors.DetailPath, path)
}
