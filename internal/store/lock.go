package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// DefaultLockTimeout is how long Lock waits when no timeout is configured.
const DefaultLockTimeout = 5 * time.Second

const lockRetryDelay = 50 * time.Millisecond

// ErrLocked is returned when another process holds the task file lock
// for longer than the lock timeout.
var ErrLocked = errors.New("task file is locked by another process")

// LockPath returns the path of the advisory lock file.
func (s *Store) LockPath() string {
	return s.path + ".lock"
}

// Lock acquires the advisory lock, exclusive for writers and shared for
// readers. The returned func releases it.
func (s *Store) Lock(ctx context.Context, exclusive bool) (func() error, error) {
	fl := flock.New(s.LockPath())

	var (
		locked bool
		err    error
	)
	if s.lockTimeout <= 0 {
		if exclusive {
			locked, err = fl.TryLock()
		} else {
			locked, err = fl.TryRLock()
		}
	} else {
		lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
		if exclusive {
			locked, err = fl.TryLockContext(lockCtx, lockRetryDelay)
		} else {
			locked, err = fl.TryRLockContext(lockCtx, lockRetryDelay)
		}
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, s.LockPath())
		}
		return nil, fmt.Errorf("lock task file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, s.LockPath())
	}

	s.logger.Debug("acquired lock", "path", s.LockPath(), "exclusive", exclusive)
	return func() error {
		s.logger.Debug("released lock", "path", s.LockPath())
		return fl.Unlock()
	}, nil
}
