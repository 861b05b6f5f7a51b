// Package lock provides key-scoped mutual exclusion with bounded waits.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when a lock could not be taken before the
// caller's context expired.
var ErrNotAcquired = errors.New("lock not acquired")

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func()

// Locker serializes work on a single key. Acquire blocks until the key is
// free or ctx is done; callers bound the wait through ctx.
type Locker interface {
	Acquire(ctx context.Context, key string) (Unlock, error)
}
