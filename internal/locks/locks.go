// Package locks serialises admission decisions per session.
package locks

import (
	"context"
	"errors"
)

var ErrLockTimeout = errors.New("lock wait timed out")

// Locker acquires an exclusive lock on key. The returned release func must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}
