package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes presses on one session across simulator
// replicas sharing a store.
type DistributedLocker interface {
	// Lock blocks until key is held or ctx is done. The lease expires after
	// ttl if the holder never calls the returned UnlockFunc.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
