package pool

import "errors"

// Usage errors are programmer errors: they are returned loudly (and
// logged) rather than tolerated, because silent tolerance corrupts the
// free list and surfaces later as duplicate-instance bugs.
var (
	// ErrUnknownKind is returned when acquiring from a kind no pool
	// was created for
	ErrUnknownKind = errors.New("pool: unknown actor kind")

	// ErrDuplicateKind is returned when creating a second pool for a
	// kind that already has one
	ErrDuplicateKind = errors.New("pool: kind already has a pool")

	// ErrReleaseInactive is returned on double release: the actor is
	// already back in its pool
	ErrReleaseInactive = errors.New("pool: release of inactive actor")

	// ErrForeignActor is returned when releasing an actor this manager
	// does not own
	ErrForeignActor = errors.New("pool: actor belongs to another manager")

	// ErrBadFactory is returned when a factory yields nil
	ErrBadFactory = errors.New("pool: factory returned nil actor")

	// ErrNegativeWarmup is returned for warmup counts below zero
	ErrNegativeWarmup = errors.New("pool: negative warmup count")

	// ErrExhausted is the one recoverable condition: a capped pool has
	// no free instance left. Callers should skip the spawn, not crash.
	ErrExhausted = errors.New("pool: capacity exhausted")
)
