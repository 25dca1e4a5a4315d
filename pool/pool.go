package pool

import "github.com/lixenwraith/proxima/core"

// Factory constructs a fresh, inactive actor. It must not reference
// the pool (the pool does not exist yet while warmup factories run);
// the pool back-reference is injected on acquire instead, after the
// pool variable is bound. Host entity creation belongs here, never in
// the steady-state acquire/release path.
type Factory func() *Actor

// Reset is invoked on every acquire, after the back-reference is
// injected. It clears per-spawn state to kind defaults: position,
// velocity, lifetime, payload.
type Reset func(*Actor)

// Pool owns every actor of one kind for the actor's entire existence.
// The free list holds instances available for reuse; live instances
// are tracked by the Manager.
type Pool struct {
	kind    core.Kind
	manager *Manager
	factory Factory
	reset   Reset

	free    []*Actor
	built   int // total factory constructions, ever
	maxSize int // 0 = unbounded growth
}

// PoolOption configures a pool at creation time
type PoolOption func(*Pool)

// WithMaxSize caps total constructions for the pool. Acquire returns
// ErrExhausted once the cap is reached and the free list is empty.
// Zero (the default) means unbounded growth.
func WithMaxSize(n int) PoolOption {
	return func(p *Pool) {
		p.maxSize = n
	}
}

// Kind returns the pool's discriminator tag
func (p *Pool) Kind() core.Kind { return p.kind }

// construct runs the factory and registers the result with the pool.
// Caller holds the manager lock.
func (p *Pool) construct() (*Actor, error) {
	a := p.factory()
	if a == nil {
		return nil, ErrBadFactory
	}
	p.manager.nextID++
	a.id = p.manager.nextID
	a.kind = p.kind
	a.active = false
	p.built++
	return a, nil
}

// Stats is a point-in-time accounting snapshot for one pool.
// Built never decreases; Live + Free == Built holds at frame
// boundaries (between Acquire/Release sequences).
type Stats struct {
	Kind  core.Kind
	Built int
	Free  int
	Live  int
}
