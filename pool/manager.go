package pool

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/proxima/core"
	"github.com/lixenwraith/proxima/vmath"
)

// Manager owns one pool per actor kind and the shared live set.
// All lifecycle transitions (acquire, release, expiry) go through it;
// constructing or discarding pooled-kind actors anywhere else breaks
// the accounting invariants.
//
// The expected scheduling model is single-threaded and frame-stepped:
// acquire/release/tick run sequentially inside one frame callback.
// The mutex makes misuse from a second goroutine safe rather than
// corrupting, it is not a performance feature.
type Manager struct {
	mu   sync.Mutex
	host core.Host
	log  *zap.Logger

	pools  map[core.Kind]*Pool
	nextID core.Entity

	live      []*Actor
	liveIndex map[core.Entity]int // actor id -> position in live
}

// Option configures a Manager at creation time
type Option func(*Manager)

// WithLogger attaches a logger for usage-error reporting.
// Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a pool manager. host may be nil for headless use;
// actors with a zero Handle skip host calls either way.
func NewManager(host core.Host, opts ...Option) *Manager {
	m := &Manager{
		host:      host,
		log:       zap.NewNop(),
		pools:     make(map[core.Kind]*Pool),
		liveIndex: make(map[core.Entity]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreatePool registers a pool for kind and eagerly pre-constructs
// warmup inactive instances. reset may be nil if the factory output
// is already a valid spawn state.
func (m *Manager) CreatePool(kind core.Kind, factory Factory, reset Reset, warmup int, opts ...PoolOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if warmup < 0 {
		m.log.Error("pool create rejected", zap.String("kind", string(kind)), zap.Int("warmup", warmup), zap.Error(ErrNegativeWarmup))
		return ErrNegativeWarmup
	}
	if _, exists := m.pools[kind]; exists {
		m.log.Error("pool create rejected", zap.String("kind", string(kind)), zap.Error(ErrDuplicateKind))
		return ErrDuplicateKind
	}

	p := &Pool{
		kind:    kind,
		manager: m,
		factory: factory,
		reset:   reset,
		free:    make([]*Actor, 0, warmup),
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := 0; i < warmup; i++ {
		a, err := p.construct()
		if err != nil {
			m.log.Error("pool warmup failed", zap.String("kind", string(kind)), zap.Error(err))
			return err
		}
		a.Pos = core.OutOfPlay
		p.free = append(p.free, a)
	}

	m.pools[kind] = p
	m.log.Debug("pool created", zap.String("kind", string(kind)), zap.Int("warmup", warmup), zap.Int("max", p.maxSize))
	return nil
}

// Acquire hands out one actor of kind: free-list pop when possible,
// factory growth otherwise. The pool back-reference is injected and
// the reset callback runs before the actor is marked live, so callers
// always receive a fully initialized spawn. O(1), never blocks.
func (m *Manager) Acquire(kind core.Kind) (*Actor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pools[kind]
	if !ok {
		m.log.Error("acquire from unknown kind", zap.String("kind", string(kind)))
		return nil, ErrUnknownKind
	}

	var a *Actor
	if n := len(p.free); n > 0 {
		a = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		if p.maxSize > 0 && p.built >= p.maxSize {
			// Recoverable: caller degrades (skips the spawn)
			return nil, ErrExhausted
		}
		var err error
		a, err = p.construct()
		if err != nil {
			m.log.Error("acquire construction failed", zap.String("kind", string(kind)), zap.Error(err))
			return nil, err
		}
	}

	// Two-phase construction: the factory built a pool-agnostic
	// instance, the back-reference is wired here on every acquire
	a.owner = p
	if p.reset != nil {
		p.reset(a)
	}
	a.active = true

	m.liveIndex[a.id] = len(m.live)
	m.live = append(m.live, a)

	if m.host != nil && a.Handle != 0 {
		m.host.SetEnabled(a.Handle, true)
		m.host.SetPosition(a.Handle, a.Pos)
	}
	return a, nil
}

// Release returns a live actor to its pool. Releasing an inactive
// actor (double free) or an actor owned elsewhere is a usage error
// and is rejected, never silently accepted.
func (m *Manager) Release(a *Actor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releaseLocked(a)
}

func (m *Manager) releaseLocked(a *Actor) error {
	if a == nil || !a.active {
		m.log.Error("double release rejected", zap.Error(ErrReleaseInactive))
		return ErrReleaseInactive
	}
	if a.owner == nil || a.owner.manager != m {
		m.log.Error("foreign release rejected", zap.Uint64("id", uint64(a.id)), zap.Error(ErrForeignActor))
		return ErrForeignActor
	}

	a.active = false
	a.State = nil
	a.Vel = vmath.Vec2{}
	a.Life = 0
	// Park out of play so a same-frame scan can never match it
	a.Pos = core.OutOfPlay

	if m.host != nil && a.Handle != 0 {
		m.host.SetEnabled(a.Handle, false)
		m.host.SetPosition(a.Handle, core.OutOfPlay)
	}

	m.removeLive(a)
	a.owner.free = append(a.owner.free, a)
	return nil
}

// removeLive swap-removes the actor from the live set. Caller holds
// the lock.
func (m *Manager) removeLive(a *Actor) {
	i, ok := m.liveIndex[a.id]
	if !ok {
		return
	}
	last := len(m.live) - 1
	if i != last {
		m.live[i] = m.live[last]
		m.liveIndex[m.live[i].id] = i
	}
	m.live = m.live[:last]
	delete(m.liveIndex, a.id)
}

// Tick advances lifetime countdowns by dt and auto-releases every
// actor whose remaining life reaches zero. Countdown is cooperative:
// this is the per-frame hook, not an asynchronous timer. An actor
// expires on the frame where cumulative elapsed time first reaches or
// exceeds its lifetime (decrement first, then test <= 0).
func (m *Manager) Tick(dt time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	secs := dt.Seconds()

	var expired []*Actor
	for _, a := range m.live {
		if a.Life <= 0 {
			continue // unbounded
		}
		a.Life -= secs
		if a.Life <= 0 {
			expired = append(expired, a)
		}
	}
	for _, a := range expired {
		if err := m.releaseLocked(a); err != nil {
			m.log.Error("expiry release failed", zap.Uint64("id", uint64(a.id)), zap.Error(err))
		}
	}
}

// Clear tears down everything: every instance, live and pooled, has
// its host entity destroyed, and all free lists are emptied. Pools
// stay registered so a scene reload can warm them again via Acquire.
// Teardown-only; ordinary gameplay always uses Release.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	destroy := func(a *Actor) {
		if m.host != nil && a.Handle != 0 {
			m.host.DestroyEntity(a.Handle)
		}
		a.active = false
		a.Handle = 0
		a.State = nil
	}

	for _, a := range m.live {
		destroy(a)
	}
	m.live = m.live[:0]
	m.liveIndex = make(map[core.Entity]int)

	for _, p := range m.pools {
		for _, a := range p.free {
			destroy(a)
		}
		p.free = p.free[:0]
		p.built = 0
	}
	m.log.Debug("pools cleared")
}

// Live returns a snapshot of the live set. Order is not stable across
// frames; actors spawn into and swap out of the backing slice.
func (m *Manager) Live() []*Actor {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Actor, len(m.live))
	copy(out, m.live)
	return out
}

// LiveCount returns the number of live actors across all pools
func (m *Manager) LiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Stats returns the accounting snapshot for one kind
func (m *Manager) Stats(kind core.Kind) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pools[kind]
	if !ok {
		return Stats{}, ErrUnknownKind
	}
	return Stats{
		Kind:  kind,
		Built: p.built,
		Free:  len(p.free),
		Live:  p.built - len(p.free),
	}, nil
}
