package pool

import (
	"github.com/lixenwraith/proxima/core"
	"github.com/lixenwraith/proxima/vmath"
)

// Actor is a reusable game object handle. Storage is owned by its pool
// for the entire process lifetime; gameplay code holds a non-owning
// reference only while the actor is live and must hand it back through
// Manager.Release. After release the same storage may be re-issued by
// the next Acquire, so retained references silently become a different
// logical actor.
type Actor struct {
	id     core.Entity
	kind   core.Kind
	active bool
	owner  *Pool // re-injected on every acquire, after the pool is bound

	// Mutable gameplay state. Written freely by gameplay code each
	// frame while the actor is live; cleared on release and
	// re-initialized by the pool's reset callback on acquire.
	Pos    vmath.Vec2
	Vel    vmath.Vec2
	Radius float64

	// Life is the remaining lifetime in seconds, counted down by
	// Manager.Tick. Zero or negative means unbounded. An actor whose
	// countdown reaches zero is auto-released on the frame where
	// cumulative elapsed time first reaches or exceeds its lifetime.
	Life float64

	// State carries kind-specific payload (owner faction, damage, ...).
	State any

	// Handle references the host-side entity, if the factory created
	// one. Zero disables host calls for this actor.
	Handle core.EntityHandle
}

// ID returns the actor's stable identity
func (a *Actor) ID() core.Entity { return a.id }

// Kind returns the pool discriminator tag
func (a *Actor) Kind() core.Kind { return a.kind }

// Active reports whether the actor is currently live (in play)
// as opposed to idle in its pool
func (a *Actor) Active() bool { return a.active }
