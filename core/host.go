package core

import "github.com/lixenwraith/proxima/vmath"

// EntityHandle is an opaque reference to a host-side entity.
// Zero means "no host entity"; the pool manager skips host calls for it.
type EntityHandle uint64

// Host is the engine collaborator that owns visual/interactive entity
// state. The pool manager drives it on lifecycle transitions and never
// creates or destroys host entities during steady-state acquire/release;
// creation happens in pool factories, destruction only on Clear.
type Host interface {
	CreateEntity() EntityHandle
	DestroyEntity(h EntityHandle)
	SetEnabled(h EntityHandle, enabled bool)
	Position(h EntityHandle) vmath.Vec2
	SetPosition(h EntityHandle, pos vmath.Vec2)
}

// OutOfPlay is the parking position for released actors. Far enough
// outside any plausible playfield that a radius-sum test against a live
// actor can never match on the frame of release.
var OutOfPlay = vmath.Vec2{X: -1e9, Y: -1e9}
