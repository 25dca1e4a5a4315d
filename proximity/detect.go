// Package proximity implements broad-phase overlap detection for live
// actors: radius-sum distance tests substituting for engine trigger
// volumes. Intentionally O(n·m) per frame with no spatial partitioning;
// suited to tens-to-low-hundreds of actors.
package proximity

import (
	"math"

	"github.com/lixenwraith/proxima/core"
	"github.com/lixenwraith/proxima/pool"
	"github.com/lixenwraith/proxima/vmath"
)

// Candidate is an ephemeral per-frame view of a live actor, valid only
// for the duration of the scan that received it.
type Candidate struct {
	ID     core.Entity
	Kind   core.Kind
	Pos    vmath.Vec2
	Radius float64
}

// Predicate filters candidates by kind or payload before the distance
// test. A nil predicate admits every candidate.
type Predicate func(Candidate) bool

// CheckOverlap reports whether a and b are within interaction range:
// true iff dist(a, b) < a.Radius + b.Radius, strictly. A circle-sum
// approximation, not shape collision. Zero or negative radii are not
// validated; they degenerate to point-in-circle tests. NaN positions
// or radii deterministically produce false: the comparison below is
// false for NaN operands, and the explicit guard keeps that behavior
// independent of how the expression is ever rearranged.
func CheckOverlap(a, b Candidate) bool {
	if a.Pos.IsNaN() || b.Pos.IsNaN() || math.IsNaN(a.Radius) || math.IsNaN(b.Radius) {
		return false
	}
	sum := a.Radius + b.Radius
	// Distance is non-negative, so a non-positive combined radius can
	// never satisfy dist < sum. Squaring would flip the sign and admit
	// near-coincident pairs.
	if sum <= 0 {
		return false
	}
	return vmath.DistSq(a.Pos, b.Pos) < sum*sum
}

// Scan walks candidates in caller order and returns the first one that
// passes pred and overlaps subject. The subject itself is skipped by
// ID. Candidate order is caller-determined and not stable across
// frames, so "first" is a per-frame notion; callers that care about
// every overlap use ScanAll.
func Scan(subject Candidate, candidates []Candidate, pred Predicate) (Candidate, bool) {
	for _, c := range candidates {
		if c.ID == subject.ID {
			continue
		}
		if pred != nil && !pred(c) {
			continue
		}
		if CheckOverlap(subject, c) {
			return c, true
		}
	}
	return Candidate{}, false
}

// ScanAll returns every candidate that passes pred and overlaps
// subject, in caller order. Returns nil when nothing overlaps.
func ScanAll(subject Candidate, candidates []Candidate, pred Predicate) []Candidate {
	var hits []Candidate
	for _, c := range candidates {
		if c.ID == subject.ID {
			continue
		}
		if pred != nil && !pred(c) {
			continue
		}
		if CheckOverlap(subject, c) {
			hits = append(hits, c)
		}
	}
	return hits
}

// KindIs returns a predicate admitting only the given kinds
func KindIs(kinds ...core.Kind) Predicate {
	return func(c Candidate) bool {
		for _, k := range kinds {
			if c.Kind == k {
				return true
			}
		}
		return false
	}
}

// FromActor builds the per-frame view of one live actor
func FromActor(a *pool.Actor) Candidate {
	return Candidate{
		ID:     a.ID(),
		Kind:   a.Kind(),
		Pos:    a.Pos,
		Radius: a.Radius,
	}
}

// Collect builds the candidate view of a live snapshot, typically
// Manager.Live(), applying pred up front so repeated scans against the
// same frame reuse one filtered slice.
func Collect(actors []*pool.Actor, pred Predicate) []Candidate {
	out := make([]Candidate, 0, len(actors))
	for _, a := range actors {
		c := FromActor(a)
		if pred != nil && !pred(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
