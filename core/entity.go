package core

// Entity is a stable identifier for a pooled actor.
// Assigned once at construction and kept for the life of the process,
// across any number of acquire/release cycles.
type Entity uint64

// Kind discriminates which pool owns an actor. It doubles as the
// configuration key for per-kind tuning (warmup, radius, lifetime).
type Kind string
