package engine

import (
	"sync"

	"github.com/lixenwraith/proxima/core"
	"github.com/lixenwraith/proxima/vmath"
)

// NopHost discards every host call. For headless use of the pool
// manager where no engine entity backs the actors.
type NopHost struct{}

func (NopHost) CreateEntity() core.EntityHandle { return 0 }

func (NopHost) DestroyEntity(core.EntityHandle) {}

func (NopHost) SetEnabled(core.EntityHandle, bool) {}

func (NopHost) Position(core.EntityHandle) vmath.Vec2 { return vmath.Vec2{} }

func (NopHost) SetPosition(core.EntityHandle, vmath.Vec2) {}

// HostCall records one invocation against a RecordingHost
type HostCall struct {
	Op      string // "create", "destroy", "enable", "disable", "setpos"
	Handle  core.EntityHandle
	Pos     vmath.Vec2
	Enabled bool
}

// RecordingHost is an in-memory Host for tests: it tracks entity
// state and the full call sequence for assertions.
type RecordingHost struct {
	mu      sync.Mutex
	nextID  core.EntityHandle
	enabled map[core.EntityHandle]bool
	pos     map[core.EntityHandle]vmath.Vec2
	calls   []HostCall
}

// NewRecordingHost creates an empty recording host
func NewRecordingHost() *RecordingHost {
	return &RecordingHost{
		enabled: make(map[core.EntityHandle]bool),
		pos:     make(map[core.EntityHandle]vmath.Vec2),
	}
}

func (h *RecordingHost) CreateEntity() core.EntityHandle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.enabled[id] = false
	h.calls = append(h.calls, HostCall{Op: "create", Handle: id})
	return id
}

func (h *RecordingHost) DestroyEntity(e core.EntityHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.enabled, e)
	delete(h.pos, e)
	h.calls = append(h.calls, HostCall{Op: "destroy", Handle: e})
}

func (h *RecordingHost) SetEnabled(e core.EntityHandle, enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enabled[e] = enabled
	op := "enable"
	if !enabled {
		op = "disable"
	}
	h.calls = append(h.calls, HostCall{Op: op, Handle: e, Enabled: enabled})
}

func (h *RecordingHost) Position(e core.EntityHandle) vmath.Vec2 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos[e]
}

func (h *RecordingHost) SetPosition(e core.EntityHandle, p vmath.Vec2) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pos[e] = p
	h.calls = append(h.calls, HostCall{Op: "setpos", Handle: e, Pos: p})
}

// Enabled reports the current enabled flag for a handle
func (h *RecordingHost) Enabled(e core.EntityHandle) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enabled[e]
}

// EntityCount returns the number of host entities not yet destroyed
func (h *RecordingHost) EntityCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.enabled)
}

// Calls returns a copy of the recorded call sequence
func (h *RecordingHost) Calls() []HostCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HostCall, len(h.calls))
	copy(out, h.calls)
	return out
}
