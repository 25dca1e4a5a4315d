package pool

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/proxima/core"
	"github.com/lixenwraith/proxima/vmath"
)

const testKind = core.Kind("bullet")

// newTestPool registers a counting factory for testKind and returns
// the construction counter
func newTestPool(t *testing.T, m *Manager, warmup int, opts ...PoolOption) *int {
	t.Helper()
	built := 0
	factory := func() *Actor {
		built++
		return &Actor{}
	}
	reset := func(a *Actor) {
		a.Radius = 0.3
		a.Life = 0
		a.State = nil
	}
	if err := m.CreatePool(testKind, factory, reset, warmup, opts...); err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}
	return &built
}

func TestWarmupConstruction(t *testing.T) {
	m := NewManager(nil)
	built := newTestPool(t, m, 5)

	if *built != 5 {
		t.Errorf("Expected 5 warmup constructions, got %d", *built)
	}
	stats, err := m.Stats(testKind)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Free != 5 || stats.Live != 0 || stats.Built != 5 {
		t.Errorf("Expected 5 free / 0 live / 5 built, got %+v", stats)
	}
}

// Scenario from the accounting contract: warmup 5, acquire 5 (no new
// construction), release 2, acquire 2 (free list), acquire 1 more
// (exactly one factory call) - 6 constructions total.
func TestAcquireAccountingScenario(t *testing.T) {
	m := NewManager(nil)
	built := newTestPool(t, m, 5)

	actors := make([]*Actor, 0, 6)
	for i := 0; i < 5; i++ {
		a, err := m.Acquire(testKind)
		if err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
		actors = append(actors, a)
	}
	if *built != 5 {
		t.Errorf("Expected no construction beyond warmup, got %d", *built)
	}

	for _, a := range actors[:2] {
		if err := m.Release(a); err != nil {
			t.Fatalf("Release failed: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := m.Acquire(testKind); err != nil {
			t.Fatalf("Re-acquire %d failed: %v", i, err)
		}
	}
	if *built != 5 {
		t.Errorf("Expected re-acquires to be satisfied from free list, got %d constructions", *built)
	}

	if _, err := m.Acquire(testKind); err != nil {
		t.Fatalf("Growth acquire failed: %v", err)
	}
	if *built != 6 {
		t.Errorf("Expected exactly 6 constructions total, got %d", *built)
	}
}

// Active count equals acquires minus releases, and never exceeds the
// number of instances ever constructed.
func TestActiveCountInvariant(t *testing.T) {
	m := NewManager(nil)
	built := newTestPool(t, m, 3)

	acquired := make([]*Actor, 0)
	acquires, releases := 0, 0

	ops := []struct {
		name    string
		acquire bool
	}{
		{"a1", true}, {"a2", true}, {"r1", false}, {"a3", true},
		{"a4", true}, {"a5", true}, {"r2", false}, {"r3", false},
		{"a6", true},
	}
	for _, op := range ops {
		if op.acquire {
			a, err := m.Acquire(testKind)
			if err != nil {
				t.Fatalf("%s: %v", op.name, err)
			}
			acquired = append(acquired, a)
			acquires++
		} else {
			if err := m.Release(acquired[0]); err != nil {
				t.Fatalf("%s: %v", op.name, err)
			}
			acquired = acquired[1:]
			releases++
		}

		if got := m.LiveCount(); got != acquires-releases {
			t.Errorf("%s: live count %d, want %d", op.name, got, acquires-releases)
		}
		if m.LiveCount() > *built {
			t.Errorf("%s: live count %d exceeds constructions %d", op.name, m.LiveCount(), *built)
		}
	}
}

func TestDoubleReleaseRejected(t *testing.T) {
	m := NewManager(nil)
	newTestPool(t, m, 1)

	a, err := m.Acquire(testKind)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := m.Release(a); err != nil {
		t.Fatalf("First release failed: %v", err)
	}
	if err := m.Release(a); !errors.Is(err, ErrReleaseInactive) {
		t.Errorf("Expected ErrReleaseInactive on double release, got %v", err)
	}

	// The free list must not have gained a duplicate entry
	stats, _ := m.Stats(testKind)
	if stats.Free != 1 {
		t.Errorf("Expected 1 free after double release attempt, got %d", stats.Free)
	}
}

func TestForeignReleaseRejected(t *testing.T) {
	m1 := NewManager(nil)
	m2 := NewManager(nil)
	newTestPool(t, m1, 1)
	newTestPool(t, m2, 1)

	a, err := m1.Acquire(testKind)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := m2.Release(a); !errors.Is(err, ErrForeignActor) {
		t.Errorf("Expected ErrForeignActor, got %v", err)
	}
	if !a.Active() {
		t.Error("Foreign release must not deactivate the actor")
	}
}

func TestReleaseNilAndInactive(t *testing.T) {
	m := NewManager(nil)
	if err := m.Release(nil); !errors.Is(err, ErrReleaseInactive) {
		t.Errorf("Expected ErrReleaseInactive for nil actor, got %v", err)
	}
}

func TestAcquireUnknownKind(t *testing.T) {
	m := NewManager(nil)
	if _, err := m.Acquire("ghost"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
}

func TestCreatePoolErrors(t *testing.T) {
	m := NewManager(nil)
	factory := func() *Actor { return &Actor{} }

	if err := m.CreatePool("x", factory, nil, -1); !errors.Is(err, ErrNegativeWarmup) {
		t.Errorf("Expected ErrNegativeWarmup, got %v", err)
	}
	if err := m.CreatePool("x", factory, nil, 0); err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}
	if err := m.CreatePool("x", factory, nil, 0); !errors.Is(err, ErrDuplicateKind) {
		t.Errorf("Expected ErrDuplicateKind, got %v", err)
	}
	if err := m.CreatePool("nilfactory", func() *Actor { return nil }, nil, 1); !errors.Is(err, ErrBadFactory) {
		t.Errorf("Expected ErrBadFactory from warmup, got %v", err)
	}
}

// Reuse may return the same storage, but its state must equal the
// reset output, never leftovers from the previous life.
func TestReuseStateIsReset(t *testing.T) {
	m := NewManager(nil)
	factory := func() *Actor { return &Actor{} }
	reset := func(a *Actor) {
		a.Radius = 0.3
		a.Pos = vmath.Vec2{}
		a.Vel = vmath.Vec2{}
		a.Life = 1.5
		a.State = "fresh"
	}
	if err := m.CreatePool(testKind, factory, reset, 0); err != nil {
		t.Fatalf("CreatePool failed: %v", err)
	}

	first, err := m.Acquire(testKind)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	firstID := first.ID()
	first.Pos = vmath.Vec2{X: 42, Y: 7}
	first.Vel = vmath.Vec2{X: -3, Y: 0}
	first.Life = 0.01
	first.State = "stale"
	if err := m.Release(first); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	second, err := m.Acquire(testKind)
	if err != nil {
		t.Fatalf("Second acquire failed: %v", err)
	}
	if second.ID() != firstID {
		t.Errorf("Expected storage reuse from otherwise-empty pool, got id %d vs %d", second.ID(), firstID)
	}
	if second.Pos != (vmath.Vec2{}) || second.Vel != (vmath.Vec2{}) {
		t.Errorf("Expected reset position/velocity, got %+v %+v", second.Pos, second.Vel)
	}
	if second.Life != 1.5 || second.State != "fresh" {
		t.Errorf("Expected reset life/state, got %g %v", second.Life, second.State)
	}
}

func TestReleaseParksOutOfPlay(t *testing.T) {
	m := NewManager(nil)
	newTestPool(t, m, 1)

	a, _ := m.Acquire(testKind)
	a.Pos = vmath.Vec2{X: 5, Y: 5}
	if err := m.Release(a); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if a.Pos != core.OutOfPlay {
		t.Errorf("Expected parked position %v, got %v", core.OutOfPlay, a.Pos)
	}
	if a.State != nil {
		t.Errorf("Expected cleared payload, got %v", a.State)
	}
}

func TestMaxSizeExhaustion(t *testing.T) {
	m := NewManager(nil)
	newTestPool(t, m, 1, WithMaxSize(2))

	a1, err := m.Acquire(testKind)
	if err != nil {
		t.Fatalf("Acquire 1 failed: %v", err)
	}
	if _, err := m.Acquire(testKind); err != nil {
		t.Fatalf("Acquire 2 failed: %v", err)
	}
	if _, err := m.Acquire(testKind); !errors.Is(err, ErrExhausted) {
		t.Errorf("Expected ErrExhausted at cap, got %v", err)
	}

	// Exhaustion is recoverable: a release frees capacity
	if err := m.Release(a1); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := m.Acquire(testKind); err != nil {
		t.Errorf("Expected acquire to succeed after release, got %v", err)
	}
}

// Lifetime countdown: 1.0s of life over 0.4s frames expires on the
// frame where cumulative elapsed time first reaches or exceeds 1.0s.
func TestTickLifetimeBoundary(t *testing.T) {
	tests := []struct {
		name       string
		life       float64
		dt         time.Duration
		aliveAfter []bool // per frame
	}{
		{"exceeds on frame 3", 1.0, 400 * time.Millisecond, []bool{true, true, false}},
		{"exact boundary releases", 0.8, 400 * time.Millisecond, []bool{true, false}},
		{"single frame overshoot", 0.2, 400 * time.Millisecond, []bool{false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(nil)
			life := tt.life
			reset := func(a *Actor) { a.Life = life }
			if err := m.CreatePool(testKind, func() *Actor { return &Actor{} }, reset, 0); err != nil {
				t.Fatalf("CreatePool failed: %v", err)
			}
			a, err := m.Acquire(testKind)
			if err != nil {
				t.Fatalf("Acquire failed: %v", err)
			}

			for frame, wantAlive := range tt.aliveAfter {
				m.Tick(tt.dt)
				if got := a.Active(); got != wantAlive {
					t.Errorf("frame %d: active = %v, want %v", frame+1, got, wantAlive)
				}
			}
		})
	}
}

func TestTickIgnoresUnbounded(t *testing.T) {
	m := NewManager(nil)
	newTestPool(t, m, 1) // reset leaves Life at 0 = unbounded

	a, _ := m.Acquire(testKind)
	for i := 0; i < 100; i++ {
		m.Tick(time.Second)
	}
	if !a.Active() {
		t.Error("Unbounded actor must never expire")
	}
}

func TestClearEmptiesEverything(t *testing.T) {
	m := NewManager(nil)
	newTestPool(t, m, 3)

	if _, err := m.Acquire(testKind); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	m.Clear()

	if m.LiveCount() != 0 {
		t.Errorf("Expected empty live set, got %d", m.LiveCount())
	}
	stats, err := m.Stats(testKind)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Free != 0 || stats.Built != 0 {
		t.Errorf("Expected empty pool after clear, got %+v", stats)
	}

	// Pool stays registered; acquire warms it again through growth
	if _, err := m.Acquire(testKind); err != nil {
		t.Errorf("Expected acquire to work after clear, got %v", err)
	}
}

func TestLiveSnapshotIsolation(t *testing.T) {
	m := NewManager(nil)
	newTestPool(t, m, 2)

	a1, _ := m.Acquire(testKind)
	a2, _ := m.Acquire(testKind)

	snapshot := m.Live()
	if len(snapshot) != 2 {
		t.Fatalf("Expected 2 live actors, got %d", len(snapshot))
	}
	if err := m.Release(a1); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := m.Release(a2); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	// The earlier snapshot still holds both pointers; the live view
	// shrank independently
	if len(snapshot) != 2 || m.LiveCount() != 0 {
		t.Errorf("Snapshot mutated with live set: len %d, live %d", len(snapshot), m.LiveCount())
	}
}
