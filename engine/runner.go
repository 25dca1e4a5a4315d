package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// FrameFunc is a per-frame callback. dt is the simulated time elapsed
// since the previous frame.
type FrameFunc func(dt time.Duration)

// Runner drives registered frame callbacks on a fixed interval. It is
// the cooperative scheduling point of the whole subsystem: pool
// lifetime ticks, gameplay mutation and proximity scans all run
// synchronously inside one frame, in registration order, so no
// locking is needed between them.
//
// Step exists for callers that own their own loop (the demo, tests):
// it delivers one frame with an explicit dt and is what Run itself
// uses internally.
type Runner struct {
	mu           sync.Mutex
	frames       []FrameFunc
	interval     time.Duration
	timeProvider TimeProvider

	lastFrame time.Time
	frames64  atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

// NewRunner creates a runner with the given frame interval.
// timeProvider may be nil, defaulting to the monotonic clock.
func NewRunner(interval time.Duration, timeProvider TimeProvider) *Runner {
	if timeProvider == nil {
		timeProvider = NewMonotonicTimeProvider()
	}
	return &Runner{
		interval:     interval,
		timeProvider: timeProvider,
		stopChan:     make(chan struct{}),
	}
}

// OnFrame registers a callback, invoked every frame in registration order
func (r *Runner) OnFrame(fn FrameFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, fn)
}

// Step delivers a single frame with the given dt
func (r *Runner) Step(dt time.Duration) {
	r.mu.Lock()
	frames := make([]FrameFunc, len(r.frames))
	copy(frames, r.frames)
	r.mu.Unlock()

	for _, fn := range frames {
		fn(dt)
	}
	r.frames64.Add(1)
}

// Run blocks, stepping frames on the configured interval with measured
// dt, until Stop is called. The first frame observes dt equal to the
// interval rather than zero.
func (r *Runner) Run() {
	if !r.running.CompareAndSwap(false, true) {
		return
	}
	defer r.running.Store(false)

	r.mu.Lock()
	r.lastFrame = r.timeProvider.Now().Add(-r.interval)
	r.mu.Unlock()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			now := r.timeProvider.Now()
			r.mu.Lock()
			dt := now.Sub(r.lastFrame)
			r.lastFrame = now
			r.mu.Unlock()
			r.Step(dt)
		}
	}
}

// Stop terminates Run. Safe to call more than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
}

// FrameCount returns the number of frames delivered so far
func (r *Runner) FrameCount() uint64 {
	return r.frames64.Load()
}
