// proxima-demo: a small swarm shooter exercising the pool manager and
// proximity detector. Move with hjkl or arrows, fire with space, quit
// with q or Esc. Drones drift toward the cursor; bullets recycle
// through their pool on impact, expiry, or leaving the playfield.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/proxima/audio"
	"github.com/lixenwraith/proxima/config"
	"github.com/lixenwraith/proxima/core"
	"github.com/lixenwraith/proxima/engine"
	"github.com/lixenwraith/proxima/pool"
	"github.com/lixenwraith/proxima/proximity"
	"github.com/lixenwraith/proxima/vmath"
)

const (
	frameInterval = 33 * time.Millisecond
	droneSpawnSec = 1.2
	cursorRadius  = 0.5
	bulletSpeed   = 25.0
	droneSpeedMin = 2.0
	droneSpeedMax = 6.0
	startLives    = 3
)

const (
	kindBullet = core.Kind("bullet")
	kindDrone  = core.Kind("drone")
)

type game struct {
	screen tcell.Screen
	host   *screenHost
	mgr    *pool.Manager
	player *audio.Player
	logger *zap.Logger
	cfg    *config.Config

	width, height int
	cursor        vmath.Vec2
	fireDir       vmath.Vec2

	score      int
	lives      int
	spawnTimer float64
	over       bool
}

func main() {
	configPath := flag.String("config", "", "path to TOML configuration")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()

	g := &game{
		screen:  screen,
		host:    newScreenHost(),
		player:  audio.NewPlayer(),
		logger:  logger,
		cfg:     cfg,
		lives:   startLives,
		fireDir: vmath.Vec2{X: 0, Y: -1},
	}
	g.width, g.height = screen.Size()
	g.cursor = vmath.Vec2{X: float64(g.width) / 2, Y: float64(g.height) / 2}

	if cfg.Audio.Enabled {
		if err := g.player.Initialize(); err != nil {
			// Non-fatal, the game runs silent
			logger.Warn("audio initialization failed", zap.Error(err))
		}
		defer g.player.Cleanup()
	}

	g.mgr = pool.NewManager(g.host, pool.WithLogger(logger))
	if err := g.createPools(); err != nil {
		return err
	}
	defer g.mgr.Clear()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	runner := engine.NewRunner(frameInterval, nil)
	runner.OnFrame(func(dt time.Duration) {
		g.handleInput(events, runner)
		if g.over {
			return
		}
		g.spawnDrones(dt)
		g.moveActors(dt)
		g.mgr.Tick(dt)
		g.resolveCollisions()
	})
	runner.OnFrame(func(dt time.Duration) {
		g.render()
	})
	runner.Run()

	logger.Info("session finished", zap.Int("score", g.score))
	return nil
}

func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = level
	// tcell owns the terminal, log to file only
	zc.OutputPaths = []string{lc.File}
	zc.ErrorOutputPaths = []string{lc.File}
	return zc.Build()
}

func (g *game) createPools() error {
	bulletCfg, ok := g.cfg.Pools[string(kindBullet)]
	if !ok {
		bulletCfg = config.PoolConfig{Warmup: 20, Radius: 0.3, Life: 2.5}
	}
	droneCfg, ok := g.cfg.Pools[string(kindDrone)]
	if !ok {
		droneCfg = config.PoolConfig{Warmup: 10, Radius: 0.8}
	}

	bulletFactory := func() *pool.Actor {
		a := &pool.Actor{Handle: g.host.CreateEntity()}
		g.host.SetGlyph(a.Handle, '*', tcell.StyleDefault.Foreground(tcell.ColorYellow))
		return a
	}
	bulletReset := func(a *pool.Actor) {
		a.Radius = bulletCfg.Radius
		a.Life = bulletCfg.Life
		a.Pos = g.cursor
		a.Vel = vmath.Vec2{}
	}
	if err := g.mgr.CreatePool(kindBullet, bulletFactory, bulletReset, bulletCfg.Warmup,
		pool.WithMaxSize(bulletCfg.Max)); err != nil {
		return err
	}

	droneFactory := func() *pool.Actor {
		a := &pool.Actor{Handle: g.host.CreateEntity()}
		g.host.SetGlyph(a.Handle, 'o', tcell.StyleDefault.Foreground(tcell.ColorRed))
		return a
	}
	droneReset := func(a *pool.Actor) {
		a.Radius = droneCfg.Radius
		a.Life = droneCfg.Life
		a.Vel = vmath.Vec2{}
		a.State = 1 // hit points
	}
	return g.mgr.CreatePool(kindDrone, droneFactory, droneReset, droneCfg.Warmup,
		pool.WithMaxSize(droneCfg.Max))
}

func (g *game) handleInput(events <-chan tcell.Event, runner *engine.Runner) {
	for {
		select {
		case ev := <-events:
			switch tev := ev.(type) {
			case *tcell.EventResize:
				g.width, g.height = tev.Size()
				g.screen.Sync()
			case *tcell.EventKey:
				g.handleKey(tev, runner)
			}
		default:
			return
		}
	}
}

func (g *game) handleKey(ev *tcell.EventKey, runner *engine.Runner) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		runner.Stop()
		return
	case tcell.KeyLeft:
		g.moveCursor(-1, 0)
	case tcell.KeyRight:
		g.moveCursor(1, 0)
	case tcell.KeyUp:
		g.moveCursor(0, -1)
	case tcell.KeyDown:
		g.moveCursor(0, 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			runner.Stop()
		case 'h':
			g.moveCursor(-1, 0)
		case 'l':
			g.moveCursor(1, 0)
		case 'k':
			g.moveCursor(0, -1)
		case 'j':
			g.moveCursor(0, 1)
		case ' ':
			g.fire()
		}
	}
}

func (g *game) moveCursor(dx, dy float64) {
	if g.over {
		return
	}
	g.cursor.X = clamp(g.cursor.X+dx, 0, float64(g.width-1))
	g.cursor.Y = clamp(g.cursor.Y+dy, 0, float64(g.height-2)) // last row is HUD
	if dx != 0 || dy != 0 {
		g.fireDir = vmath.Vec2{X: dx, Y: dy}.Normalize()
	}
}

func (g *game) fire() {
	if g.over {
		return
	}
	a, err := g.mgr.Acquire(kindBullet)
	if err != nil {
		// ErrExhausted under a cap: skip the spawn
		g.logger.Debug("bullet spawn skipped", zap.Error(err))
		return
	}
	a.Pos = g.cursor
	a.Vel = g.fireDir.Scale(bulletSpeed)
	g.player.Play(audio.CueSpawn)
}

func (g *game) spawnDrones(dt time.Duration) {
	g.spawnTimer += dt.Seconds()
	if g.spawnTimer < droneSpawnSec {
		return
	}
	g.spawnTimer -= droneSpawnSec

	a, err := g.mgr.Acquire(kindDrone)
	if err != nil {
		g.logger.Debug("drone spawn skipped", zap.Error(err))
		return
	}

	// Spawn on a random screen edge, drifting toward the cursor
	var p vmath.Vec2
	switch rand.Intn(4) {
	case 0:
		p = vmath.Vec2{X: rand.Float64() * float64(g.width), Y: 0}
	case 1:
		p = vmath.Vec2{X: rand.Float64() * float64(g.width), Y: float64(g.height - 2)}
	case 2:
		p = vmath.Vec2{X: 0, Y: rand.Float64() * float64(g.height-2)}
	default:
		p = vmath.Vec2{X: float64(g.width - 1), Y: rand.Float64() * float64(g.height-2)}
	}
	speed := droneSpeedMin + rand.Float64()*(droneSpeedMax-droneSpeedMin)
	a.Pos = p
	a.Vel = g.cursor.Sub(p).Normalize().Scale(speed)
}

func (g *game) moveActors(dt time.Duration) {
	secs := dt.Seconds()
	for _, a := range g.mgr.Live() {
		a.Pos = a.Pos.Add(a.Vel.Scale(secs))
		g.host.SetPosition(a.Handle, a.Pos)

		// Bullets die at the playfield edge; drones steer back in
		if a.Kind() == kindBullet && g.outOfBounds(a.Pos) {
			if err := g.mgr.Release(a); err != nil {
				g.logger.Error("bounds release failed", zap.Error(err))
			}
			continue
		}
		if a.Kind() == kindDrone && g.outOfBounds(a.Pos) {
			a.Vel = g.cursor.Sub(a.Pos).Normalize().Scale(a.Vel.Len())
		}
	}
}

func (g *game) outOfBounds(p vmath.Vec2) bool {
	return p.X < -1 || p.X > float64(g.width) || p.Y < -1 || p.Y > float64(g.height-1)
}

func (g *game) resolveCollisions() {
	live := g.mgr.Live()
	byID := make(map[core.Entity]*pool.Actor, len(live))
	for _, a := range live {
		byID[a.ID()] = a
	}
	candidates := proximity.Collect(live, nil)

	// Bullets vs drones
	for _, a := range live {
		if a.Kind() != kindBullet || !a.Active() {
			continue
		}
		hit, ok := proximity.Scan(proximity.FromActor(a), candidates, proximity.KindIs(kindDrone))
		if !ok {
			continue
		}
		drone := byID[hit.ID]
		if drone == nil || !drone.Active() {
			continue // already downed by an earlier bullet this frame
		}
		if err := g.mgr.Release(a); err != nil {
			g.logger.Error("bullet release failed", zap.Error(err))
		}
		if err := g.mgr.Release(drone); err != nil {
			g.logger.Error("drone release failed", zap.Error(err))
		}
		g.score++
		g.player.Play(audio.CueHit)
	}

	// Drones vs cursor
	subject := proximity.Candidate{Pos: g.cursor, Radius: cursorRadius}
	for _, hit := range proximity.ScanAll(subject, candidates, proximity.KindIs(kindDrone)) {
		drone := byID[hit.ID]
		if drone == nil || !drone.Active() {
			continue
		}
		if err := g.mgr.Release(drone); err != nil {
			g.logger.Error("drone release failed", zap.Error(err))
		}
		g.lives--
		g.player.Play(audio.CueExpire)
		if g.lives <= 0 {
			g.over = true
			g.logger.Info("game over", zap.Int("score", g.score))
		}
	}
}

func (g *game) render() {
	g.screen.Clear()
	g.host.Draw(g.screen, g.width, g.height-1)

	cursorStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	g.screen.SetContent(int(g.cursor.X), int(g.cursor.Y), '@', nil, cursorStyle)

	hud := fmt.Sprintf(" score %d  lives %d  live %d", g.score, g.lives, g.mgr.LiveCount())
	if bs, err := g.mgr.Stats(kindBullet); err == nil {
		hud += fmt.Sprintf("  bullets %d/%d", bs.Live, bs.Built)
	}
	if ds, err := g.mgr.Stats(kindDrone); err == nil {
		hud += fmt.Sprintf("  drones %d/%d", ds.Live, ds.Built)
	}
	if g.over {
		hud += "  GAME OVER - q to quit"
	}
	drawText(g.screen, 0, g.height-1, hud, tcell.StyleDefault.Reverse(true))

	g.screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
