package main

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/proxima/core"
	"github.com/lixenwraith/proxima/vmath"
)

// glyph is the host-side entity: one styled rune on the screen
type glyph struct {
	r       rune
	style   tcell.Style
	pos     vmath.Vec2
	enabled bool
}

// screenHost implements core.Host over a tcell screen. Entities are
// glyphs; disabled glyphs are simply not drawn.
type screenHost struct {
	mu     sync.Mutex
	nextID core.EntityHandle
	glyphs map[core.EntityHandle]*glyph
}

func newScreenHost() *screenHost {
	return &screenHost{
		glyphs: make(map[core.EntityHandle]*glyph),
	}
}

func (h *screenHost) CreateEntity() core.EntityHandle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.glyphs[h.nextID] = &glyph{r: '?', style: tcell.StyleDefault, pos: core.OutOfPlay}
	return h.nextID
}

func (h *screenHost) DestroyEntity(e core.EntityHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.glyphs, e)
}

func (h *screenHost) SetEnabled(e core.EntityHandle, enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.glyphs[e]; ok {
		g.enabled = enabled
	}
}

func (h *screenHost) Position(e core.EntityHandle) vmath.Vec2 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.glyphs[e]; ok {
		return g.pos
	}
	return vmath.Vec2{}
}

func (h *screenHost) SetPosition(e core.EntityHandle, pos vmath.Vec2) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.glyphs[e]; ok {
		g.pos = pos
	}
}

// SetGlyph assigns the visual for a host entity
func (h *screenHost) SetGlyph(e core.EntityHandle, r rune, style tcell.Style) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.glyphs[e]; ok {
		g.r = r
		g.style = style
	}
}

// Draw renders every enabled glyph inside the playfield
func (h *screenHost) Draw(screen tcell.Screen, width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, g := range h.glyphs {
		if !g.enabled {
			continue
		}
		x, y := int(g.pos.X), int(g.pos.Y)
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		screen.SetContent(x, y, g.r, nil, g.style)
	}
}
