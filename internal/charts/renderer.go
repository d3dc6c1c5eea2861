package charts

import "sync"

// Renderer draws a chart. Drawing a chart whose ID was drawn before replaces it.
type Renderer interface {
	Draw(c Chart)
}

// Board is a Renderer that keeps the latest version of each chart and counts
// how often each was drawn.
type Board struct {
	mu     sync.RWMutex
	charts map[string]Chart
	draws  map[string]int
	onDraw func(Chart)
}

func NewBoard() *Board {
	return &Board{charts: map[string]Chart{}, draws: map[string]int{}}
}

// OnDraw registers fn to be called after every Draw.
func (b *Board) OnDraw(fn func(Chart)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onDraw = fn
}

func (b *Board) Draw(c Chart) {
	b.mu.Lock()
	b.charts[c.ID] = c
	b.draws[c.ID]++
	fn := b.onDraw
	b.mu.Unlock()
	if fn != nil {
		fn(c)
	}
}

func (b *Board) Chart(id string) (Chart, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.charts[id]
	return c, ok
}

func (b *Board) Draws(id string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.draws[id]
}

// Charts returns the current charts with the given IDs, skipping undrawn ones.
func (b *Board) Charts(ids ...string) []Chart {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Chart, 0, len(ids))
	for _, id := range ids {
		if c, ok := b.charts[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
