package meals

import "sync"

// GenerationTracker hands out increasing generation numbers per user, so a slow
// analysis can tell that a newer one was started after it.
type GenerationTracker struct {
	mu      sync.Mutex
	counter uint64
	current map[int]uint64
}

func NewGenerationTracker() *GenerationTracker {
	return &GenerationTracker{
		current: make(map[int]uint64),
	}
}

func (g *GenerationTracker) Begin(userID int) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	g.current[userID] = g.counter
	return g.counter
}

func (g *GenerationTracker) IsCurrent(userID int, generation uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current[userID] == generation
}

// Done forgets the user, unless a newer generation has been started meanwhile.
func (g *GenerationTracker) Done(userID int, generation uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current[userID] == generation {
		delete(g.current, userID)
	}
}
