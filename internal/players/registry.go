// Package players provides the host-side player collaborators: an in-memory
// roster the engine reassigns players in, and a seeded random generator.
package players

import (
	"sync"

	"AgencyEngine/internal/model"
)

// Registry is an in-memory roster keyed by player id, iterated in insertion order.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*model.Player
	order   []string
}

// NewRegistry seeds the roster with ps.
func NewRegistry(ps []model.Player) *Registry {
	r := &Registry{players: make(map[string]*model.Player, len(ps))}
	for _, p := range ps {
		r.Add(p)
	}
	return r
}

// Add inserts or replaces p.
func (r *Registry) Add(p model.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	cp := p
	r.players[p.ID] = &cp
}

// Get returns the player with id.
func (r *Registry) Get(id string) (model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	if !ok {
		return model.Player{}, model.NotFoundf("player", id)
	}
	return *p, nil
}

// AssignTeam moves the player to teamID.
func (r *Registry) AssignTeam(id, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return model.NotFoundf("player", id)
	}
	p.TeamID = teamID
	return nil
}

// All returns copies of every player in insertion order.
func (r *Registry) All() []model.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.players[id])
	}
	return out
}
