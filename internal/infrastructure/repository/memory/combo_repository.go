package memory

import (
	"context"
	"sync"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/combo"
)

type ComboRepository struct {
	mu     sync.RWMutex
	combos map[string]combo.ComboBet
}

func NewComboRepository() *ComboRepository {
	return &ComboRepository{combos: make(map[string]combo.ComboBet)}
}

func (r *ComboRepository) Upsert(_ context.Context, c combo.ComboBet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := c
	stored.Legs = append([]combo.Leg(nil), c.Legs...)
	r.combos[c.ID] = stored
	return nil
}

func (r *ComboRepository) Get(_ context.Context, id string) (combo.ComboBet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.combos[id]
	if !ok {
		return combo.ComboBet{}, false, nil
	}
	out := c
	out.Legs = append([]combo.Leg(nil), c.Legs...)
	return out, true, nil
}
