package memory

import (
	"context"
	"sync"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/analysis"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[int64]analysis.TeamProfile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[int64]analysis.TeamProfile)}
}

func (r *ProfileRepository) UpsertProfile(_ context.Context, profile analysis.TeamProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.TeamID] = profile
	return nil
}

func (r *ProfileRepository) GetProfile(_ context.Context, teamID int64) (analysis.TeamProfile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[teamID]
	return profile, ok, nil
}
