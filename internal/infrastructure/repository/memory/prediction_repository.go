package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oficialtruesignal-bit/true-signal-sub000/internal/domain/prediction"
)

type PredictionRepository struct {
	mu          sync.RWMutex
	predictions map[string]prediction.MarketPrediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{predictions: make(map[string]prediction.MarketPrediction)}
}

func (r *PredictionRepository) UpsertBatch(_ context.Context, predictions []prediction.MarketPrediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range predictions {
		r.predictions[p.ID] = p
	}
	return nil
}

func (r *PredictionRepository) ListByFixture(_ context.Context, fixtureID int64) ([]prediction.MarketPrediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.MarketPrediction, 0)
	for _, p := range r.predictions {
		if p.FixtureID == fixtureID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
