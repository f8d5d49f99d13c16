package prediction

import "context"

type Repository interface {
	UpsertBatch(ctx context.Context, predictions []MarketPrediction) error
	ListByFixture(ctx context.Context, fixtureID int64) ([]MarketPrediction, error)
}
