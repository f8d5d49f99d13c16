package combo

import "context"

type Repository interface {
	Upsert(ctx context.Context, combo ComboBet) error
	Get(ctx context.Context, id string) (ComboBet, bool, error)
}
