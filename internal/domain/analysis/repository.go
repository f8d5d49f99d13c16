package analysis

import "context"

// Repository persists team profiles per analysis run.
type Repository interface {
	UpsertProfile(ctx context.Context, profile TeamProfile) error
	GetProfile(ctx context.Context, teamID int64) (TeamProfile, bool, error)
}
