package domain

import "context"

type InspectionRepository interface {
	// Write paths
	UpsertInspection(ctx context.Context, ins Inspection) (int64, error)
	UpdateResult(ctx context.Context, id int64, res ScoringResult) error
	LogPolicyMiss(ctx context.Context, status int, reason string) error

	// Read paths
	GetInspection(ctx context.Context, id int64) (Inspection, error)
	ListRoomInspections(ctx context.Context, roomID int64, pg PageQuery) (InspectionsPage, error)
	ListInspectionIDs(ctx context.Context) ([]int64, error)
}

// PolicySource fetches the current scoring policy from wherever it lives
// (remote config service, static default). ErrNotFound means the source has
// no policy configured; callers fall back to DefaultPolicy.
type PolicySource interface {
	FetchPolicy(ctx context.Context) (ScoringPolicy, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
