package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"roomcheck/internal/domain"
)

type QueryService struct {
	repo     domain.InspectionRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.InspectionRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetInspection(ctx context.Context, id int64) (domain.Inspection, error) {
	key := fmt.Sprintf("inspection:%d", id)
	var ins domain.Inspection
	if ok, _ := s.cache.Get(ctx, key, &ins); ok {
		return ins, nil
	}
	ins, err := s.repo.GetInspection(ctx, id)
	if err != nil {
		return domain.Inspection{}, err
	}
	_ = s.cache.Set(ctx, key, ins, int(s.cacheTTL.Seconds()))
	return ins, nil
}

func (s *QueryService) ListRoomInspections(ctx context.Context, roomID int64, pg domain.PageQuery) (domain.InspectionsPage, error) {
	key := fmt.Sprintf("room_inspections:%d:%d:%s", roomID, pg.Limit, pg.Sort)
	var out domain.InspectionsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	page, err := s.repo.ListRoomInspections(ctx, roomID, pg)
	if err != nil {
		return domain.InspectionsPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array (prevents callers
	// from mutating the cached value)
	copied := deepCopyInspectionsPage(page)

	// size guard: skip caching oversized pages
	if b, _ := json.Marshal(copied); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, copied, int(s.cacheTTL.Seconds()))
	}
	return copied, nil
}

func deepCopyInspectionsPage(in domain.InspectionsPage) domain.InspectionsPage {
	out := domain.InspectionsPage{NextCursor: in.NextCursor}
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.Inspection, n)
		copy(out.Items, in.Items)
	}
	return out
}
