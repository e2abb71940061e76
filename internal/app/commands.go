package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"roomcheck/internal/domain"
)

// InspectionPayload is the raw submission as the frontend sends it: loosely
// typed record collections that the mappers normalize before the engine ever
// sees them.
type InspectionPayload struct {
	Inspector string
	Notes     string
	Equipment []map[string]any
	Inventory []map[string]any
	Damages   []map[string]any
}

type InspectionService struct {
	policy domain.PolicySource
	repo   domain.InspectionRepository
	cache  domain.Cache
	clock  func() time.Time
}

func NewInspectionService(p domain.PolicySource, r domain.InspectionRepository, cache domain.Cache) *InspectionService {
	return &InspectionService{policy: p, repo: r, cache: cache, clock: time.Now}
}

// CurrentPolicy fetches the remote policy, falling back to the built-in
// default when the source has none or is unreachable. Fallbacks are recorded
// as policy misses so operators can see the service is running on defaults.
func (s *InspectionService) CurrentPolicy(ctx context.Context) domain.ScoringPolicy {
	if s.policy == nil {
		return domain.DefaultPolicy()
	}
	p, err := s.policy.FetchPolicy(ctx)
	if err != nil {
		status, reason := 0, "unreachable"
		if errors.Is(err, domain.ErrNotFound) {
			status, reason = 404, "not configured"
		} else {
			log.Warn().Err(err).Msg("policy fetch failed, using default policy")
		}
		if s.repo != nil {
			_ = s.repo.LogPolicyMiss(ctx, status, reason)
		}
		return domain.DefaultPolicy()
	}
	if err := p.Validate(); err != nil {
		log.Warn().Err(err).Msg("remote policy invalid, using default policy")
		if s.repo != nil {
			_ = s.repo.LogPolicyMiss(ctx, 422, "invalid policy")
		}
		return domain.DefaultPolicy()
	}
	return p
}

// Preview scores a payload without persisting anything. This backs the live
// form: it is called on every edit, so it must not fail on messy record data.
func (s *InspectionService) Preview(ctx context.Context, payload InspectionPayload) (domain.ScoringResult, error) {
	equipment := mapEquipment(payload.Equipment)
	inventory := mapInventory(payload.Inventory)
	damages := mapDamages(payload.Damages)
	return domain.ComputeScore(equipment, inventory, damages, s.CurrentPolicy(ctx))
}

// Submit normalizes, scores, and persists a completed inspection, then evicts
// any cached reads for the room.
func (s *InspectionService) Submit(ctx context.Context, roomID int64, payload InspectionPayload) (domain.Inspection, error) {
	equipment := mapEquipment(payload.Equipment)
	inventory := mapInventory(payload.Inventory)
	damages := mapDamages(payload.Damages)

	res, err := domain.ComputeScore(equipment, inventory, damages, s.CurrentPolicy(ctx))
	if err != nil {
		return domain.Inspection{}, err
	}

	ins := domain.Inspection{
		RoomID:      roomID,
		Equipment:   equipment,
		Inventory:   inventory,
		Damages:     damages,
		Result:      res,
		CompletedAt: s.clock().UTC(),
	}
	if payload.Inspector != "" {
		v := payload.Inspector
		ins.Inspector = &v
	}
	if payload.Notes != "" {
		v := payload.Notes
		ins.Notes = &v
	}

	id, err := s.repo.UpsertInspection(ctx, ins)
	if err != nil {
		return domain.Inspection{}, fmt.Errorf("persist inspection for room %d: %w", roomID, err)
	}
	ins.ID = id

	if s.cache != nil {
		s.invalidateInspection(ctx, id)
		s.invalidateRoom(ctx, roomID)
	}

	log.Info().
		Int64("inspection_id", id).
		Int64("room_id", roomID).
		Int("score", res.Score).
		Bool("can_checkout", res.CanCheckout).
		Float64("charges", res.TotalCharges).
		Msg("inspection submitted")

	return ins, nil
}

// Rescore reloads one stored inspection, re-derives discrepancies, and
// recomputes its result under the current policy. Used by the batch job after
// a policy change.
func (s *InspectionService) Rescore(ctx context.Context, id int64) error {
	ins, err := s.repo.GetInspection(ctx, id)
	if err != nil {
		return err
	}

	refreshDiscrepancies(ins.Inventory)
	res, err := domain.ComputeScore(ins.Equipment, ins.Inventory, ins.Damages, s.CurrentPolicy(ctx))
	if err != nil {
		return err
	}

	if err := s.repo.UpdateResult(ctx, id, res); err != nil {
		return fmt.Errorf("update result for inspection %d: %w", id, err)
	}
	if s.cache != nil {
		s.invalidateInspection(ctx, id)
		s.invalidateRoom(ctx, ins.RoomID)
	}
	return nil
}

// invalidate cached reads

func (s *InspectionService) invalidateInspection(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, fmt.Sprintf("inspection:%d", id))
}

func (s *InspectionService) invalidateRoom(ctx context.Context, roomID int64) {
	// API default is limit=50, sort=-completed_at. Clear the common limits too.
	for _, lim := range []int{50, 100, 200} {
		_ = s.cache.Del(ctx, fmt.Sprintf("room_inspections:%d:%d:%s", roomID, lim, "-completed_at"))
	}
}
