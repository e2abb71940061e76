package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "roomcheck/internal/adapters/redis"
	"roomcheck/internal/domain"
)

func TestCache_RoundTripAndDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	// miss on empty store
	var out domain.ScoringResult
	if ok, err := cache.Get(ctx, "inspection:1", &out); err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	want := domain.ScoringResult{
		Score:        80,
		CanCheckout:  false,
		TotalCharges: 50,
		BlockingIssues: []domain.BlockingIssue{
			{Issue: "TV (not_working)", Severity: "critical"},
		},
	}
	if err := cache.Set(ctx, "inspection:1", want, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	ok, err := cache.Get(ctx, "inspection:1", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if out.Score != 80 || len(out.BlockingIssues) != 1 || out.BlockingIssues[0].Issue != "TV (not_working)" {
		t.Fatalf("round-trip mismatch: %+v", out)
	}

	if err := cache.Del(ctx, "inspection:1"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if ok, _ := cache.Get(ctx, "inspection:1", &out); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", domain.ScoringResult{Score: 100}, 30); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var out domain.ScoringResult
	if ok, _ := cache.Get(ctx, "k", &out); ok {
		t.Fatalf("expected expiry after TTL")
	}
}
