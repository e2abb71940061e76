package domain_test

import (
	"math/rand"
	"reflect"
	"testing"

	"roomcheck/internal/domain"
)

func mustScore(t *testing.T, eq []domain.EquipmentCheck, inv []domain.InventoryCheck, dmg []domain.Damage) domain.ScoringResult {
	t.Helper()
	res, err := domain.ComputeScore(eq, inv, dmg, domain.DefaultPolicy())
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	return res
}

func TestComputeScore_EmptyInputsArePerfect(t *testing.T) {
	res := mustScore(t, nil, nil, nil)
	if res.Score != 100 || !res.CanCheckout || res.TotalCharges != 0 || len(res.BlockingIssues) != 0 {
		t.Fatalf("unexpected result for empty inputs: %+v", res)
	}
}

func TestComputeScore_CriticalEquipmentBlocks(t *testing.T) {
	eq := []domain.EquipmentCheck{{
		Category:      domain.CategoryElectronics,
		Item:          "TV",
		Status:        domain.StatusNotWorking,
		Severity:      domain.SeverityCritical,
		EstimatedCost: 50,
	}}
	res := mustScore(t, eq, nil, nil)
	if res.Score != 80 {
		t.Fatalf("score = %d, want 80", res.Score)
	}
	if len(res.BlockingIssues) != 1 {
		t.Fatalf("blocking issues = %+v, want exactly one", res.BlockingIssues)
	}
	if res.CanCheckout {
		t.Fatalf("checkout allowed despite blocking issue")
	}
	if res.TotalCharges != 50 {
		t.Fatalf("charges = %v, want 50", res.TotalCharges)
	}
}

func TestComputeScore_MissingInventoryChargesButPasses(t *testing.T) {
	inv := []domain.InventoryCheck{{
		ItemID:       "towel-01",
		Expected:     2,
		Actual:       1,
		Condition:    domain.ConditionGood,
		Discrepancy:  domain.DiscrepancyMissing,
		ChargeGuest:  true,
		ChargeAmount: 20,
	}}
	res := mustScore(t, nil, inv, nil)
	if res.Score != 85 {
		t.Fatalf("score = %d, want 85", res.Score)
	}
	if !res.CanCheckout {
		t.Fatalf("expected checkout to pass: %+v", res)
	}
	if res.TotalCharges != 20 {
		t.Fatalf("charges = %v, want 20", res.TotalCharges)
	}
}

func TestComputeScore_ModerateDamagesFailOnThreshold(t *testing.T) {
	dmg := make([]domain.Damage, 3)
	for i := range dmg {
		dmg[i] = domain.Damage{
			Type:         domain.DamageRoom,
			Severity:     domain.SeverityModerate,
			ChargeGuest:  true,
			ChargeAmount: 30,
		}
	}
	res := mustScore(t, nil, nil, dmg)
	if res.Score != 55 {
		t.Fatalf("score = %d, want 55", res.Score)
	}
	if res.CanCheckout {
		t.Fatalf("checkout allowed below pass threshold")
	}
	if len(res.BlockingIssues) != 0 {
		t.Fatalf("no item is critical, got blocking issues %+v", res.BlockingIssues)
	}
	if res.TotalCharges != 90 {
		t.Fatalf("charges = %v, want 90", res.TotalCharges)
	}
}

func TestComputeScore_CriticalDamageBlocksDespiteScore(t *testing.T) {
	dmg := []domain.Damage{{
		Type:        domain.DamageRoom,
		Description: "broken window",
		Severity:    domain.SeverityCritical,
		ChargeGuest: false,
	}}
	res := mustScore(t, nil, nil, dmg)
	if res.Score != 75 {
		t.Fatalf("score = %d, want 75", res.Score)
	}
	if res.CanCheckout {
		t.Fatalf("critical damage must block checkout even above threshold")
	}
	if len(res.BlockingIssues) != 1 || res.BlockingIssues[0].Issue != "broken window" {
		t.Fatalf("unexpected blocking issues: %+v", res.BlockingIssues)
	}
	if res.TotalCharges != 0 {
		t.Fatalf("chargeGuest=false must not charge, got %v", res.TotalCharges)
	}
}

func TestComputeScore_ClampsAtZero(t *testing.T) {
	var dmg []domain.Damage
	for i := 0; i < 10; i++ {
		dmg = append(dmg, domain.Damage{Type: domain.DamageRoom, Severity: domain.SeverityCritical})
	}
	res := mustScore(t, nil, nil, dmg)
	if res.Score != 0 {
		t.Fatalf("score = %d, want clamp to 0", res.Score)
	}
	if res.CanCheckout {
		t.Fatalf("checkout allowed at score 0 with blocking issues")
	}
}

func TestComputeScore_UnknownEnumsScoreAtLowestTier(t *testing.T) {
	eq := []domain.EquipmentCheck{{Item: "lamp", Status: "exploded", Severity: "catastrophic"}}
	inv := []domain.InventoryCheck{{ItemID: "cup", Discrepancy: "vanished"}}
	res := mustScore(t, eq, inv, nil)
	// minor equipment (5) + lowest inventory tier (5)
	if res.Score != 90 {
		t.Fatalf("score = %d, want 90", res.Score)
	}
}

func TestComputeScore_SeverityDefaultsToMinor(t *testing.T) {
	eq := []domain.EquipmentCheck{{Item: "kettle", Status: domain.StatusDirty}}
	res := mustScore(t, eq, nil, nil)
	if res.Score != 95 {
		t.Fatalf("unspecified severity must deduct as minor, score = %d", res.Score)
	}
	if len(res.BlockingIssues) != 0 {
		t.Fatalf("dirty non-critical item must not block: %+v", res.BlockingIssues)
	}
}

func TestComputeScore_WorkingEquipmentCostsNothing(t *testing.T) {
	eq := []domain.EquipmentCheck{
		{Item: "TV", Status: domain.StatusWorking, EstimatedCost: 500},
		{Item: "sheets", Status: domain.StatusSatisfactory, EstimatedCost: 80},
	}
	res := mustScore(t, eq, nil, nil)
	if res.Score != 100 || res.TotalCharges != 0 {
		t.Fatalf("healthy equipment must not deduct or charge: %+v", res)
	}
}

func TestComputeScore_Idempotent(t *testing.T) {
	eq := []domain.EquipmentCheck{{Item: "TV", Status: domain.StatusDamaged, Severity: domain.SeverityMajor, EstimatedCost: 120}}
	inv := []domain.InventoryCheck{{ItemID: "robe", Expected: 2, Actual: 0, Discrepancy: domain.DiscrepancyMissing, ChargeGuest: true, ChargeAmount: 40}}
	dmg := []domain.Damage{{Type: domain.DamageInventory, Severity: domain.SeverityMinor}}

	first := mustScore(t, eq, inv, dmg)
	for i := 0; i < 5; i++ {
		if got := mustScore(t, eq, inv, dmg); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestComputeScore_OrderIndependent(t *testing.T) {
	eq := []domain.EquipmentCheck{
		{Item: "TV", Status: domain.StatusDamaged, Severity: domain.SeverityMajor, EstimatedCost: 10},
		{Item: "AC", Status: domain.StatusDirty, Severity: domain.SeverityMinor, EstimatedCost: 5},
		{Item: "safe", Status: domain.StatusMissing, Severity: domain.SeverityModerate, EstimatedCost: 90},
	}
	dmg := []domain.Damage{
		{Type: domain.DamageRoom, Severity: domain.SeverityModerate, ChargeGuest: true, ChargeAmount: 25},
		{Type: domain.DamageExtraUsage, Severity: domain.SeverityMinor, ChargeGuest: true, ChargeAmount: 12},
	}
	want := mustScore(t, eq, nil, dmg)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		e := append([]domain.EquipmentCheck(nil), eq...)
		d := append([]domain.Damage(nil), dmg...)
		rng.Shuffle(len(e), func(a, b int) { e[a], e[b] = e[b], e[a] })
		rng.Shuffle(len(d), func(a, b int) { d[a], d[b] = d[b], d[a] })

		got := mustScore(t, e, nil, d)
		if got.Score != want.Score || got.TotalCharges != want.TotalCharges ||
			got.CanCheckout != want.CanCheckout || len(got.BlockingIssues) != len(want.BlockingIssues) {
			t.Fatalf("permutation %d changed result: %+v vs %+v", i, got, want)
		}
	}
}

func TestComputeScore_AddingDefectsNeverRaisesScore(t *testing.T) {
	var dmg []domain.Damage
	prev := mustScore(t, nil, nil, dmg).Score
	for _, sev := range []domain.Severity{domain.SeverityMinor, domain.SeverityModerate, domain.SeverityMajor, domain.SeverityCritical} {
		dmg = append(dmg, domain.Damage{Type: domain.DamageRoom, Severity: sev})
		cur := mustScore(t, nil, nil, dmg).Score
		if cur > prev {
			t.Fatalf("score rose from %d to %d after adding %s damage", prev, cur, sev)
		}
		prev = cur
	}
}

func TestComputeScore_GatingConsistency(t *testing.T) {
	// Blocking issue present: never checkout, whatever the threshold.
	eq := []domain.EquipmentCheck{{Item: "lock", Status: domain.StatusNotWorking, Severity: domain.SeverityMinor}}
	p := domain.DefaultPolicy()
	p.PassThreshold = 0
	res, err := domain.ComputeScore(eq, nil, nil, p)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if len(res.BlockingIssues) == 0 || res.CanCheckout {
		t.Fatalf("blocking issue must gate checkout: %+v", res)
	}
}

func TestComputeScore_InvalidPolicy(t *testing.T) {
	bad := []domain.ScoringPolicy{
		{PassThreshold: -1},
		{PassThreshold: 101},
		{PassThreshold: 60, DamageDeductions: map[domain.Severity]int{domain.SeverityMinor: -5}},
	}
	for i, p := range bad {
		if _, err := domain.ComputeScore(nil, nil, nil, p); err != domain.ErrInvalidPolicy {
			t.Fatalf("case %d: err = %v, want ErrInvalidPolicy", i, err)
		}
	}
}

func TestComputeScore_SparsePolicyFallsBackToDefaults(t *testing.T) {
	p := domain.ScoringPolicy{
		PassThreshold:       60,
		DamageDeductions:    map[domain.Severity]int{domain.SeverityCritical: 50},
		EquipmentDeductions: nil,
	}
	dmg := []domain.Damage{
		{Type: domain.DamageRoom, Severity: domain.SeverityCritical},
		{Type: domain.DamageRoom, Severity: domain.SeverityMinor},
	}
	res, err := domain.ComputeScore(nil, nil, dmg, p)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	// 100 - 50 (overridden critical) - 10 (default minor)
	if res.Score != 40 {
		t.Fatalf("score = %d, want 40", res.Score)
	}
}

func TestDeriveDiscrepancy(t *testing.T) {
	cases := []struct {
		name      string
		expected  int
		actual    int
		condition domain.ItemCondition
		want      domain.Discrepancy
	}{
		{"short", 2, 1, domain.ConditionGood, domain.DiscrepancyMissing},
		{"over", 2, 3, domain.ConditionExcellent, domain.DiscrepancyExtra},
		{"worn", 2, 2, domain.ConditionWorn, domain.DiscrepancyWrongCondition},
		{"damaged", 1, 1, domain.ConditionDamaged, domain.DiscrepancyWrongCondition},
		{"clean", 2, 2, domain.ConditionGood, domain.DiscrepancyNone},
		{"missing beats condition", 2, 1, domain.ConditionDamaged, domain.DiscrepancyMissing},
	}
	for _, tc := range cases {
		if got := domain.DeriveDiscrepancy(tc.expected, tc.actual, tc.condition); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}
