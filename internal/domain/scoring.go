package domain

import "errors"

var (
	ErrNotFound      = errors.New("inspection: not found")
	ErrInvalidPolicy = errors.New("inspection: invalid scoring policy")
)

// ScoringPolicy holds the deduction weights and the pass threshold. Weight
// tables may be sparse: missing entries are filled from DefaultPolicy before
// scoring.
type ScoringPolicy struct {
	EquipmentDeductions map[Severity]int    `json:"equipmentDeductions"`
	InventoryDeductions map[Discrepancy]int `json:"inventoryDeductions"`
	DamageDeductions    map[Severity]int    `json:"damageDeductions"`
	PassThreshold       int                 `json:"passThreshold"`
}

// DefaultPolicy is the house policy used when no remote policy is configured.
func DefaultPolicy() ScoringPolicy {
	return ScoringPolicy{
		EquipmentDeductions: map[Severity]int{
			SeverityCritical: 20,
			SeverityMajor:    15,
			SeverityModerate: 10,
			SeverityMinor:    5,
		},
		InventoryDeductions: map[Discrepancy]int{
			DiscrepancyMissing:        15,
			DiscrepancyWrongCondition: 10,
			DiscrepancyExtra:          5,
		},
		DamageDeductions: map[Severity]int{
			SeverityCritical: 25,
			SeverityMajor:    20,
			SeverityModerate: 15,
			SeverityMinor:    10,
		},
		PassThreshold: 60,
	}
}

// Validate checks a caller-supplied policy before any scoring arithmetic.
// An out-of-range threshold or a negative weight would silently corrupt
// scores, so it fails fast instead.
func (p ScoringPolicy) Validate() error {
	if p.PassThreshold < 0 || p.PassThreshold > 100 {
		return ErrInvalidPolicy
	}
	for _, table := range []map[Severity]int{p.EquipmentDeductions, p.DamageDeductions} {
		for _, w := range table {
			if w < 0 {
				return ErrInvalidPolicy
			}
		}
	}
	for _, w := range p.InventoryDeductions {
		if w < 0 {
			return ErrInvalidPolicy
		}
	}
	return nil
}

// normalized fills any missing weight entries from the default tables so the
// lookups in ComputeScore always resolve. The receiver is not mutated.
func (p ScoringPolicy) normalized() ScoringPolicy {
	def := DefaultPolicy()
	out := ScoringPolicy{
		EquipmentDeductions: fillWeights(p.EquipmentDeductions, def.EquipmentDeductions),
		InventoryDeductions: fillWeights(p.InventoryDeductions, def.InventoryDeductions),
		DamageDeductions:    fillWeights(p.DamageDeductions, def.DamageDeductions),
		PassThreshold:       p.PassThreshold,
	}
	return out
}

func fillWeights[K comparable](have, def map[K]int) map[K]int {
	out := make(map[K]int, len(def))
	for k, w := range def {
		out[k] = w
	}
	for k, w := range have {
		out[k] = w
	}
	return out
}

type BlockingIssue struct {
	Issue    string `json:"issue"`
	Severity string `json:"severity"`
}

type ScoringResult struct {
	Score          int             `json:"score"`
	CanCheckout    bool            `json:"canCheckout"`
	TotalCharges   float64         `json:"totalCharges"`
	BlockingIssues []BlockingIssue `json:"blockingIssues"`
}

// ComputeScore runs the full pipeline: deduct from a baseline of 100 for each
// faulty equipment check, inventory discrepancy, and damage; collect blocking
// issues; sum guest charges; gate checkout on both. It is pure and
// order-independent (deductions are plain sums), and it never fails on record
// data: an unrecognized severity or discrepancy scores at the lowest tier,
// since this feeds a live form on every edit. The only error is a malformed
// policy.
//
// Nil slices are valid empty collections and yield a perfect score.
func ComputeScore(equipment []EquipmentCheck, inventory []InventoryCheck, damages []Damage, policy ScoringPolicy) (ScoringResult, error) {
	if err := policy.Validate(); err != nil {
		return ScoringResult{}, err
	}
	p := policy.normalized()

	score := 100
	charges := 0.0
	var blocking []BlockingIssue

	for _, eq := range equipment {
		if eq.Status.OK() {
			continue
		}
		score -= deduction(p.EquipmentDeductions, eq.Severity, SeverityMinor)
		charges += eq.EstimatedCost
		if eq.Severity == SeverityCritical || eq.Status == StatusNotWorking {
			sev := eq.Severity
			if sev == "" {
				sev = SeverityMinor
			}
			blocking = append(blocking, BlockingIssue{
				Issue:    eq.Item + " (" + string(eq.Status) + ")",
				Severity: string(sev),
			})
		}
	}

	for _, inv := range inventory {
		if inv.ChargeGuest {
			charges += inv.ChargeAmount
		}
		if inv.Discrepancy == DiscrepancyNone || inv.Discrepancy == "" {
			continue
		}
		score -= deduction(p.InventoryDeductions, inv.Discrepancy, DiscrepancyExtra)
	}

	for _, d := range damages {
		score -= deduction(p.DamageDeductions, d.Severity, SeverityMinor)
		if d.ChargeGuest {
			charges += d.ChargeAmount
		}
		if d.Severity == SeverityCritical {
			blocking = append(blocking, BlockingIssue{
				Issue:    damageLabel(d),
				Severity: string(SeverityCritical),
			})
		}
	}

	if score < 0 {
		score = 0
	}

	return ScoringResult{
		Score:          score,
		CanCheckout:    len(blocking) == 0 && score >= p.PassThreshold,
		TotalCharges:   charges,
		BlockingIssues: blocking,
	}, nil
}

// deduction resolves a weight with graceful degradation: unknown or empty
// keys take the lowest tier. The table is normalized, so the lowest tier is
// always present.
func deduction[K comparable](table map[K]int, key, lowest K) int {
	if w, ok := table[key]; ok {
		return w
	}
	return table[lowest]
}

// DeriveDiscrepancy recomputes the discrepancy class from quantities and
// condition. Callers apply it on every edit and again on load; a stored
// discrepancy that disagrees with its quantities is stale and gets replaced.
func DeriveDiscrepancy(expected, actual int, condition ItemCondition) Discrepancy {
	switch {
	case actual < expected:
		return DiscrepancyMissing
	case actual > expected:
		return DiscrepancyExtra
	case condition == ConditionWorn || condition == ConditionDamaged:
		return DiscrepancyWrongCondition
	default:
		return DiscrepancyNone
	}
}

func damageLabel(d Damage) string {
	if d.Description != "" {
		return d.Description
	}
	return string(d.Type)
}
