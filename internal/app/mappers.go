package app

import (
	"strconv"
	"strings"

	"roomcheck/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Frontends are inconsistent about key casing and naming; each logical field
// lists every spelling we have seen in submitted inspections.

var equipmentAliases = map[string][]string{
	"item":     {"item", "name", "label", "equipment"},
	"category": {"category", "group", "type"},
	"status":   {"status", "state", "condition"},
	"severity": {"severity", "issueSeverity", "issue_severity"},
	"cost":     {"estimatedCost", "estimated_cost", "cost", "repairCost", "repair_cost"},
}

var inventoryAliases = map[string][]string{
	"item_id":   {"itemId", "item_id", "id", "sku"},
	"name":      {"name", "item", "label"},
	"expected":  {"expectedQuantity", "expected_quantity", "expected"},
	"actual":    {"actualQuantity", "actual_quantity", "actual", "counted"},
	"condition": {"condition", "state"},
	"charge":    {"chargeGuest", "charge_guest", "billGuest", "bill_guest"},
	"amount":    {"chargeAmount", "charge_amount", "amount", "price"},
}

var damageAliases = map[string][]string{
	"type":        {"type", "damageType", "damage_type"},
	"description": {"description", "desc", "details", "note"},
	"severity":    {"severity"},
	"charge":      {"chargeGuest", "charge_guest", "billGuest", "bill_guest"},
	"amount":      {"chargeAmount", "charge_amount", "amount", "cost"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstStr: first non-empty string across an alias set.
func firstStr(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// firstFloat: number from alias paths (JSON float64/int/string like "8,0").
func firstFloat(m map[string]any, aliases map[string][]string, key string) float64 {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func firstInt(m map[string]any, aliases map[string][]string, key string) int {
	return int(firstFloat(m, aliases, key))
}

// firstBool: bool from alias paths, accepting true/"true"/1.
func firstBool(m map[string]any, aliases map[string][]string, key string) bool {
	for _, p := range aliases[key] {
		switch v := lookupAny(m, p).(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				return b
			}
		case float64:
			return v != 0
		}
	}
	return false
}

// normEnum lowercases and snake_cases a raw enum value. Unknown values pass
// through; the engine already scores them at the lowest tier.
func normEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

/********** record mappers **********/

func mapEquipment(in []map[string]any) []domain.EquipmentCheck {
	out := make([]domain.EquipmentCheck, 0, len(in))
	for _, m := range in {
		cost := firstFloat(m, equipmentAliases, "cost")
		if cost < 0 {
			cost = 0
		}
		out = append(out, domain.EquipmentCheck{
			Category:      domain.EquipmentCategory(normEnum(firstStr(m, equipmentAliases, "category"))),
			Item:          firstStr(m, equipmentAliases, "item"),
			Status:        domain.EquipmentStatus(normEnum(firstStr(m, equipmentAliases, "status"))),
			Severity:      domain.Severity(normEnum(firstStr(m, equipmentAliases, "severity"))),
			EstimatedCost: cost,
		})
	}
	return out
}

// mapInventory normalizes quantities and always recomputes the discrepancy;
// a stored discrepancy in the payload is ignored.
func mapInventory(in []map[string]any) []domain.InventoryCheck {
	out := make([]domain.InventoryCheck, 0, len(in))
	for _, m := range in {
		expected := firstInt(m, inventoryAliases, "expected")
		actual := firstInt(m, inventoryAliases, "actual")
		if expected < 0 {
			expected = 0
		}
		if actual < 0 {
			actual = 0
		}
		amount := firstFloat(m, inventoryAliases, "amount")
		if amount < 0 {
			amount = 0
		}
		cond := domain.ItemCondition(normEnum(firstStr(m, inventoryAliases, "condition")))
		out = append(out, domain.InventoryCheck{
			ItemID:       firstStr(m, inventoryAliases, "item_id"),
			Name:         firstStr(m, inventoryAliases, "name"),
			Expected:     expected,
			Actual:       actual,
			Condition:    cond,
			Discrepancy:  domain.DeriveDiscrepancy(expected, actual, cond),
			ChargeGuest:  firstBool(m, inventoryAliases, "charge"),
			ChargeAmount: amount,
		})
	}
	return out
}

func mapDamages(in []map[string]any) []domain.Damage {
	out := make([]domain.Damage, 0, len(in))
	for _, m := range in {
		amount := firstFloat(m, damageAliases, "amount")
		if amount < 0 {
			amount = 0
		}
		out = append(out, domain.Damage{
			Type:         domain.DamageType(normEnum(firstStr(m, damageAliases, "type"))),
			Description:  firstStr(m, damageAliases, "description"),
			Severity:     domain.Severity(normEnum(firstStr(m, damageAliases, "severity"))),
			ChargeGuest:  firstBool(m, damageAliases, "charge"),
			ChargeAmount: amount,
		})
	}
	return out
}

// refreshDiscrepancies re-derives every discrepancy in place on records that
// were loaded from storage rather than mapped from a payload.
func refreshDiscrepancies(inv []domain.InventoryCheck) {
	for i := range inv {
		inv[i].Discrepancy = domain.DeriveDiscrepancy(inv[i].Expected, inv[i].Actual, inv[i].Condition)
	}
}
