package domain

import "time"

type EquipmentCategory string

const (
	CategoryElectronics EquipmentCategory = "electronics"
	CategoryPlumbing    EquipmentCategory = "plumbing"
	CategoryFurniture   EquipmentCategory = "furniture"
	CategoryAmenities   EquipmentCategory = "amenities"
	CategoryCleanliness EquipmentCategory = "cleanliness"
	CategorySafety      EquipmentCategory = "safety"
)

type EquipmentStatus string

const (
	StatusWorking      EquipmentStatus = "working"
	StatusNotWorking   EquipmentStatus = "not_working"
	StatusMissing      EquipmentStatus = "missing"
	StatusDamaged      EquipmentStatus = "damaged"
	StatusDirty        EquipmentStatus = "dirty"
	StatusSatisfactory EquipmentStatus = "satisfactory"
)

// OK reports whether the status carries no deduction.
func (s EquipmentStatus) OK() bool {
	return s == StatusWorking || s == StatusSatisfactory
}

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

type ItemCondition string

const (
	ConditionExcellent ItemCondition = "excellent"
	ConditionGood      ItemCondition = "good"
	ConditionFair      ItemCondition = "fair"
	ConditionWorn      ItemCondition = "worn"
	ConditionDamaged   ItemCondition = "damaged"
)

type Discrepancy string

const (
	DiscrepancyNone           Discrepancy = "none"
	DiscrepancyMissing        Discrepancy = "missing"
	DiscrepancyExtra          Discrepancy = "extra"
	DiscrepancyWrongCondition Discrepancy = "wrong_condition"
)

type DamageType string

const (
	DamageInventory   DamageType = "inventory_damage"
	DamageRoom        DamageType = "room_damage"
	DamageMissingItem DamageType = "missing_item"
	DamageExtraUsage  DamageType = "extra_usage"
)

// EquipmentCheck is one line of the room walkthrough. Severity is only
// meaningful when Status is not OK; an empty Severity on a faulty item
// scores as minor.
type EquipmentCheck struct {
	Category      EquipmentCategory `json:"category"`
	Item          string            `json:"item"`
	Status        EquipmentStatus   `json:"status"`
	Severity      Severity          `json:"severity,omitempty"`
	EstimatedCost float64           `json:"estimatedCost"`
}

type InventoryCheck struct {
	ItemID       string        `json:"itemId"`
	Name         string        `json:"name,omitempty"`
	Expected     int           `json:"expectedQuantity"`
	Actual       int           `json:"actualQuantity"`
	Condition    ItemCondition `json:"condition"`
	Discrepancy  Discrepancy   `json:"discrepancy"`
	ChargeGuest  bool          `json:"chargeGuest"`
	ChargeAmount float64       `json:"chargeAmount"`
}

type Damage struct {
	Type         DamageType `json:"type"`
	Description  string     `json:"description,omitempty"`
	Severity     Severity   `json:"severity"`
	ChargeGuest  bool       `json:"chargeGuest"`
	ChargeAmount float64    `json:"chargeAmount"`
}

// Inspection is a persisted checkout inspection: the raw record collections
// plus the result computed from them at submission (or last rescore) time.
type Inspection struct {
	ID          int64            `json:"id"`
	RoomID      int64            `json:"roomId"`
	Inspector   *string          `json:"inspector,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
	Equipment   []EquipmentCheck `json:"equipment"`
	Inventory   []InventoryCheck `json:"inventory"`
	Damages     []Damage         `json:"damages"`
	Result      ScoringResult    `json:"result"`
	CompletedAt time.Time        `json:"completedAt"`
}

type InspectionsPage struct {
	Items      []Inspection
	NextCursor *string
}

type PageQuery struct {
	Limit  int
	Cursor *string
	Sort   string
}
