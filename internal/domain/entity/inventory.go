package entity

import (
	"math"
	"strings"
	"time"
)

// InventoryStatus is the lifecycle status of a hospital inventory.
type InventoryStatus string

const (
	InventoryActive   InventoryStatus = "active"
	InventoryArchived InventoryStatus = "archived"
)

// Inventory is the blood stock of a single hospital.
type Inventory struct {
	HospitalID   string            `json:"hospital_id"`
	HospitalName string            `json:"hospital_name"`
	Address      string            `json:"address"`
	Location     *Coordinate       `json:"location,omitempty"`
	BloodStock   map[BloodType]int `json:"blood_stock"`
	Status       InventoryStatus   `json:"status"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewInventory creates an active inventory with every blood type at zero units.
func NewInventory(hospitalID, hospitalName, address string, location *Coordinate, now time.Time) *Inventory {
	stock := make(map[BloodType]int, len(AllBloodTypes()))
	for _, bt := range AllBloodTypes() {
		stock[bt] = 0
	}

	return &Inventory{
		HospitalID:   hospitalID,
		HospitalName: hospitalName,
		Address:      address,
		Location:     location,
		BloodStock:   stock,
		Status:       InventoryActive,
		UpdatedAt:    now,
	}
}

// ClampStock applies delta to current and never returns a negative count.
// Additions past math.MaxInt saturate instead of wrapping around.
func ClampStock(current, delta int) int {
	current = max(0, current)
	if delta > math.MaxInt-current {
		return math.MaxInt
	}

	return max(0, current+delta)
}

// Stock returns the unit count for a blood type.
func (i *Inventory) Stock(bt BloodType) int {
	return i.BloodStock[bt]
}

// AdjustStock applies delta to the stock of bt, clamped at zero, and returns the new count.
func (i *Inventory) AdjustStock(bt BloodType, delta int) int {
	if i.BloodStock == nil {
		i.BloodStock = make(map[BloodType]int)
	}
	i.BloodStock[bt] = ClampStock(i.BloodStock[bt], delta)

	return i.BloodStock[bt]
}

// AvailableTypes returns the blood types with at least one unit, in display order.
func (i *Inventory) AvailableTypes() []BloodType {
	available := make([]BloodType, 0, len(i.BloodStock))
	for _, bt := range AllBloodTypes() {
		if i.BloodStock[bt] > 0 {
			available = append(available, bt)
		}
	}

	return available
}

// MatchesText reports whether query is a case-insensitive substring of the address or hospital name.
func (i *Inventory) MatchesText(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)

	return strings.Contains(strings.ToLower(i.Address), q) ||
		strings.Contains(strings.ToLower(i.HospitalName), q)
}
