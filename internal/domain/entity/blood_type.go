package entity

import "strings"

// BloodType is one of the eight ABO/Rh blood groups.
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// AllBloodTypes lists every valid blood type in display order.
func AllBloodTypes() []BloodType {
	return []BloodType{
		BloodTypeAPos, BloodTypeANeg,
		BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg,
		BloodTypeOPos, BloodTypeONeg,
	}
}

// String returns the string representation of the BloodType.
func (b BloodType) String() string {
	return string(b)
}

// IsValid reports whether b is one of the eight known blood types.
func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg:
		return true
	default:
		return false
	}
}

// ParseBloodType normalizes s (trim, upper case) and validates it.
func ParseBloodType(s string) (BloodType, bool) {
	bt := BloodType(strings.ToUpper(strings.TrimSpace(s)))

	return bt, bt.IsValid()
}
