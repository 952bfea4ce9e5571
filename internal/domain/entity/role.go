// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of account a user registered as.
type Role string

const (
	// RoleSeeker looks for blood for a patient.
	RoleSeeker Role = "seeker"
	// RoleDonor donates blood.
	RoleDonor Role = "donor"
	// RoleHospital manages a blood inventory.
	RoleHospital Role = "hospital"
	// RoleOrganizer runs donation camps.
	RoleOrganizer Role = "organizer"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleSeeker, RoleDonor, RoleHospital, RoleOrganizer:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}
