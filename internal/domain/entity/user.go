package entity

import "time"

// User represents a registered account. Donor-specific data lives in DonorProfile.
type User struct {
	UID                  string        `json:"uid"`                              // External identity provider UID.
	Name                 string        `json:"name"`                             // Display name.
	Email                string        `json:"email"`                            // Contact email used for request notifications.
	Role                 Role          `json:"role"`                             // Account type.
	IsDonor              bool          `json:"is_donor"`                         // Set once the user registered as a donor.
	IsEligible           bool          `json:"is_eligible"`                      // Result of the latest eligibility check.
	EligibilityCheckedAt *time.Time    `json:"eligibility_checked_at,omitempty"` // When the eligibility flag was last updated.
	DonorProfile         *DonorProfile `json:"donor_profile,omitempty"`          // Present only for donors.
	CreatedAt            time.Time     `json:"created_at"`                       // Timestamp of profile creation.
}

// DonorProfile holds the donor-specific fields of a user.
type DonorProfile struct {
	BloodType       BloodType        `json:"blood_type"`
	City            string           `json:"city"`
	Phone           string           `json:"phone"`
	LastDonation    *time.Time       `json:"last_donation,omitempty"`
	TotalDonations  int              `json:"total_donations"`
	DonationHistory []DonationRecord `json:"donation_history"`
	RegisteredAt    time.Time        `json:"registered_at"`
}

// DisplayName returns the user's name or the given fallback when empty.
func (u *User) DisplayName(fallback string) string {
	if u == nil || u.Name == "" {
		return fallback
	}

	return u.Name
}

// RecordDonation applies a completed donation to the donor profile.
func (p *DonorProfile) RecordDonation(record DonationRecord, at time.Time) {
	p.LastDonation = &at
	p.TotalDonations++
	p.DonationHistory = append(p.DonationHistory, record)
}
