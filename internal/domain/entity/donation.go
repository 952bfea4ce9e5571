package entity

// DonationRecord is one completed donation. Records are append-only.
type DonationRecord struct {
	VenueID   string    `json:"venue_id"`
	VenueName string    `json:"venue_name"`
	BloodType BloodType `json:"blood_type"`
	Date      string    `json:"date"` // RFC3339 timestamp of completion.
}

// Donation is an entry of the global donations log.
type Donation struct {
	ID      string `json:"id"`
	DonorID string `json:"donor_id"`
	DonationRecord
}
