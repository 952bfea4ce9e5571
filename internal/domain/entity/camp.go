package entity

import "time"

// CampStatus is the lifecycle status of a donation camp.
type CampStatus string

const (
	CampUpcoming CampStatus = "upcoming"
	CampArchived CampStatus = "archived"
)

// DateLayout is the calendar date format used for camps and appointments.
const DateLayout = "2006-01-02"

// DonationCamp is a donation event run by an organizer.
type DonationCamp struct {
	ID            string      `json:"id"`
	OrganizerID   string      `json:"organizer_id"`
	OrganizerName string      `json:"organizer_name"`
	CampName      string      `json:"camp_name"`
	Date          string      `json:"date"` // YYYY-MM-DD
	Time          string      `json:"time,omitempty"`
	Location      string      `json:"location"` // Address text.
	Coordinates   *Coordinate `json:"coordinates,omitempty"`
	Description   string      `json:"description,omitempty"`
	Status        CampStatus  `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}

// DisplayName falls back to the organizer's name when the camp has none.
func (c *DonationCamp) DisplayName() string {
	if c.CampName != "" {
		return c.CampName
	}

	return c.OrganizerName
}

// IsUpcoming reports whether the camp takes place today or later and is not archived.
func (c *DonationCamp) IsUpcoming(today string) bool {
	return c.Status != CampArchived && c.Date >= today
}
