package entity

// Venue unifies hospitals and donation camps for appointment booking.
type Venue struct {
	ID         string      `json:"id"`
	Type       VenueType   `json:"type"`
	Name       string      `json:"name"`
	Address    string      `json:"address"`
	Location   *Coordinate `json:"location,omitempty"`
	DistanceKm *float64    `json:"distance_km,omitempty"`
}
