package entity

// Certificate is a rendered, non-persisted donation certificate.
type Certificate struct {
	ID        string `json:"id"` // Pseudo-random, not guaranteed unique.
	DonorName string `json:"donor_name"`
	VenueName string `json:"venue_name"`
	Date      string `json:"date"`
	QRCode    []byte `json:"qr_code"` // PNG, base64 in JSON.
}
