package service

import "bloodlink/internal/domain/entity"

// CertificateQRData is the payload encoded in a certificate QR code.
type CertificateQRData struct {
	CertificateID string `json:"certificate_id"`
	DonorName     string `json:"donor_name"`
	VenueName     string `json:"venue_name"`
	Date          string `json:"date"`
	Type          string `json:"type"`
}

// QRCodeService defines the interface for certificate QR code generation and parsing
type QRCodeService interface {
	// GenerateCertificateQR renders the certificate payload as a PNG QR code
	GenerateCertificateQR(cert *entity.Certificate) ([]byte, error)

	// ParseCertificateQR decodes a scanned certificate payload
	ParseCertificateQR(qrData string) (*CertificateQRData, error)
}

// DonationExporter renders the donations log of a venue as a spreadsheet.
type DonationExporter interface {
	ExportDonations(venueName string, donations []*entity.Donation) ([]byte, error)
}
