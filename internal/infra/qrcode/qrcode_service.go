package qrcode

import (
	"encoding/json"
	"fmt"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

// certificateQRType marks payloads produced for donation certificates.
const certificateQRType = "donation_certificate"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateCertificateQR renders the verification payload of a certificate as a PNG
func (s *qrcodeService) GenerateCertificateQR(cert *entity.Certificate) ([]byte, error) {
	data := service.CertificateQRData{
		CertificateID: cert.ID,
		DonorName:     cert.DonorName,
		VenueName:     cert.VenueName,
		Date:          cert.Date,
		Type:          certificateQRType,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseCertificateQR decodes a scanned certificate payload
func (s *qrcodeService) ParseCertificateQR(qrData string) (*service.CertificateQRData, error) {
	var data service.CertificateQRData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != certificateQRType {
		return nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}
	if data.CertificateID == "" {
		return nil, fmt.Errorf("missing certificate ID")
	}

	return &data, nil
}
