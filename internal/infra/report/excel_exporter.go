// Package report renders venue reports as spreadsheets.
package report

import (
	"bytes"
	"fmt"

	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/service"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Donations"

//nolint:gochecknoglobals
var donationHeader = []string{"Date", "Donor ID", "Blood Type", "Venue"}

type excelExporter struct{}

// NewExcelExporter creates a DonationExporter producing XLSX files.
func NewExcelExporter() service.DonationExporter {
	return excelExporter{}
}

// ExportDonations writes one row per donation under a bold header.
func (excelExporter) ExportDonations(venueName string, donations []*entity.Donation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FDE2E2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", fmt.Sprintf("Donations at %s", venueName)); err != nil {
		return nil, fmt.Errorf("failed to write title: %w", err)
	}

	for col, title := range donationHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(donationHeader), 2)
	if err := f.SetCellStyle(sheetName, "A2", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, d := range donations {
		row := []any{d.Date, d.DonorID, string(d.BloodType), d.VenueName}
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
