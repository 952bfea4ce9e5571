package report

import (
	"bytes"
	"testing"

	"bloodlink/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelExporter_ExportDonations(t *testing.T) {
	donations := []*entity.Donation{
		{ID: "1", DonorID: "d1", DonationRecord: entity.DonationRecord{VenueID: "h1", VenueName: "City", BloodType: entity.BloodTypeAPos, Date: "2026-03-01T10:00:00Z"}},
		{ID: "2", DonorID: "d2", DonationRecord: entity.DonationRecord{VenueID: "h1", VenueName: "City", BloodType: entity.BloodTypeONeg, Date: "2026-03-02T11:00:00Z"}},
	}

	data, err := NewExcelExporter().ExportDonations("City", donations)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Donations at City", rows[0][0])
	assert.Equal(t, donationHeader, rows[1])
	assert.Equal(t, []string{"2026-03-01T10:00:00Z", "d1", "A+", "City"}, rows[2])
	assert.Equal(t, "O-", rows[3][2])
}

func TestExcelExporter_EmptyLogStillHasHeader(t *testing.T) {
	data, err := NewExcelExporter().ExportDonations("Camp", nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
