package impl

import (
	"bytes"
	"context"
	"testing"
	"time"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/infra/persistence/memory"
	"bloodlink/internal/infra/qrcode"
	"bloodlink/internal/infra/report"
	"bloodlink/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type donationServiceFixtures struct {
	service usecase.DonationUsecase
	repos   *testRepos
}

func createTestDonationService(t *testing.T) donationServiceFixtures {
	t.Helper()

	repos := newTestRepos()
	srv := NewDonationService(DonationServiceParams{
		AppointmentRepo: repos.appointments,
		InventoryRepo:   repos.inventories,
		UserRepo:        repos.users,
		DonationRepo:    repos.donations,
		QRCodeService:   qrcode.NewQRCodeService(256, "M"),
		Exporter:        report.NewExcelExporter(),
		Logger:          newDiscardLogger(),
	})
	srv.(*donationService).now = fixedClock

	return donationServiceFixtures{service: srv, repos: repos}
}

// seedAppointment stores a scheduled appointment of donor d1 at the venue.
func (fx donationServiceFixtures) seedAppointment(t *testing.T, venueID string, venueType entity.VenueType) *entity.Appointment {
	t.Helper()

	appointment := &entity.Appointment{
		VenueID:   venueID,
		VenueName: "Venue " + venueID,
		VenueType: venueType,
		DonorID:   "d1",
		DonorName: "Ravi",
		Date:      "2026-03-10",
		TimeSlot:  "Morning",
		Status:    entity.AppointmentScheduled,
		CreatedAt: testNow,
	}
	require.NoError(t, fx.repos.appointments.CreateAppointment(context.Background(), appointment))

	return appointment
}

func completionInput(appointment *entity.Appointment) *usecase.CompleteAppointmentInput {
	return &usecase.CompleteAppointmentInput{
		AppointmentID: appointment.ID,
		VenueID:       appointment.VenueID,
		VenueName:     appointment.VenueName,
		VenueType:     appointment.VenueType,
		DonorID:       appointment.DonorID,
		BloodType:     "b-",
	}
}

func TestDonationService_CompleteAppointment_Hospital(t *testing.T) {
	fx := createTestDonationService(t)
	ctx := context.Background()
	fx.repos.seedDonor(t, "d1", "Ravi", entity.BloodTypeBNeg, "Pune")
	fx.repos.seedInventory(t, "h1", "12 Main St, Pune", nil, map[entity.BloodType]int{entity.BloodTypeBNeg: 4})
	appointment := fx.seedAppointment(t, "h1", entity.VenueHospital)

	completed, err := fx.service.CompleteAppointment(ctx, completionInput(appointment))
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentCompleted, completed.Status)
	assert.Equal(t, entity.BloodTypeBNeg, completed.CollectedBloodType)
	require.NotNil(t, completed.CompletedAt)

	stored, err := fx.repos.appointments.FindAppointmentByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentCompleted, stored.Status)

	inv, err := fx.repos.inventories.FindInventory(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 5, inv.Stock(entity.BloodTypeBNeg))

	donor, err := fx.repos.users.FindUserByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, donor.DonorProfile.TotalDonations)
	require.NotNil(t, donor.DonorProfile.LastDonation)
	assert.True(t, donor.DonorProfile.LastDonation.Equal(testNow))
	require.Len(t, donor.DonorProfile.DonationHistory, 1)
	assert.Equal(t, entity.DonationRecord{
		VenueID:   "h1",
		VenueName: "Venue h1",
		BloodType: entity.BloodTypeBNeg,
		Date:      testNow.Format(time.RFC3339),
	}, donor.DonorProfile.DonationHistory[0])

	donations, err := fx.repos.donations.FindDonationsByVenue(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, "d1", donations[0].DonorID)
}

func TestDonationService_CompleteAppointment_CampLeavesStockAlone(t *testing.T) {
	fx := createTestDonationService(t)
	ctx := context.Background()
	fx.repos.seedDonor(t, "d1", "Ravi", entity.BloodTypeBNeg, "Pune")
	appointment := fx.seedAppointment(t, "camp-1", entity.VenueCamp)

	_, err := fx.service.CompleteAppointment(ctx, completionInput(appointment))
	require.NoError(t, err)

	_, err = fx.repos.inventories.FindInventory(ctx, "camp-1")
	assert.Error(t, err)

	donor, err := fx.repos.users.FindUserByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, donor.DonorProfile.TotalDonations)
}

func TestDonationService_CompleteAppointment_SecondCompletionRejected(t *testing.T) {
	fx := createTestDonationService(t)
	ctx := context.Background()
	fx.repos.seedDonor(t, "d1", "Ravi", entity.BloodTypeBNeg, "Pune")
	fx.repos.seedInventory(t, "h1", "12 Main St, Pune", nil, nil)
	appointment := fx.seedAppointment(t, "h1", entity.VenueHospital)

	_, err := fx.service.CompleteAppointment(ctx, completionInput(appointment))
	require.NoError(t, err)

	_, err = fx.service.CompleteAppointment(ctx, completionInput(appointment))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)

	donor, err := fx.repos.users.FindUserByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, donor.DonorProfile.TotalDonations)
	assert.Len(t, donor.DonorProfile.DonationHistory, 1)

	inv, err := fx.repos.inventories.FindInventory(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Stock(entity.BloodTypeBNeg))

	donations, err := fx.repos.donations.FindDonationsByVenue(ctx, "h1")
	require.NoError(t, err)
	assert.Len(t, donations, 1)
}

func TestDonationService_CompleteAppointment_CancelledCannotComplete(t *testing.T) {
	fx := createTestDonationService(t)
	ctx := context.Background()
	appointment := fx.seedAppointment(t, "h1", entity.VenueHospital)
	require.NoError(t, appointment.Transition(entity.AppointmentCancelled, testNow))
	require.NoError(t, fx.repos.appointments.UpdateAppointment(ctx, appointment))

	_, err := fx.service.CompleteAppointment(ctx, completionInput(appointment))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidTransition)
}

func TestDonationService_CompleteAppointment_StopsAtStockFailure(t *testing.T) {
	fx := createTestDonationService(t)
	ctx := context.Background()
	fx.repos.seedDonor(t, "d1", "Ravi", entity.BloodTypeBNeg, "Pune")
	fx.repos.seedInventory(t, "h1", "12 Main St, Pune", nil, nil)
	appointment := fx.seedAppointment(t, "h1", entity.VenueHospital)
	fx.repos.store.SetFault(memory.CollectionInventory, errors.New("deadline exceeded"))

	_, err := fx.service.CompleteAppointment(ctx, completionInput(appointment))
	require.Error(t, err)
	assertStoreError(t, err)

	stored, err := fx.repos.appointments.FindAppointmentByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentCompleted, stored.Status)

	donor, err := fx.repos.users.FindUserByID(ctx, "d1")
	require.NoError(t, err)
	assert.Zero(t, donor.DonorProfile.TotalDonations)

	donations, err := fx.repos.donations.FindDonationsByVenue(ctx, "h1")
	require.NoError(t, err)
	assert.Empty(t, donations)
}

func TestDonationService_CompleteAppointment_StopsAtMissingDonor(t *testing.T) {
	fx := createTestDonationService(t)
	ctx := context.Background()
	fx.repos.seedInventory(t, "h1", "12 Main St, Pune", nil, nil)
	appointment := fx.seedAppointment(t, "h1", entity.VenueHospital)

	_, err := fx.service.CompleteAppointment(ctx, completionInput(appointment))
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	inv, err := fx.repos.inventories.FindInventory(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Stock(entity.BloodTypeBNeg))

	donations, err := fx.repos.donations.FindDonationsByVenue(ctx, "h1")
	require.NoError(t, err)
	assert.Empty(t, donations)
}

func TestDonationService_CompleteAppointment_InvalidInput(t *testing.T) {
	fx := createTestDonationService(t)
	ctx := context.Background()
	appointment := fx.seedAppointment(t, "h1", entity.VenueHospital)

	input := completionInput(appointment)
	input.BloodType = "Z"
	_, err := fx.service.CompleteAppointment(ctx, input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidBloodType)

	input = completionInput(appointment)
	input.AppointmentID = "missing"
	_, err = fx.service.CompleteAppointment(ctx, input)
	assert.ErrorIs(t, err, domainerrors.ErrAppointmentNotFound)

	stored, err := fx.repos.appointments.FindAppointmentByID(ctx, appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentScheduled, stored.Status)
}

func TestDonationService_GenerateCertificate(t *testing.T) {
	fx := createTestDonationService(t)

	cert, err := fx.service.GenerateCertificate(context.Background(), &usecase.CertificateInput{
		DonorName: "Ravi",
		VenueName: "City Hospital",
		Date:      "2026-03-10",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^BL-[0-9A-Z]{8}$`, cert.ID)
	assert.Equal(t, "Ravi", cert.DonorName)
	assert.True(t, bytes.HasPrefix(cert.QRCode, []byte("\x89PNG")))
}

func TestDonationService_ListDonationHistory(t *testing.T) {
	fx := createTestDonationService(t)
	ctx := context.Background()
	fx.repos.seedUser(t, "s1", "Asha", "", entity.RoleSeeker)
	fx.repos.seedDonor(t, "d1", "Ravi", entity.BloodTypeAPos, "Pune")

	for _, date := range []string{"2025-11-01T10:00:00Z", "2026-02-01T10:00:00Z", "2025-12-01T10:00:00Z"} {
		at, err := time.Parse(time.RFC3339, date)
		require.NoError(t, err)
		require.NoError(t, fx.repos.users.RecordDonation(ctx, "d1", entity.DonationRecord{VenueID: "h1", Date: date}, at))
	}

	history, err := fx.service.ListDonationHistory(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2026-02-01T10:00:00Z", history[0].Date)
	assert.Equal(t, "2025-11-01T10:00:00Z", history[2].Date)

	_, err = fx.service.ListDonationHistory(ctx, "s1")
	assert.ErrorIs(t, err, domainerrors.ErrNotADonor)

	_, err = fx.service.ListDonationHistory(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestDonationService_ExportVenueDonations(t *testing.T) {
	fx := createTestDonationService(t)
	ctx := context.Background()
	require.NoError(t, fx.repos.donations.AppendDonation(ctx, &entity.Donation{
		DonorID: "d1",
		DonationRecord: entity.DonationRecord{
			VenueID: "h1", VenueName: "City Hospital", BloodType: entity.BloodTypeOPos, Date: "2026-03-01T10:00:00Z",
		},
	}))

	export, err := fx.service.ExportVenueDonations(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "donations-h1-2026-03-10.xlsx", export.FileName)
	assert.True(t, bytes.HasPrefix(export.Content, []byte("PK")))
}
