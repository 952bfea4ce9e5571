package impl

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/usecase"

	"go.uber.org/fx"
)

const (
	certificatePrefix = "BL-"
	certificateIDLen  = 8
	base36Alphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// donationService implements the DonationUsecase interface.
type donationService struct {
	appointmentRepo repository.AppointmentRepository
	inventoryRepo   repository.InventoryRepository
	userRepo        repository.UserRepository
	donationRepo    repository.DonationRepository
	qrCodeService   service.QRCodeService
	exporter        service.DonationExporter
	logger          *slog.Logger
	now             func() time.Time
}

// DonationServiceParams holds dependencies for DonationService, injected by Fx.
type DonationServiceParams struct {
	fx.In

	AppointmentRepo repository.AppointmentRepository
	InventoryRepo   repository.InventoryRepository
	UserRepo        repository.UserRepository
	DonationRepo    repository.DonationRepository
	QRCodeService   service.QRCodeService
	Exporter        service.DonationExporter
	Logger          *slog.Logger
}

// NewDonationService is the constructor for donationService.
func NewDonationService(params DonationServiceParams) usecase.DonationUsecase {
	return &donationService{
		appointmentRepo: params.AppointmentRepo,
		inventoryRepo:   params.InventoryRepo,
		userRepo:        params.UserRepo,
		donationRepo:    params.DonationRepo,
		qrCodeService:   params.QRCodeService,
		exporter:        params.Exporter,
		logger:          params.Logger,
		now:             time.Now,
	}
}

func (srv *donationService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// CompleteAppointment applies, in order: the appointment status, the hospital stock, the donor
// profile and the donations log. A failure stops the sequence and leaves earlier effects in place.
func (srv *donationService) CompleteAppointment(ctx context.Context, input *usecase.CompleteAppointmentInput) (*entity.Appointment, error) {
	bloodType, err := parseBloodType(input.BloodType)
	if err != nil {
		return nil, err
	}
	if !input.VenueType.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown venue type " + string(input.VenueType))
	}

	appointment, err := srv.appointmentRepo.FindAppointmentByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, storeError(err, domainerrors.ErrAppointmentNotFound, input.AppointmentID)
	}

	now := srv.now()
	if err := appointment.Transition(entity.AppointmentCompleted, now); err != nil {
		srv.log(ctx).Warn("Rejected appointment completion",
			slog.String("appointmentID", appointment.ID),
			slog.Any("error", err))

		return nil, transitionError(err)
	}
	appointment.CollectedBloodType = bloodType

	logger := srv.log(ctx).With(
		slog.String("appointmentID", appointment.ID),
		slog.String("donorID", input.DonorID),
		slog.String("venueID", input.VenueID))

	if err := srv.appointmentRepo.UpdateAppointment(ctx, appointment); err != nil {
		logger.Error("Completion failed at appointment update", slog.Any("error", err))

		return nil, storeError(err, domainerrors.ErrAppointmentNotFound, appointment.ID)
	}

	if input.VenueType == entity.VenueHospital {
		if _, err := srv.inventoryRepo.AdjustStock(ctx, input.VenueID, bloodType, 1); err != nil {
			logger.Error("Completion failed at stock increment, appointment already completed", slog.Any("error", err))

			return nil, storeError(err, domainerrors.ErrInventoryNotFound, input.VenueID)
		}
	}

	record := entity.DonationRecord{
		VenueID:   input.VenueID,
		VenueName: input.VenueName,
		BloodType: bloodType,
		Date:      now.UTC().Format(time.RFC3339),
	}
	if err := srv.userRepo.RecordDonation(ctx, input.DonorID, record, now); err != nil {
		logger.Error("Completion failed at donor profile update, stock already counted", slog.Any("error", err))

		return nil, storeError(err, domainerrors.ErrUserNotFound, input.DonorID)
	}

	if err := srv.donationRepo.AppendDonation(ctx, &entity.Donation{DonorID: input.DonorID, DonationRecord: record}); err != nil {
		logger.Error("Completion failed at donations log append, donor profile already updated", slog.Any("error", err))

		return nil, storeError(err, nil, "append donation")
	}

	logger.Info("Donation completed", slog.String("bloodType", bloodType.String()))

	return appointment, nil
}

// GenerateCertificate renders a certificate. The ID is random and may repeat across calls.
func (srv *donationService) GenerateCertificate(_ context.Context, input *usecase.CertificateInput) (*entity.Certificate, error) {
	cert := &entity.Certificate{
		ID:        newCertificateID(),
		DonorName: input.DonorName,
		VenueName: input.VenueName,
		Date:      input.Date,
	}

	png, err := srv.qrCodeService.GenerateCertificateQR(cert)
	if err != nil {
		return nil, domainerrors.ErrInternalError.WithDetails(err.Error())
	}
	cert.QRCode = png

	return cert, nil
}

func newCertificateID() string {
	b := make([]byte, certificateIDLen)
	for i := range b {
		b[i] = base36Alphabet[rand.IntN(len(base36Alphabet))] //nolint:gosec
	}

	return certificatePrefix + string(b)
}

// ListDonationHistory returns a donor's donations, latest first
func (srv *donationService) ListDonationHistory(ctx context.Context, donorID string) ([]entity.DonationRecord, error) {
	user, err := srv.userRepo.FindUserByID(ctx, donorID)
	if err != nil {
		return nil, storeError(err, domainerrors.ErrUserNotFound, donorID)
	}
	if user.DonorProfile == nil {
		return nil, domainerrors.ErrNotADonor
	}

	history := slices.Clone(user.DonorProfile.DonationHistory)
	slices.SortStableFunc(history, func(a, b entity.DonationRecord) int {
		return cmp.Compare(b.Date, a.Date)
	})

	return history, nil
}

// ExportVenueDonations renders the donations collected at a venue as XLSX
func (srv *donationService) ExportVenueDonations(ctx context.Context, venueID string) (*usecase.DonationExport, error) {
	donations, err := srv.donationRepo.FindDonationsByVenue(ctx, venueID)
	if err != nil {
		return nil, storeError(err, nil, "find venue donations")
	}

	slices.SortStableFunc(donations, func(a, b *entity.Donation) int {
		return cmp.Compare(a.Date, b.Date)
	})

	venueName := venueID
	if len(donations) > 0 && donations[0].VenueName != "" {
		venueName = donations[0].VenueName
	}

	content, err := srv.exporter.ExportDonations(venueName, donations)
	if err != nil {
		srv.log(ctx).Error("Failed to render donations export", slog.String("venueID", venueID), slog.Any("error", err))

		return nil, domainerrors.ErrInternalError.WithDetails(err.Error())
	}

	return &usecase.DonationExport{
		FileName: fmt.Sprintf("donations-%s-%s.xlsx", venueID, srv.now().Format(entity.DateLayout)),
		Content:  content,
	}, nil
}
