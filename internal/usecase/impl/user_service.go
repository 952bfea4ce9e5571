package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/usecase"

	"github.com/pkg/errors"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewUserService is the constructor for userService.
func NewUserService(userRepo repository.UserRepository, logger *slog.Logger) usecase.UserUsecase {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// CreateProfile stores a new user profile
func (srv *userService) CreateProfile(ctx context.Context, input *usecase.CreateUserInput) (*entity.User, error) {
	if !input.Role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown role " + string(input.Role))
	}

	user := &entity.User{
		UID:       input.UID,
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: srv.now(),
	}
	if err := srv.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, domainerrors.ErrUserAlreadyExists.WithDetails(input.UID)
		}
		srv.log(ctx).Error("Failed to create profile", slog.String("uid", input.UID), slog.Any("error", err))

		return nil, storeError(err, nil, "create user")
	}

	srv.log(ctx).Info("Profile created", slog.String("uid", user.UID), slog.String("role", user.Role.String()))

	return user, nil
}

// GetProfile retrieves a user profile
func (srv *userService) GetProfile(ctx context.Context, uid string) (*entity.User, error) {
	user, err := srv.userRepo.FindUserByID(ctx, uid)
	if err != nil {
		return nil, storeError(err, domainerrors.ErrUserNotFound, uid)
	}

	return user, nil
}

// RegisterDonor attaches a donor profile, keeping the donation history of a returning donor.
func (srv *userService) RegisterDonor(ctx context.Context, uid string, input *usecase.DonorRegistration) (*entity.User, error) {
	bloodType, err := parseBloodType(input.BloodType)
	if err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindUserByID(ctx, uid)
	if err != nil {
		return nil, storeError(err, domainerrors.ErrUserNotFound, uid)
	}

	profile := &entity.DonorProfile{
		BloodType:       bloodType,
		City:            entity.NormalizeCity(input.City),
		Phone:           strings.TrimSpace(input.Phone),
		DonationHistory: []entity.DonationRecord{},
		RegisteredAt:    srv.now(),
	}
	if prev := user.DonorProfile; prev != nil {
		profile.LastDonation = prev.LastDonation
		profile.TotalDonations = prev.TotalDonations
		profile.DonationHistory = prev.DonationHistory
		profile.RegisteredAt = prev.RegisteredAt
	}

	if err := srv.userRepo.SaveDonorProfile(ctx, uid, profile); err != nil {
		srv.log(ctx).Error("Failed to save donor profile", slog.String("uid", uid), slog.Any("error", err))

		return nil, storeError(err, domainerrors.ErrUserNotFound, uid)
	}

	user.IsDonor = true
	user.DonorProfile = profile
	srv.log(ctx).Info("Donor registered", slog.String("uid", uid), slog.String("bloodType", bloodType.String()))

	return user, nil
}

// UpdateEligibility records the outcome of the eligibility quiz
func (srv *userService) UpdateEligibility(ctx context.Context, uid string, eligible bool) error {
	if err := srv.userRepo.UpdateEligibility(ctx, uid, eligible, srv.now()); err != nil {
		return storeError(err, domainerrors.ErrUserNotFound, uid)
	}

	return nil
}

// SearchDonors lists donors by optional blood type and case-insensitive city substring
func (srv *userService) SearchDonors(ctx context.Context, bloodType, location string) ([]*entity.User, error) {
	var bt entity.BloodType
	if bloodType != "" {
		parsed, err := parseBloodType(bloodType)
		if err != nil {
			return nil, err
		}
		bt = parsed
	}

	donors, err := srv.userRepo.FindDonors(ctx, bt)
	if err != nil {
		return nil, storeError(err, nil, "find donors")
	}

	location = strings.ToLower(strings.TrimSpace(location))
	if location == "" {
		return donors, nil
	}

	matched := make([]*entity.User, 0, len(donors))
	for _, d := range donors {
		if d.DonorProfile != nil && strings.Contains(strings.ToLower(d.DonorProfile.City), location) {
			matched = append(matched, d)
		}
	}

	return matched, nil
}
