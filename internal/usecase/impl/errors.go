// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "bloodlink/internal/delivery/context"
	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"
	"bloodlink/internal/domain/repository"

	"github.com/pkg/errors"
)

// storeError maps a repository failure to the error returned to callers.
// repository.ErrNotFound becomes notFound, business errors pass through, anything else is a StoreError.
func storeError(err error, notFound *domainerrors.BaseError, details string) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, repository.ErrNotFound) {
		return notFound.WithDetails(details)
	}
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return domainerrors.NewStoreError(err, details)
}

// transitionError maps a rejected status change to ErrInvalidTransition.
func transitionError(err error) error {
	var te *entity.TransitionError
	if errors.As(err, &te) {
		return domainerrors.ErrInvalidTransition.WithDetails(te.Error())
	}

	return err
}

// parseBloodType validates a blood type supplied by a client.
func parseBloodType(s string) (entity.BloodType, error) {
	bt, ok := entity.ParseBloodType(s)
	if !ok {
		return "", domainerrors.ErrInvalidBloodType.WithDetails(s)
	}

	return bt, nil
}

// loggerFrom returns a request-scoped logger if available, otherwise the fallback.
func loggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, fallback)
}
