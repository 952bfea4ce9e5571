package firestore

import (
	"bloodlink/internal/domain/repository"

	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// translate maps Firestore status codes onto the repository sentinels.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}

	switch status.Code(err) {
	case codes.NotFound:
		return repository.ErrNotFound
	case codes.AlreadyExists:
		return repository.ErrAlreadyExists
	default:
		return errors.Wrap(err, msg)
	}
}
