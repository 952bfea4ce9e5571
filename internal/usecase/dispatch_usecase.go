package usecase

import (
	"bloodlink/internal/domain/service"

	"github.com/pkg/errors"
)

// ErrUnknownTaskKind is returned for tasks the dispatcher has no handler for.
var ErrUnknownTaskKind = errors.New("unknown task kind")

// DispatchUsecase performs email and push side effects of tasks
type DispatchUsecase interface {
	service.TaskHandler
}
