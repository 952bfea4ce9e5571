package notification

import (
	"context"
	"log/slog"

	"bloodlink/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const webpushIcon = "/logo192.png"

type firebaseService struct {
	client *messaging.Client
	logger *slog.Logger
}

// Params defines the required parameters
type Params struct {
	fx.In

	Ctx    context.Context
	App    *firebase.App `optional:"true"`
	Logger *slog.Logger
}

// New returns the FCM service, or a disabled one when the Firebase app is absent.
func New(params Params) (service.NotificationService, error) {
	if params.App == nil {
		params.Logger.Warn("Push notifications disabled, Firebase app is not configured")

		return disabledService{}, nil
	}

	return NewFirebaseService(params.Ctx, params.App, params.Logger)
}

// NewFirebaseService creates the FCM-backed notification service.
func NewFirebaseService(ctx context.Context, app *firebase.App, logger *slog.Logger) (service.NotificationService, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	return &firebaseService{
		client: client,
		logger: logger,
	}, nil
}

func (s *firebaseService) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (successCount, failureCount int, invalidTokens []string, err error) {
	if len(tokens) == 0 {
		return 0, 0, nil, nil
	}
	if len(tokens) > service.MaxPushBatch {
		return 0, 0, nil, errors.Errorf("token count exceeds limit: %d (max %d)", len(tokens), service.MaxPushBatch)
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		// Browsers render the web client's icon; the service worker reads data["type"].
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{Icon: webpushIcon},
		},
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return 0, 0, nil, errors.Wrap(err, "failed to send multicast notification")
	}

	invalidTokens = make([]string, 0)
	for idx, sendResponse := range response.Responses {
		if sendResponse.Error == nil {
			continue
		}
		if messaging.IsInvalidArgument(sendResponse.Error) || messaging.IsUnregistered(sendResponse.Error) {
			invalidTokens = append(invalidTokens, tokens[idx])

			continue
		}
		s.logger.Debug("Push delivery failed for one device",
			slog.String("type", data["type"]),
			slog.Any("error", sendResponse.Error))
	}

	return response.SuccessCount, response.FailureCount, invalidTokens, nil
}
