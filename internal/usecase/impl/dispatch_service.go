package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bloodlink/config"
	"bloodlink/internal/domain/constants"
	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/domain/service"
	"bloodlink/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultDonorName   = "Hero"
	defaultSeekerName  = "Seeker"
	defaultUrgency     = "High"
	phoneNotShared     = "Not shared"
	acceptedNextSteps  = "Please contact the donor immediately to coordinate the donation. Time is of the essence!"
	acceptedPushTitle  = "Request Accepted"
	deliveryErrorLimit = 500
)

// dispatchService implements the DispatchUsecase interface.
type dispatchService struct {
	userRepo        repository.UserRepository
	requestRepo     repository.BloodRequestRepository
	deviceRepo      repository.DeviceRepository
	deliveryLogRepo repository.DeliveryLogRepository
	emailSender     service.EmailSender
	notifier        service.NotificationService
	appURL          string
	logger          *slog.Logger
	now             func() time.Time
}

// DispatchServiceParams holds dependencies for DispatchService, injected by Fx.
type DispatchServiceParams struct {
	fx.In

	UserRepo        repository.UserRepository
	RequestRepo     repository.BloodRequestRepository
	DeviceRepo      repository.DeviceRepository
	DeliveryLogRepo repository.DeliveryLogRepository
	EmailSender     service.EmailSender
	Notifier        service.NotificationService
	Config          *config.Config
	Logger          *slog.Logger
}

// NewDispatchService is the constructor for dispatchService.
func NewDispatchService(params DispatchServiceParams) usecase.DispatchUsecase {
	appURL := ""
	if params.Config != nil && params.Config.Email != nil {
		appURL = strings.TrimRight(params.Config.Email.AppURL, "/")
	}

	return &dispatchService{
		userRepo:        params.UserRepo,
		requestRepo:     params.RequestRepo,
		deviceRepo:      params.DeviceRepo,
		deliveryLogRepo: params.DeliveryLogRepo,
		emailSender:     params.EmailSender,
		notifier:        params.Notifier,
		appURL:          appURL,
		logger:          params.Logger,
		now:             time.Now,
	}
}

// NewTaskHandler exposes the dispatcher as the handler of the inline task queue.
func NewTaskHandler(dispatch usecase.DispatchUsecase) service.TaskHandler {
	return dispatch
}

func (srv *dispatchService) log(ctx context.Context) *slog.Logger {
	return loggerFrom(ctx, srv.logger)
}

// HandleTask performs the side effects of one task. Send failures are recorded in the delivery log
// and never returned, so the queue does not redeliver.
func (srv *dispatchService) HandleTask(ctx context.Context, event *service.TaskEvent) error {
	var attempts []*entity.DeliveryLog
	switch event.Kind {
	case service.TaskRequestCreated, service.TaskBroadcast:
		attempts = srv.emailDonors(ctx, event)
	case service.TaskRequestAccepted:
		attempts = srv.notifyAccepted(ctx, event)
	default:
		return errors.Wrapf(usecase.ErrUnknownTaskKind, "kind %q", event.Kind)
	}

	srv.record(ctx, event, attempts)

	return nil
}

func (srv *dispatchService) link(path string) string {
	return srv.appURL + path
}

// emailDonors sends the blood request template to every donor of the task. Donors without email are skipped.
func (srv *dispatchService) emailDonors(ctx context.Context, event *service.TaskEvent) []*entity.DeliveryLog {
	donors, err := srv.userRepo.FindUsersByIDs(ctx, event.DonorIDs)
	if err != nil {
		srv.log(ctx).Error("Failed to load donors for email", slog.String("taskID", event.TaskID), slog.Any("error", err))

		return nil
	}

	attempts := make([]*entity.DeliveryLog, 0, len(donors))
	for _, donor := range donors {
		if donor.Email == "" {
			attempts = append(attempts, srv.attempt(event, entity.ChannelEmail, donor.UID, service.ErrDeliveryDisabled, true))

			continue
		}

		params := map[string]string{
			"to_email":    donor.Email,
			"to_name":     donor.DisplayName(defaultDonorName),
			"blood_type":  event.BloodType,
			"urgency":     defaultUrgency,
			"seeker_name": event.SeekerName,
			"action_link": srv.link(constants.PathDashboard),
			"message":     fmt.Sprintf("A seeker needs %s blood immediately.", event.BloodType),
		}
		result := service.DeliveryResult{Recipient: donor.UID, Err: srv.emailSender.Send(ctx, service.TemplateBloodRequest, params)}
		attempts = append(attempts, srv.attempt(event, entity.ChannelEmail, result.Recipient, result.Err, false))
	}

	return attempts
}

// notifyAccepted emails the seeker and pushes to their granted devices.
func (srv *dispatchService) notifyAccepted(ctx context.Context, event *service.TaskEvent) []*entity.DeliveryLog {
	request, err := srv.requestRepo.FindRequestByID(ctx, event.BloodReqID)
	if err != nil {
		srv.log(ctx).Error("Failed to load accepted request", slog.String("bloodRequestID", event.BloodReqID), slog.Any("error", err))

		return nil
	}
	seeker, err := srv.userRepo.FindUserByID(ctx, request.SeekerID)
	if err != nil {
		srv.log(ctx).Error("Seeker profile not found", slog.String("seekerID", request.SeekerID), slog.Any("error", err))

		return nil
	}

	attempts := make([]*entity.DeliveryLog, 0, 2)
	if seeker.Email == "" {
		attempts = append(attempts, srv.attempt(event, entity.ChannelEmail, seeker.UID, service.ErrDeliveryDisabled, true))
	} else {
		donorPhone := request.DonorPhone
		if donorPhone == "" {
			donorPhone = phoneNotShared
		}
		params := map[string]string{
			"to_email":    seeker.Email,
			"to_name":     seeker.DisplayName(defaultSeekerName),
			"donor_name":  request.DonorName,
			"donor_phone": donorPhone,
			"blood_type":  request.BloodType.String(),
			"next_steps":  acceptedNextSteps,
			"action_link": srv.link(constants.PathSearch),
		}
		err := srv.emailSender.Send(ctx, service.TemplateRequestAccepted, params)
		attempts = append(attempts, srv.attempt(event, entity.ChannelEmail, seeker.UID, err, false))
	}

	body := fmt.Sprintf("%s accepted your request for %s blood.", request.DonorName, request.BloodType)
	attempts = append(attempts, srv.push(ctx, event, seeker.UID, acceptedPushTitle, body))

	return attempts
}

// push sends to every granted device of the user and deactivates devices whose token FCM rejected.
func (srv *dispatchService) push(ctx context.Context, event *service.TaskEvent, userID, title, body string) *entity.DeliveryLog {
	devices, err := srv.deviceRepo.FindActiveDevicesByUser(ctx, userID)
	if err != nil {
		return srv.attempt(event, entity.ChannelPush, userID, err, false)
	}

	tokenToDevice := make(map[string]*entity.UserDevice, len(devices))
	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		if d.Permission != entity.PermissionGranted || d.FCMToken == "" {
			continue
		}
		tokenToDevice[d.FCMToken] = d
		tokens = append(tokens, d.FCMToken)
	}
	if len(tokens) == 0 {
		return srv.attempt(event, entity.ChannelPush, userID, service.ErrDeliveryDisabled, true)
	}

	data := map[string]string{
		"type":             string(event.Kind),
		"blood_request_id": event.BloodReqID,
	}

	var (
		sent     int
		lastErr  error
		invalids []string
	)
	for i := 0; i < len(tokens); i += service.MaxPushBatch {
		batch := tokens[i:min(i+service.MaxPushBatch, len(tokens))]
		success, _, invalid, err := srv.notifier.SendBatchNotification(ctx, batch, title, body, data)
		if err != nil {
			lastErr = err

			continue
		}
		sent += success
		invalids = append(invalids, invalid...)
	}

	for _, token := range invalids {
		if device, ok := tokenToDevice[token]; ok {
			if err := srv.deviceRepo.DeleteDevice(ctx, device.ID); err != nil {
				srv.log(ctx).Warn("Failed to deactivate device with invalid token", slog.Any("deviceID", device.ID), slog.Any("error", err))
			}
		}
	}

	if sent == 0 && lastErr == nil {
		lastErr = errors.New("no device accepted the notification")
	}
	if sent > 0 {
		lastErr = nil
	}

	return srv.attempt(event, entity.ChannelPush, userID, lastErr, false)
}

// attempt converts a delivery outcome into a log entry. Disabled channels are recorded as skipped.
func (srv *dispatchService) attempt(event *service.TaskEvent, channel entity.DeliveryChannel, recipient string, err error, skipped bool) *entity.DeliveryLog {
	entry := &entity.DeliveryLog{
		ID:        uuid.New(),
		TaskID:    event.TaskID,
		Channel:   channel,
		Kind:      string(event.Kind),
		Recipient: recipient,
		Status:    entity.DeliverySent,
		SentAt:    srv.now(),
	}
	switch {
	case skipped || errors.Is(err, service.ErrDeliveryDisabled):
		entry.Status = entity.DeliverySkipped
		if err != nil {
			entry.ErrorMessage = err.Error()
		}
	case err != nil:
		entry.Status = entity.DeliveryFailed
		entry.ErrorMessage = truncate(err.Error(), deliveryErrorLimit)
	}

	return entry
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit]
}

// record logs a summary of the task's deliveries and persists them.
func (srv *dispatchService) record(ctx context.Context, event *service.TaskEvent, attempts []*entity.DeliveryLog) {
	var sent, failed, skipped int
	for _, a := range attempts {
		switch a.Status {
		case entity.DeliverySent:
			sent++
		case entity.DeliveryFailed:
			failed++
			srv.log(ctx).Warn("Delivery failed",
				slog.String("taskID", event.TaskID),
				slog.String("channel", string(a.Channel)),
				slog.String("recipient", a.Recipient),
				slog.String("error", a.ErrorMessage))
		case entity.DeliverySkipped:
			skipped++
		}
	}

	logger := srv.log(ctx).With(
		slog.String("taskID", event.TaskID),
		slog.String("kind", string(event.Kind)),
		slog.Int("sent", sent),
		slog.Int("failed", failed),
		slog.Int("skipped", skipped))
	if failed > 0 && sent > 0 {
		logger.Warn("Task delivered partially")
	} else {
		logger.Info("Task processed")
	}

	if len(attempts) == 0 {
		return
	}
	if err := srv.deliveryLogRepo.BatchCreateDeliveryLogs(ctx, attempts); err != nil {
		logger.Error("Failed to write delivery logs", slog.Any("error", err))
	}
}
