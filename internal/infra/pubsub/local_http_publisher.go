package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"bloodlink/internal/domain/service"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const localPublishTimeout = 30 * time.Second

// localHTTPPublisher implements TaskPublisher by sending HTTP POST requests
// to a local endpoint, simulating Pub/Sub push behavior for development
type localHTTPPublisher struct {
	endpoint string
	client   *resty.Client
	logger   *slog.Logger
}

// PushMessage represents the structure of a Pub/Sub push message.
// It mimics the format Google Pub/Sub uses when pushing to HTTP endpoints.
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewLocalHTTPPublisher creates a new local HTTP publisher for development
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.TaskPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		client:   resty.New().SetTimeout(localPublishTimeout),
		logger:   logger,
	}
}

// PublishTask posts the task to the dispatcher wrapped in a push envelope
func (p *localHTTPPublisher) PublishTask(ctx context.Context, event *service.TaskEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	pushMsg := PushMessage{
		Subscription: "projects/local/subscriptions/bloodlink-tasks",
	}
	pushMsg.Message.Data = base64.StdEncoding.EncodeToString(eventData)
	pushMsg.Message.MessageID = event.TaskID
	pushMsg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)
	pushMsg.Message.Attributes = taskAttributes(event)

	p.logger.Info("[LocalPubSub] Publishing task",
		slog.String("endpoint", p.endpoint),
		slog.String("task_id", event.TaskID),
		slog.String("kind", string(event.Kind)),
	)

	req := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(pushMsg)
	if event.RequestID != "" {
		req.SetHeader("X-Request-Id", event.RequestID)
	}

	resp, err := req.Post(p.endpoint)
	if err != nil {
		return errors.WithStack(err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return errors.Errorf("dispatcher returned non-success status: %d", resp.StatusCode())
	}

	p.logger.Info("[LocalPubSub] Task published successfully",
		slog.String("task_id", event.TaskID),
	)

	return nil
}

// Close releases resources (no-op for HTTP client)
func (p *localHTTPPublisher) Close() error {
	return nil
}

func taskAttributes(event *service.TaskEvent) map[string]string {
	attributes := map[string]string{
		"task_id": event.TaskID,
		"kind":    string(event.Kind),
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}
