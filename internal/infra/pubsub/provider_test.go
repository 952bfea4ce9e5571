package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"bloodlink/config"
	"bloodlink/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func TestNewTaskPublisher_NotConfigured(t *testing.T) {
	publisher, err := NewTaskPublisher(PublisherParams{
		Lc:     fxtest.NewLifecycle(t),
		Ctx:    context.Background(),
		Config: &config.Config{},
		Logger: slog.Default(),
	})
	require.NoError(t, err)
	assert.NoError(t, publisher.PublishTask(context.Background(), &service.TaskEvent{TaskID: "t1"}))
}

func TestNewTaskPublisher_InlineRequiresHandler(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: "inline"}}

	_, err := NewTaskPublisher(PublisherParams{
		Lc:     fxtest.NewLifecycle(t),
		Ctx:    context.Background(),
		Config: cfg,
		Logger: slog.Default(),
	})
	assert.Error(t, err)
}

func TestNewTaskPublisher_UnknownProvider(t *testing.T) {
	cfg := &config.Config{PubSub: &config.PubSubConfig{Provider: "kafka"}}

	_, err := NewTaskPublisher(PublisherParams{
		Lc:     fxtest.NewLifecycle(t),
		Ctx:    context.Background(),
		Config: cfg,
		Logger: slog.Default(),
	})
	assert.ErrorContains(t, err, "kafka")
}

func TestLocalHTTPPublisher_SendsPushEnvelope(t *testing.T) {
	var received PushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.Default())
	event := &service.TaskEvent{TaskID: "t1", RequestID: "req-1", Kind: service.TaskRequestCreated, DonorIDs: []string{"d1"}}
	require.NoError(t, publisher.PublishTask(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "t1", received.Message.MessageID)
	assert.Equal(t, "request.created", received.Message.Attributes["kind"])

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var decoded service.TaskEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"d1"}, decoded.DonorIDs)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.Default())
	err := publisher.PublishTask(context.Background(), &service.TaskEvent{TaskID: "t1"})
	assert.ErrorContains(t, err, "503")
}
