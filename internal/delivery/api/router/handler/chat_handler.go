package handler

import (
	"context"
	"log/slog"
	"net/http"

	"bloodlink/internal/delivery/api/response"
	"bloodlink/internal/delivery/api/sse"
	"bloodlink/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ChatHandlerParams holds dependencies for ChatHandler, injected by Fx.
type ChatHandlerParams struct {
	fx.In

	IntakeUC usecase.IntakeUsecase
	Logger   *slog.Logger
}

// ChatHandler serves the intake assistant
type ChatHandler struct {
	intakeUC usecase.IntakeUsecase
	logger   *slog.Logger
}

// NewChatHandler is the constructor for ChatHandler
func NewChatHandler(params ChatHandlerParams) *ChatHandler {
	return &ChatHandler{
		intakeUC: params.IntakeUC,
		logger:   params.Logger,
	}
}

// SendMessageRequest is a line typed by the user.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// StartSession handles POST /chat/sessions
func (h *ChatHandler) StartSession(c echo.Context) error {
	conv, err := h.intakeUC.StartSession(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, conv)
}

// GetSession handles GET /chat/sessions/:id
func (h *ChatHandler) GetSession(c echo.Context) error {
	conv, err := h.intakeUC.GetSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, conv)
}

// SendMessage handles POST /chat/sessions/:id/messages.
// The assistant's reply arrives later on the session stream.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid message input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	msg, err := h.intakeUC.SendMessage(c.Request().Context(), c.Param("id"), req.Text)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusAccepted, msg)
}

// StreamSession handles GET /chat/sessions/:id/stream.
// The stream ends when the client leaves or the session expires.
func (h *ChatHandler) StreamSession(c echo.Context) error {
	ctx, stop := context.WithCancel(c.Request().Context())
	defer stop()

	events, cancel, err := h.intakeUC.Subscribe(ctx, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer cancel()

	stream := sse.New(c, h.logger)
	go func() {
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				if !stream.PublishWait(ctx, string(event.Type), event) {
					return
				}
			}
		}
	}()

	return stream.Run(ctx)
}
