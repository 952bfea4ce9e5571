package handler

import (
	"context"
	"log/slog"
	"net/http"

	"bloodlink/internal/delivery/api/response"
	"bloodlink/internal/delivery/api/sse"
	"bloodlink/internal/domain/entity"
	"bloodlink/internal/domain/repository"
	"bloodlink/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const eventRequests = "requests"

// RequestHandlerParams holds dependencies for RequestHandler, injected by Fx.
type RequestHandlerParams struct {
	fx.In

	RequestUC   usecase.RequestUsecase
	BroadcastUC usecase.BroadcastUsecase
	Logger      *slog.Logger
}

// RequestHandler serves the blood request lifecycle and its live feeds
type RequestHandler struct {
	requestUC   usecase.RequestUsecase
	broadcastUC usecase.BroadcastUsecase
	logger      *slog.Logger
}

// NewRequestHandler is the constructor for RequestHandler
func NewRequestHandler(params RequestHandlerParams) *RequestHandler {
	return &RequestHandler{
		requestUC:   params.RequestUC,
		broadcastUC: params.BroadcastUC,
		logger:      params.Logger,
	}
}

// RespondRequest is a donor's answer to a pending request.
type RespondRequest struct {
	Status     string `json:"status" validate:"required,oneof=accepted rejected"`
	DonorPhone string `json:"donor_phone"`
}

// CreateRequest handles POST /requests
func (h *RequestHandler) CreateRequest(c echo.Context) error {
	var req usecase.CreateRequestInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	request, err := h.requestUC.CreateRequest(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, request)
}

// Broadcast handles POST /requests/broadcast
func (h *RequestHandler) Broadcast(c echo.Context) error {
	var req usecase.BroadcastInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid broadcast input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	result, err := h.broadcastUC.Broadcast(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, result)
}

// Respond handles POST /requests/:id/respond
func (h *RequestHandler) Respond(c echo.Context) error {
	var req RespondRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid response input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	request, err := h.requestUC.RespondToRequest(c.Request().Context(), c.Param("id"), entity.RequestStatus(req.Status), req.DonorPhone)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, request)
}

// Cancel handles POST /requests/:id/cancel
func (h *RequestHandler) Cancel(c echo.Context) error {
	request, err := h.requestUC.CancelRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, request)
}

// Archive handles POST /requests/:id/archive
func (h *RequestHandler) Archive(c echo.Context) error {
	request, err := h.requestUC.ArchiveRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, request)
}

// MarkAllFulfilled handles POST /seekers/:uid/requests/fulfill
func (h *RequestHandler) MarkAllFulfilled(c echo.Context) error {
	closed, err := h.requestUC.MarkAllFulfilled(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"fulfilled": closed})
}

// StreamDonorInbox handles GET /donors/:uid/requests/stream
func (h *RequestHandler) StreamDonorInbox(c echo.Context) error {
	return h.stream(c, h.requestUC.WatchDonorInbox)
}

// StreamSeekerRequests handles GET /seekers/:uid/requests/stream
func (h *RequestHandler) StreamSeekerRequests(c echo.Context) error {
	return h.stream(c, h.requestUC.WatchSeekerRequests)
}

type watchRequestsFunc func(ctx context.Context, uid string, sink usecase.RequestsSink) (repository.Unsubscribe, error)

func (h *RequestHandler) stream(c echo.Context, watch watchRequestsFunc) error {
	ctx := c.Request().Context()
	stream := sse.New(c, h.logger)
	unsubscribe, err := watch(ctx, c.Param("uid"), func(requests []*entity.BloodRequest) {
		stream.Publish(eventRequests, requests)
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer unsubscribe()

	return stream.Run(ctx)
}
