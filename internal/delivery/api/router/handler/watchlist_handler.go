package handler

import (
	"log/slog"
	"net/http"

	"bloodlink/internal/delivery/api/response"
	"bloodlink/internal/delivery/api/sse"
	"bloodlink/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// WatchlistHandlerParams holds dependencies for WatchlistHandler, injected by Fx.
type WatchlistHandlerParams struct {
	fx.In

	InventoryUC usecase.InventoryUsecase
	MatcherUC   usecase.MatcherUsecase
	Logger      *slog.Logger
}

// WatchlistHandler serves a seeker's watchlist and its live matches
type WatchlistHandler struct {
	inventoryUC usecase.InventoryUsecase
	matcherUC   usecase.MatcherUsecase
	logger      *slog.Logger
}

// NewWatchlistHandler is the constructor for WatchlistHandler
func NewWatchlistHandler(params WatchlistHandlerParams) *WatchlistHandler {
	return &WatchlistHandler{
		inventoryUC: params.InventoryUC,
		matcherUC:   params.MatcherUC,
		logger:      params.Logger,
	}
}

// AddEntry handles POST /seekers/:uid/watchlist
func (h *WatchlistHandler) AddEntry(c echo.Context) error {
	var req usecase.AddWatchInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid watchlist input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	entry, err := h.inventoryUC.AddToWatchlist(c.Request().Context(), c.Param("uid"), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, entry)
}

// ListEntries handles GET /seekers/:uid/watchlist
func (h *WatchlistHandler) ListEntries(c echo.Context) error {
	entries, err := h.inventoryUC.GetWatchlist(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, entries)
}

// RemoveEntry handles DELETE /watchlist/:id
func (h *WatchlistHandler) RemoveEntry(c echo.Context) error {
	if err := h.inventoryUC.DeactivateWatchlist(c.Request().Context(), c.Param("id")); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Watchlist entry cancelled"})
}

// matchEventBuffer holds a burst of match events. Events are queued from the
// store's change delivery, which must not block on a slow client.
const matchEventBuffer = 512

// StreamMatches handles GET /seekers/:uid/matches/stream.
// Each match event is sent under its own type as the SSE event name.
func (h *WatchlistHandler) StreamMatches(c echo.Context) error {
	ctx := c.Request().Context()
	stream := sse.NewWithBuffer(c, h.logger, matchEventBuffer)
	unsubscribe, err := h.matcherUC.WatchMatches(ctx, c.Param("uid"), func(event usecase.MatchEvent) {
		stream.Publish(string(event.Type), event)
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer unsubscribe()

	return stream.Run(ctx)
}
