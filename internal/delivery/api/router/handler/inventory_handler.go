package handler

import (
	"log/slog"
	"net/http"

	"bloodlink/internal/delivery/api/response"
	"bloodlink/internal/delivery/api/sse"
	"bloodlink/internal/domain/entity"
	"bloodlink/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const eventInventory = "inventory"

// InventoryHandlerParams holds dependencies for InventoryHandler, injected by Fx.
type InventoryHandlerParams struct {
	fx.In

	InventoryUC usecase.InventoryUsecase
	Logger      *slog.Logger
}

// InventoryHandler serves hospital stock and the live inventory search
type InventoryHandler struct {
	inventoryUC usecase.InventoryUsecase
	logger      *slog.Logger
}

// NewInventoryHandler is the constructor for InventoryHandler
func NewInventoryHandler(params InventoryHandlerParams) *InventoryHandler {
	return &InventoryHandler{
		inventoryUC: params.InventoryUC,
		logger:      params.Logger,
	}
}

// UpdateStockRequest adjusts the count of one blood type.
type UpdateStockRequest struct {
	BloodType string `json:"blood_type" validate:"required,bloodtype"`
	Delta     int    `json:"delta"`
}

// RegisterHospital handles POST /hospitals
func (h *InventoryHandler) RegisterHospital(c echo.Context) error {
	var req usecase.RegisterHospitalInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid hospital input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	inventory, err := h.inventoryUC.RegisterHospital(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, inventory)
}

// UpdateStock handles PATCH /hospitals/:id/stock
func (h *InventoryHandler) UpdateStock(c echo.Context) error {
	var req UpdateStockRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid stock update")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	bloodType, _ := entity.ParseBloodType(req.BloodType)
	count, err := h.inventoryUC.UpdateStock(c.Request().Context(), c.Param("id"), bloodType, req.Delta)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{"blood_type": bloodType, "count": count})
}

// ListInventory handles GET /inventory?bloodType=&q=&lat=&lng=
func (h *InventoryHandler) ListInventory(c echo.Context) error {
	filter, err := inventoryFilter(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	views, err := h.inventoryUC.ListInventory(c.Request().Context(), filter)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, views)
}

// StreamInventory handles GET /inventory/stream with the same filters as ListInventory
func (h *InventoryHandler) StreamInventory(c echo.Context) error {
	filter, err := inventoryFilter(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	ctx := c.Request().Context()
	stream := sse.New(c, h.logger)
	unsubscribe, err := h.inventoryUC.WatchInventory(ctx, filter, func(views []*usecase.InventoryView) {
		stream.Publish(eventInventory, views)
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer unsubscribe()

	return stream.Run(ctx)
}

func inventoryFilter(c echo.Context) (usecase.InventoryFilter, error) {
	bloodType, err := parseBloodTypeQuery(c.QueryParam("bloodType"))
	if err != nil {
		return usecase.InventoryFilter{}, err
	}

	origin, err := parseOrigin(c)
	if err != nil {
		return usecase.InventoryFilter{}, err
	}

	return usecase.InventoryFilter{
		BloodType: bloodType,
		Query:     c.QueryParam("q"),
		Origin:    origin,
	}, nil
}
