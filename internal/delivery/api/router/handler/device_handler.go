package handler

import (
	"log/slog"
	"net/http"

	"bloodlink/internal/delivery/api/response"
	"bloodlink/internal/usecase"
	"bloodlink/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// DeviceHandlerParams holds dependencies for DeviceHandler, injected by Fx.
type DeviceHandlerParams struct {
	fx.In

	DeviceUC usecase.DeviceUsecase
	Logger   *slog.Logger
}

// DeviceHandler holds dependencies for device-related handlers
type DeviceHandler struct {
	deviceUC usecase.DeviceUsecase
	logger   *slog.Logger
}

// NewDeviceHandler is the constructor for DeviceHandler
func NewDeviceHandler(params DeviceHandlerParams) *DeviceHandler {
	return &DeviceHandler{
		deviceUC: params.DeviceUC,
		logger:   params.Logger,
	}
}

// RegisterDevice handles device registration and permission updates
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	var req usecase.DeviceInfo
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid device input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	device, err := h.deviceUC.RegisterDevice(c.Request().Context(), c.Param("uid"), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, device)
}

// GetUserDevices handles retrieving all user devices
func (h *DeviceHandler) GetUserDevices(c echo.Context) error {
	devices, err := h.deviceUC.GetUserDevices(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, devices)
}

// DeactivateDevice handles deactivating a device
func (h *DeviceHandler) DeactivateDevice(c echo.Context) error {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid device ID")
	}

	err = h.deviceUC.DeactivateDevice(c.Request().Context(), c.Param("uid"), deviceID)
	switch {
	case errors.Is(err, impl.ErrDeviceNotFound):
		return response.NotFound(c, "DEVICE_NOT_FOUND", "Device not found")
	case errors.Is(err, impl.ErrDeviceUnauthorized):
		return response.Forbidden(c, "DEVICE_FORBIDDEN", "Device belongs to another user")
	case err != nil:
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Device deactivated successfully"})
}

// GetPermission reports the user's notification permission across devices
func (h *DeviceHandler) GetPermission(c echo.Context) error {
	permission, err := h.deviceUC.ResolvePermission(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"permission": string(permission)})
}
