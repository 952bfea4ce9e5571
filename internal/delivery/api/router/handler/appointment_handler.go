package handler

import (
	"log/slog"
	"net/http"

	"bloodlink/internal/delivery/api/response"
	"bloodlink/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AppointmentHandlerParams holds dependencies for AppointmentHandler, injected by Fx.
type AppointmentHandlerParams struct {
	fx.In

	AppointmentUC usecase.AppointmentUsecase
	Logger        *slog.Logger
}

// AppointmentHandler serves slot booking and venue listings
type AppointmentHandler struct {
	appointmentUC usecase.AppointmentUsecase
	logger        *slog.Logger
}

// NewAppointmentHandler is the constructor for AppointmentHandler
func NewAppointmentHandler(params AppointmentHandlerParams) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUC: params.AppointmentUC,
		logger:        params.Logger,
	}
}

// Book handles POST /appointments
func (h *AppointmentHandler) Book(c echo.Context) error {
	var req usecase.BookAppointmentInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid appointment input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	appointment, err := h.appointmentUC.BookAppointment(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, appointment)
}

// Cancel handles POST /appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	appointment, err := h.appointmentUC.CancelAppointment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, appointment)
}

// MarkNoShow handles POST /appointments/:id/no-show
func (h *AppointmentHandler) MarkNoShow(c echo.Context) error {
	appointment, err := h.appointmentUC.MarkNoShow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, appointment)
}

// ListDonorAppointments handles GET /donors/:uid/appointments
func (h *AppointmentHandler) ListDonorAppointments(c echo.Context) error {
	appointments, err := h.appointmentUC.ListDonorAppointments(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, appointments)
}

// ListVenues handles GET /venues?lat=&lng=
func (h *AppointmentHandler) ListVenues(c echo.Context) error {
	origin, err := parseOrigin(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	venues, err := h.appointmentUC.ListVenues(c.Request().Context(), origin)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, venues)
}

// ListVenueAppointments handles GET /venues/:id/appointments
func (h *AppointmentHandler) ListVenueAppointments(c echo.Context) error {
	appointments, err := h.appointmentUC.ListVenueAppointments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, appointments)
}
