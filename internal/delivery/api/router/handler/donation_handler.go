package handler

import (
	"log/slog"
	"net/http"

	"bloodlink/internal/delivery/api/response"
	"bloodlink/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DonationHandlerParams holds dependencies for DonationHandler, injected by Fx.
type DonationHandlerParams struct {
	fx.In

	DonationUC usecase.DonationUsecase
	Logger     *slog.Logger
}

// DonationHandler serves donation completion, history and certificates
type DonationHandler struct {
	donationUC usecase.DonationUsecase
	logger     *slog.Logger
}

// NewDonationHandler is the constructor for DonationHandler
func NewDonationHandler(params DonationHandlerParams) *DonationHandler {
	return &DonationHandler{
		donationUC: params.DonationUC,
		logger:     params.Logger,
	}
}

// Complete handles POST /appointments/:id/complete
func (h *DonationHandler) Complete(c echo.Context) error {
	var req usecase.CompleteAppointmentInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid completion input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}
	req.AppointmentID = c.Param("id")

	appointment, err := h.donationUC.CompleteAppointment(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, appointment)
}

// ListHistory handles GET /donors/:uid/donations
func (h *DonationHandler) ListHistory(c echo.Context) error {
	history, err := h.donationUC.ListDonationHistory(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, history)
}

// ExportVenueDonations handles GET /venues/:id/donations/export
func (h *DonationHandler) ExportVenueDonations(c echo.Context) error {
	export, err := h.donationUC.ExportVenueDonations(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Attachment(c, export.FileName, contentTypeXLSX, export.Content)
}

// GenerateCertificate handles POST /certificates
func (h *DonationHandler) GenerateCertificate(c echo.Context) error {
	var req usecase.CertificateInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid certificate input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	certificate, err := h.donationUC.GenerateCertificate(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, certificate)
}
