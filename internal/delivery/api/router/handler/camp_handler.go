package handler

import (
	"net/http"

	"bloodlink/internal/delivery/api/response"
	"bloodlink/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CampHandler serves donation camps
type CampHandler struct {
	campUC usecase.CampUsecase
}

// NewCampHandler is the constructor for CampHandler
func NewCampHandler(campUC usecase.CampUsecase) *CampHandler {
	return &CampHandler{campUC: campUC}
}

// CreateCamp handles POST /camps
func (h *CampHandler) CreateCamp(c echo.Context) error {
	var req usecase.CreateCampInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid camp input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	camp, err := h.campUC.CreateCamp(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, camp)
}

// ListCamps handles GET /camps
func (h *CampHandler) ListCamps(c echo.Context) error {
	camps, err := h.campUC.ListCamps(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, camps)
}
