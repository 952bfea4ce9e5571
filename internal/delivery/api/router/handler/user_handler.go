package handler

import (
	"log/slog"
	"net/http"

	"bloodlink/internal/delivery/api/response"
	"bloodlink/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// UserHandler serves profiles and the donor registry
type UserHandler struct {
	userUC usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC: params.UserUC,
		logger: params.Logger,
	}
}

// EligibilityRequest is the outcome of the eligibility quiz.
type EligibilityRequest struct {
	Eligible *bool `json:"eligible" validate:"required"`
}

// CreateProfile handles POST /users
func (h *UserHandler) CreateProfile(c echo.Context) error {
	var req usecase.CreateUserInput
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.userUC.CreateProfile(c.Request().Context(), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, user)
}

// GetProfile handles GET /users/:uid
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userUC.GetProfile(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user)
}

// RegisterDonor handles POST /users/:uid/donor
func (h *UserHandler) RegisterDonor(c echo.Context) error {
	var req usecase.DonorRegistration
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid donor registration")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.userUC.RegisterDonor(c.Request().Context(), c.Param("uid"), &req)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user)
}

// UpdateEligibility handles PUT /users/:uid/eligibility
func (h *UserHandler) UpdateEligibility(c echo.Context) error {
	var req EligibilityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid eligibility input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.userUC.UpdateEligibility(c.Request().Context(), c.Param("uid"), *req.Eligible); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"eligible": *req.Eligible})
}

// SearchDonors handles GET /donors/search?bloodType=&location=
func (h *UserHandler) SearchDonors(c echo.Context) error {
	donors, err := h.userUC.SearchDonors(c.Request().Context(), c.QueryParam("bloodType"), c.QueryParam("location"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, donors)
}
