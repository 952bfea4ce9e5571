package handler

import (
	"net/http"
	"strconv"

	"bloodlink/internal/delivery/api/response"
	"bloodlink/internal/domain/entity"
	domainerrors "bloodlink/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// parseOrigin reads the optional lat/lng query pair used to sort by distance.
func parseOrigin(c echo.Context) (*entity.Coordinate, error) {
	rawLat, rawLng := c.QueryParam("lat"), c.QueryParam("lng")
	if rawLat == "" && rawLng == "" {
		return nil, nil
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lng, lngErr := strconv.ParseFloat(rawLng, 64)
	if latErr != nil || lngErr != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("lat and lng must both be numbers")
	}

	origin := &entity.Coordinate{Lat: lat, Lng: lng}
	if !origin.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("coordinates are out of range")
	}

	return origin, nil
}

// parseBloodTypeQuery validates an optional blood_type query value.
func parseBloodTypeQuery(raw string) (entity.BloodType, error) {
	if raw == "" {
		return "", nil
	}

	bt, ok := entity.ParseBloodType(raw)
	if !ok {
		return "", domainerrors.ErrInvalidBloodType.WithDetails(raw)
	}

	return bt, nil
}
