package handler_test

import (
	"net/http"
	"testing"

	"bloodlink/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceHandler(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/users/u1/notification-permission", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var permission map[string]string
	decode(t, rec, &permission)
	assert.Equal(t, "default", permission["permission"])

	rec = srv.do(t, http.MethodPost, "/api/v1/users/u1/devices", map[string]string{
		"device_id": "browser-1", "fcm_token": "tok", "platform": "web", "permission": "granted",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var device entity.UserDevice
	decode(t, rec, &device)

	rec = srv.do(t, http.MethodPost, "/api/v1/users/u1/devices", map[string]string{"device_id": "x", "platform": "desktop"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/users/u1/notification-permission", nil)
	decode(t, rec, &permission)
	assert.Equal(t, "granted", permission["permission"])

	rec = srv.do(t, http.MethodGet, "/api/v1/users/u1/devices", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var devices []entity.UserDevice
	decode(t, rec, &devices)
	assert.Len(t, devices, 1)

	rec = srv.do(t, http.MethodDelete, "/api/v1/users/u2/devices/"+device.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "DEVICE_FORBIDDEN", errorCode(t, rec))

	rec = srv.do(t, http.MethodDelete, "/api/v1/users/u1/devices/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/v1/users/u1/devices/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/v1/users/u1/devices/"+device.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
