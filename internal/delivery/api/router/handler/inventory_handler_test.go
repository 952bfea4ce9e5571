package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"bloodlink/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryView struct {
	HospitalID string         `json:"hospital_id"`
	BloodStock map[string]int `json:"blood_stock"`
	DistanceKm *float64       `json:"distance_km"`
}

func registerHospital(t *testing.T, srv *testServer, uid, address string, lat, lng float64) {
	t.Helper()

	rec := srv.do(t, http.MethodPost, "/api/v1/hospitals", map[string]any{
		"uid":           uid,
		"hospital_name": uid + " Hospital",
		"address":       address,
		"location":      map[string]float64{"lat": lat, "lng": lng},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestInventoryHandler_StockAndSearch(t *testing.T) {
	srv := newTestServer(t)
	registerHospital(t, srv, "far", "Ring Road, Nagpur", 21.14, 79.08)
	registerHospital(t, srv, "near", "FC Road, Pune", 18.52, 73.85)

	rec := srv.do(t, http.MethodPatch, "/api/v1/hospitals/near/stock", map[string]any{"blood_type": "b+", "delta": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stock map[string]any
	decode(t, rec, &stock)
	assert.Equal(t, "B+", stock["blood_type"])
	assert.EqualValues(t, 3, stock["count"])

	rec = srv.do(t, http.MethodPatch, "/api/v1/hospitals/near/stock", map[string]any{"blood_type": "B+", "delta": -10})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &stock)
	assert.EqualValues(t, 0, stock["count"])

	rec = srv.do(t, http.MethodPatch, "/api/v1/hospitals/missing/stock", map[string]any{"blood_type": "B+", "delta": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/inventory?lat=18.5&lng=73.8", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []inventoryView
	decode(t, rec, &views)
	require.Len(t, views, 2)
	assert.Equal(t, "near", views[0].HospitalID)
	require.NotNil(t, views[0].DistanceKm)
	assert.Less(t, *views[0].DistanceKm, *views[1].DistanceKm)

	rec = srv.do(t, http.MethodGet, "/api/v1/inventory?q=nagpur", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "far", views[0].HospitalID)

	rec = srv.do(t, http.MethodGet, "/api/v1/inventory?bloodType=XY", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventoryHandler_Stream(t *testing.T) {
	srv := newTestServer(t)
	registerHospital(t, srv, "h1", "FC Road, Pune", 18.52, 73.85)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	rec := srv.doContext(t, ctx, http.MethodGet, "/api/v1/inventory/stream?q=pune", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: inventory\n")
	assert.Contains(t, rec.Body.String(), `"hospital_id":"h1"`)

	rec = srv.do(t, http.MethodGet, "/api/v1/inventory/stream?lat=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWatchlistHandler(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/seekers/s1/watchlist", map[string]string{"blood_type": "o-", "location": "pune"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry entity.WatchlistEntry
	decode(t, rec, &entry)
	assert.Equal(t, entity.BloodTypeONeg, entry.BloodType)
	assert.Equal(t, entity.WatchlistActive, entry.Status)

	rec = srv.do(t, http.MethodPost, "/api/v1/seekers/s1/watchlist", map[string]string{"blood_type": "O"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/seekers/s1/watchlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []entity.WatchlistEntry
	decode(t, rec, &entries)
	require.Len(t, entries, 1)

	rec = srv.do(t, http.MethodDelete, "/api/v1/watchlist/"+entry.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/seekers/s1/watchlist", nil)
	decode(t, rec, &entries)
	assert.Empty(t, entries)
}

func TestWatchlistHandler_StreamMatches(t *testing.T) {
	srv := newTestServer(t)
	registerHospital(t, srv, "h1", "FC Road, Pune", 18.52, 73.85)

	rec := srv.do(t, http.MethodPost, "/api/v1/seekers/s1/watchlist", map[string]string{"blood_type": "O-"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = srv.do(t, http.MethodPatch, "/api/v1/hospitals/h1/stock", map[string]any{"blood_type": "O-", "delta": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	rec = srv.doContext(t, ctx, http.MethodGet, "/api/v1/seekers/s1/matches/stream", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "event: permission_request\n")
	assert.Contains(t, body, "event: alert\n")
	assert.Contains(t, body, "New Match: O- available in FC Road, Pune!")
}
