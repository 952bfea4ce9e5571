package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "bloodlink/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		want   string
	}{
		{name: "header wins", target: "/feeds?requestId=from-query", header: "from-header", want: "from-header"},
		{name: "event source query", target: "/feeds?requestId=from-query", want: "from-query"},
		{name: "generated", target: "/feeds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(NewRequestIDMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).Process)

			var fromCtx string
			var scoped *slog.Logger
			e.GET("/feeds", func(c echo.Context) error {
				fromCtx = deliverycontext.GetRequestIDFromContext(c.Request().Context())
				scoped = deliverycontext.GetLogger(c.Request().Context())

				return c.NoContent(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, http.StatusNoContent, rec.Code)
			require.NotEmpty(t, fromCtx)
			assert.NotNil(t, scoped)
			assert.Equal(t, fromCtx, rec.Header().Get(deliverycontext.HeaderXRequestID))
			if tt.want != "" {
				assert.Equal(t, tt.want, fromCtx)
			}
		})
	}
}
