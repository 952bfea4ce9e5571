package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"bloodlink/config"
	"bloodlink/internal/delivery"
	apimiddleware "bloodlink/internal/delivery/api/middleware"
	"bloodlink/internal/delivery/api/router"
	"bloodlink/internal/delivery/api/validator"
	"bloodlink/internal/delivery/middleware"
	"bloodlink/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

type apiServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
	// closeStreams cancels the base context of every connection so open SSE feeds return.
	closeStreams context.CancelFunc
}

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams
}

func NewServer(params ServerParams) (delivery.Delivery, error) {
	echoServer := middleware.NewEcho(params.Cfg, params.Logger)

	echoServer.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  params.Cfg.HTTP.AllowOrigins,
		ExposeHeaders: []string{echo.HeaderXRequestID, echo.HeaderContentDisposition},
	}))
	echoServer.Use(echomiddleware.BodyLimit(params.Cfg.HTTP.MaxRequestBodySize))

	errorMiddleware := apimiddleware.NewErrorMiddleware(params.Logger)
	echoServer.HTTPErrorHandler = errorMiddleware.HandleHTTPError
	echoServer.Validator = validator.New()

	router.NewRouter(params.RouterParams).RegisterRoutes(echoServer)

	baseCtx, closeStreams := context.WithCancel(context.Background())
	echoServer.Server.BaseContext = func(net.Listener) context.Context { return baseCtx }

	srv := &apiServer{
		cfg:          params.Cfg,
		logger:       params.Logger,
		server:       echoServer,
		closeStreams: closeStreams,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

func (s *apiServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting API HTTP server", slog.String("host_port", hostPort))
	h2Server := &http2.Server{
		IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout,
	}
	if err := s.server.StartH2CServer(hostPort, h2Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *apiServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down API HTTP server")
	// Live feeds never finish on their own; end them before draining.
	s.closeStreams()

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
