package http

import (
	"log/slog"
	"net/http"
	"time"

	"mealdelivery/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const streamPath = "/api/v1/notifications/stream"

// NewRouter assembles the echo instance serving the API, its docs and the
// health probe. A zero requestTimeout disables the per-request deadline.
func NewRouter(server *Server, auth *Authenticator, requestTimeout time.Duration, logger *slog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))
	if requestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Skipper: func(c echo.Context) bool { return c.Path() == streamPath },
			Timeout: requestTimeout,
		}))
	}
	e.Use(auth.Middleware())

	doc, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	if err = registerAPIDoc(doc); err != nil {
		return nil, err
	}

	validationDoc, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	validator, err := RequestValidator(validationDoc)
	if err != nil {
		return nil, err
	}
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	servers.RegisterHandlers(e, server)
	return e, nil
}
