package http

import (
	"errors"
	"net/http"

	"mealdelivery/internal/generated/servers"
	"mealdelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// fail renders err with the status of its class. Internal failures are
// logged and answered with a generic message.
func (s *Server) fail(c echo.Context, err error) error {
	status := statusOf(err)
	if status == http.StatusForbidden && actorFrom(c).IsAnonymous() {
		status = http.StatusUnauthorized
	}

	message := err.Error()
	switch status {
	case http.StatusUnauthorized:
		message = "Authentication required"
	case http.StatusInternalServerError:
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		message = "Internal server error"
	}

	return c.JSON(status, servers.Error{Code: status, Message: message})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// httpErrorHandler renders echo's own errors (routing, binding, request
// validation) in the API error shape.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, servers.Error{Code: status, Message: message})
}
