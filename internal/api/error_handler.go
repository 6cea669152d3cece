package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailops/user-management/internal/api/metrics"
	"github.com/retailops/user-management/internal/core/ports"
)

// errorResponse is the canonical error envelope for all API errors: a stable
// machine-readable code plus a human-readable message.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps business errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"code": ..., "message": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err, log, c)
		_ = c.JSON(status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Business failures carry a stable code; translate it deterministically.
	var be *ports.BusinessError
	if errors.As(err, &be) {
		metrics.BusinessErrorsTotal.WithLabelValues(be.Code).Inc()
		return statusForCode(be.Code), errorResponse{Code: be.Code, Message: be.Message}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Code: "REQUEST_ERROR", Message: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Code: "INTERNAL_ERROR", Message: "internal server error"}
}

func statusForCode(code string) int {
	switch code {
	case ports.CodeUserNotFound:
		return http.StatusNotFound
	case ports.CodeUsernameExist:
		return http.StatusConflict
	case ports.CodeInvalidFormat, ports.CodeInvalidOldPassword:
		return http.StatusBadRequest
	}
	return http.StatusBadRequest
}
