package middleware

import (
	"log/slog"
	"net/http"

	"freshharvest/internal/delivery/api/response"
	deliverycontext "freshharvest/internal/delivery/context"
	domainerrors "freshharvest/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.logServerError(c, err, appErr.ErrorCode())
		}
		// Details are dropped for 5xx inside response.Error
		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		if httpErr.Code >= http.StatusInternalServerError {
			m.logServerError(c, err, "HTTP_ERROR")
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)

		return
	}

	internal := domainerrors.ErrInternalError
	m.logServerError(c, err, internal.ErrorCode())

	// Unclassified errors never reach the client
	_ = response.InternalServerError(c, internal.ErrorCode(), internal.Message())
}

func (m *ErrorMiddleware) logServerError(c echo.Context, err error, code string) {
	deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Request failed",
		slog.String("code", code),
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
}
