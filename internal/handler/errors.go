package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	apperrors "happythoughts/internal/errors"
	"happythoughts/internal/logger"
)

// NewErrorHandler renders every error as the {response, success:false}
// envelope. Store failures and untyped errors are logged with their cause;
// clients only see the mapped message.
func NewErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := resolveError(err)

		reqLog := logger.FromContext(c.Request().Context())
		if reqLog.GetLevel() == zerolog.Disabled {
			reqLog = log
		}

		if status >= http.StatusInternalServerError || apperrors.KindOf(err) == apperrors.KindStore {
			reqLog.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("route", c.Path()).
				Int("status", status).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, apperrors.Fail(message))
		}
		if writeErr != nil {
			reqLog.Error().Err(writeErr).Msg("write error response")
		}
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		if he.Message != nil {
			return he.Code, fmt.Sprint(he.Message)
		}
		return he.Code, http.StatusText(he.Code)
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.Message
}
