package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/lms/internal/logging"
	"github.com/Skotchmaster/lms/internal/service"
	"github.com/Skotchmaster/lms/internal/validation"
)

// Envelope is the body of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}

// statusFor maps a service error to a status code and a message that is
// safe to show to the caller.
func statusFor(err error) (int, string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, service.ErrUpload):
		return http.StatusBadGateway, "video upload failed"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// fail logs the failed operation at a level matching the status and turns
// err into an echo.HTTPError.
func fail(l *slog.Logger, op string, err error) error {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		l.Error(op+"_failed", "status", code, "error", err)
	} else {
		l.Warn(op+"_failed", "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_failed", "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

// ErrorHandler renders every error in the envelope. Errors that are not
// echo.HTTPError never leak their text.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code int
		msg  string
	)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = http.StatusText(code)
		}
	} else {
		code, msg = statusFor(err)
		if code >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
		}
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, Envelope{Success: false, Message: msg})
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response_failed", "error", werr)
	}
}

func cookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
