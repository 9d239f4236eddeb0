package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/lms/internal/logging"
	"github.com/Skotchmaster/lms/internal/tokens"
)

const userIDKey = "user_id"

type InstructorChecker interface {
	IsInstructor(ctx context.Context, id uuid.UUID) (bool, error)
}

type Middleware struct {
	AccessSecret []byte
	Instructors  InstructorChecker
}

func New(accessSecret []byte, instructors InstructorChecker) *Middleware {
	return &Middleware{AccessSecret: accessSecret, Instructors: instructors}
}

// bearer reads the access token from the Authorization header and falls
// back to the accessToken cookie.
func bearer(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

func (m *Middleware) authenticate(c echo.Context) (uuid.UUID, error) {
	raw := bearer(c)
	if raw == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	claims, err := tokens.AccessClaimsFromToken(raw, m.AccessSecret)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	return id, nil
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := m.authenticate(c)
		if err != nil {
			return err
		}
		c.Set(userIDKey, id)
		return next(c)
	}
}

// RequireInstructor lets the request through only when the token subject
// is a registered instructor.
func (m *Middleware) RequireInstructor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := m.authenticate(c)
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		ok, err := m.Instructors.IsInstructor(ctx, id)
		if err != nil {
			logging.FromContext(ctx).Error("instructor_check_failed", "status", 500, "subject", id, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		if !ok {
			return echo.NewHTTPError(http.StatusForbidden, "instructor access required")
		}

		c.Set(userIDKey, id)
		return next(c)
	}
}

// SubjectID returns the id stored by RequireAuth or RequireInstructor.
func SubjectID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
