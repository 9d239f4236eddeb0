package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/lms/internal/logging"
	"github.com/Skotchmaster/lms/internal/service"
	"github.com/Skotchmaster/lms/internal/tokens"
	"github.com/Skotchmaster/lms/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func setTokenCookies(c echo.Context, access, refresh string) {
	now := time.Now()
	c.SetCookie(cookie("accessToken", access, now.Add(tokens.AccessTTL)))
	if refresh != "" {
		c.SetCookie(cookie("refreshToken", refresh, now.Add(tokens.RefreshTTL)))
	}
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "signup", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "signup", err)
	}

	res, err := h.Svc.Signup(ctx, req)
	if err != nil {
		return fail(l, "signup", err)
	}

	setTokenCookies(c, res.AccessToken, res.RefreshToken)
	l.Info("signup_successful", "user_id", res.ID)
	return ok(c, http.StatusCreated, "user registered", res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "login", err)
	}

	pair, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login", err)
	}

	setTokenCookies(c, pair.AccessToken, pair.RefreshToken)
	l.Info("login_successful")
	return ok(c, http.StatusOK, "logged in", pair)
}

// Refresh takes the refresh token from the body or, failing that, from
// the refreshToken cookie.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "refresh", "invalid body", err)
	}
	if req.RefreshToken == "" {
		if ck, err := c.Cookie("refreshToken"); err == nil {
			req.RefreshToken = ck.Value
		}
	}
	if req.RefreshToken == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "missing refresh token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	access, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return fail(l, "refresh", err)
	}

	setTokenCookies(c, access, "")
	return ok(c, http.StatusOK, "token refreshed", echo.Map{"accessToken": access})
}

func (h *AuthHTTP) Onboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "instructor.onboard")

	var req transport.OnboardRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "onboard", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "onboard", err)
	}

	res, err := h.Svc.Onboard(ctx, req)
	if err != nil {
		return fail(l, "onboard", err)
	}

	setTokenCookies(c, res.AccessToken, res.RefreshToken)
	l.Info("onboard_successful", "instructor_id", res.ID)
	return ok(c, http.StatusCreated, "instructor onboarded", res)
}

func (h *AuthHTTP) InstructorLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "instructor.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "instructor_login", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "instructor_login", err)
	}

	pair, err := h.Svc.InstructorLogin(ctx, req)
	if err != nil {
		return fail(l, "instructor_login", err)
	}

	setTokenCookies(c, pair.AccessToken, pair.RefreshToken)
	return ok(c, http.StatusOK, "logged in", pair)
}
