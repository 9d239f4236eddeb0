package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(DefaultConfig()))
	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/x", h)
	e.POST("/x", h)
	return e
}

func TestMiddleware(t *testing.T) {
	e := newEcho()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	post := func(mutate func(r *http.Request)) int {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		mutate(req)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}
	session := &http.Cookie{Name: "accessToken", Value: "jwt"}
	csrfCookie := &http.Cookie{Name: "XSRF-TOKEN", Value: token}

	assert.Equal(t, http.StatusOK, post(func(*http.Request) {}), "no session cookie")
	assert.Equal(t, http.StatusOK, post(func(r *http.Request) {
		r.AddCookie(session)
		r.Header.Set("Authorization", "Bearer jwt")
	}), "bearer auth")
	assert.Equal(t, http.StatusForbidden, post(func(r *http.Request) {
		r.AddCookie(session)
		r.AddCookie(csrfCookie)
	}), "missing header")
	assert.Equal(t, http.StatusForbidden, post(func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "refreshToken", Value: "jwt"})
		r.AddCookie(csrfCookie)
	}), "refresh cookie without header")
	assert.Equal(t, http.StatusForbidden, post(func(r *http.Request) {
		r.AddCookie(session)
		r.AddCookie(csrfCookie)
		r.Header.Set("X-CSRF-Token", "forged")
	}), "wrong header")
	assert.Equal(t, http.StatusOK, post(func(r *http.Request) {
		r.AddCookie(session)
		r.AddCookie(csrfCookie)
		r.Header.Set("X-CSRF-Token", token)
	}), "matching header")
}
