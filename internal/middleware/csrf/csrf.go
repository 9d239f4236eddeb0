package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Config struct {
	CookieName  string
	HeaderName  string
	// AuthCookies carry the session. Requests with none of them, or with an
	// Authorization header, are not exposed to CSRF.
	AuthCookies []string

	CookiePath string
	Secure     bool
	SameSite   http.SameSite
	MaxAge     time.Duration
}

func DefaultConfig() Config {
	return Config{
		CookieName:  "XSRF-TOKEN",
		HeaderName:  "X-CSRF-Token",
		AuthCookies: []string{"accessToken", "refreshToken"},
		CookiePath:  "/",
		Secure:      true,
		SameSite:    http.SameSiteLaxMode,
		MaxAge:      24 * time.Hour,
	}
}

// Middleware issues a double-submit token cookie and requires the same
// value in HeaderName on unsafe requests authenticated by cookie.
func Middleware(cfg Config) echo.MiddlewareFunc {
	def := DefaultConfig()
	if cfg.CookieName == "" {
		cfg.CookieName = def.CookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = def.HeaderName
	}
	if len(cfg.AuthCookies) == 0 {
		cfg.AuthCookies = def.AuthCookies
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = def.CookiePath
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = def.SameSite
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = def.MaxAge
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token := readCookie(req, cfg.CookieName)
			if token == "" {
				var err error
				token, err = newToken(32)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "failed to create CSRF token")
				}
				setCSRFCookie(c, cfg, token)
			}

			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				c.Response().Header().Set(cfg.HeaderName, token)
				return next(c)
			}

			if req.Header.Get(echo.HeaderAuthorization) != "" || !hasAnyCookie(req, cfg.AuthCookies) {
				return next(c)
			}

			provided := req.Header.Get(cfg.HeaderName)
			if provided == "" || subtle.ConstantTimeCompare([]byte(token), []byte(provided)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "invalid CSRF token")
			}
			return next(c)
		}
	}
}

func newToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func setCSRFCookie(c echo.Context, cfg Config, token string) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     cfg.CookiePath,
		Secure:   cfg.Secure,
		HttpOnly: false,
		MaxAge:   int(cfg.MaxAge.Seconds()),
		SameSite: cfg.SameSite,
	})
}

func readCookie(req *http.Request, name string) string {
	c, err := req.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func hasAnyCookie(req *http.Request, names []string) bool {
	for _, name := range names {
		if readCookie(req, name) != "" {
			return true
		}
	}
	return false
}
