package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	authmw "github.com/Skotchmaster/lms/internal/middleware/auth"
	"github.com/Skotchmaster/lms/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/lms/internal/middleware/logging"
	"github.com/Skotchmaster/lms/internal/validation"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	CourseHandler   *CourseHTTP
	ModuleHandler   *ModuleHTTP
	ProgressHandler *ProgressHTTP
	AccessSecret    []byte
	// Ready reports whether the store is reachable.
	Ready func(ctx context.Context) error
}

// New builds the echo instance with the middleware chain every route
// shares. rps <= 0 turns rate limiting off.
func New(logger *slog.Logger, rps int) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.Secure())
	e.Use(echomw.CORS())
	e.Use(csrf.Middleware(csrf.DefaultConfig()))
	if rps > 0 {
		e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStoreWithConfig(
			echomw.RateLimiterMemoryStoreConfig{Rate: rate.Limit(rps), Burst: rps * 2, ExpiresIn: 3 * time.Minute},
		)))
	}
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := authmw.New(d.AccessSecret, d.AuthHandler.Svc)

	api := e.Group("/api")

	user := api.Group("/user")
	user.POST("/signup", d.AuthHandler.Signup)
	user.POST("/login", d.AuthHandler.Login)
	user.POST("/refresh-token", d.AuthHandler.Refresh)
	user.POST("/watchedmodule/:courseId", d.ProgressHandler.WatchModule, authMW.RequireAuth)
	user.GET("/progress", d.ProgressHandler.GetProgress, authMW.RequireAuth)

	instructor := api.Group("/instructor")
	instructor.POST("/onboard", d.AuthHandler.Onboard)
	instructor.POST("/login", d.AuthHandler.InstructorLogin)

	course := api.Group("/course")
	course.GET("", d.CourseHandler.ListCourses)
	course.GET("/search", d.CourseHandler.SearchCourses)
	course.GET("/:courseId", d.CourseHandler.GetCourse)
	course.POST("/enroll", d.CourseHandler.Enroll, authMW.RequireAuth)
	course.POST("/create", d.CourseHandler.CreateCourse, authMW.RequireInstructor)
	course.PUT("/edit/:courseId", d.CourseHandler.EditCourse, authMW.RequireInstructor)
	course.DELETE("/:courseId", d.CourseHandler.DeleteCourse, authMW.RequireInstructor)
	course.POST("/:courseId/modules/:moduleId", d.ModuleHandler.AddModuleToCourse, authMW.RequireInstructor)

	module := api.Group("/module")
	module.GET("/:courseId", d.ModuleHandler.ListModules)
	module.POST("/create/:courseId", d.ModuleHandler.CreateModule, authMW.RequireInstructor)
	module.PUT("/:moduleId", d.ModuleHandler.EditModule, authMW.RequireInstructor)
	module.DELETE("/:moduleId", d.ModuleHandler.DeleteModule, authMW.RequireInstructor)
}
