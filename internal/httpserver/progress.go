package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/lms/internal/logging"
	authmw "github.com/Skotchmaster/lms/internal/middleware/auth"
	"github.com/Skotchmaster/lms/internal/service"
	"github.com/Skotchmaster/lms/internal/transport"
)

type ProgressHTTP struct {
	Svc *service.ProgressService
}

func (h *ProgressHTTP) WatchModule(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.watch_module")

	userID, _ := authmw.SubjectID(c)
	courseID, err := parseIDParam(c, "courseId")
	if err != nil {
		return badRequest(l, "watch_module", "course id is not a uuid", err)
	}

	var req transport.WatchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "watch_module", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "watch_module", err)
	}
	moduleID, err := uuid.Parse(req.ModuleID)
	if err != nil {
		return badRequest(l, "watch_module", "module id is not a uuid", err)
	}

	res, err := h.Svc.RecordWatched(ctx, userID, courseID, moduleID)
	if err != nil {
		return fail(l, "watch_module", err)
	}
	return ok(c, http.StatusOK, "module marked as watched", res)
}

func (h *ProgressHTTP) GetProgress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.progress")

	userID, _ := authmw.SubjectID(c)
	entries, err := h.Svc.GetProgress(ctx, userID)
	if err != nil {
		return fail(l, "get_progress", err)
	}
	return ok(c, http.StatusOK, "progress fetched", entries)
}
