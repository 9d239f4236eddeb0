package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/lms/internal/logging"
	"github.com/Skotchmaster/lms/internal/service"
	"github.com/Skotchmaster/lms/internal/transport"
)

type ModuleHTTP struct {
	Svc *service.ModuleService
}

// videoFromForm opens the multipart "video" file. A request without one
// yields a nil video and a nil close func.
func videoFromForm(c echo.Context) (*service.Video, func(), error) {
	fh, err := c.FormFile("video")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &service.Video{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}

func (h *ModuleHTTP) CreateModule(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "module.create")

	courseID, err := parseIDParam(c, "courseId")
	if err != nil {
		return badRequest(l, "create_module", "course id is not a uuid", err)
	}

	var req transport.ModuleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_module", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "create_module", err)
	}

	video, closeVideo, err := videoFromForm(c)
	if err != nil {
		return badRequest(l, "create_module", "cannot read video file", err)
	}
	defer closeVideo()

	m, err := h.Svc.CreateModule(ctx, courseID, req, video)
	if err != nil {
		return fail(l, "create_module", err)
	}

	l.Info("create_module_successful", "module_id", m.ID, "course_id", courseID)
	return ok(c, http.StatusCreated, "module created", m)
}

func (h *ModuleHTTP) EditModule(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "module.edit")

	id, err := parseIDParam(c, "moduleId")
	if err != nil {
		return badRequest(l, "edit_module", "module id is not a uuid", err)
	}

	var req transport.PatchModuleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "edit_module", "invalid body", err)
	}

	video, closeVideo, err := videoFromForm(c)
	if err != nil {
		return badRequest(l, "edit_module", "cannot read video file", err)
	}
	defer closeVideo()

	m, err := h.Svc.EditModule(ctx, id, req, video)
	if err != nil {
		return fail(l, "edit_module", err)
	}
	return ok(c, http.StatusOK, "module updated", m)
}

func (h *ModuleHTTP) DeleteModule(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "module.delete")

	id, err := parseIDParam(c, "moduleId")
	if err != nil {
		return badRequest(l, "delete_module", "module id is not a uuid", err)
	}

	if err := h.Svc.DeleteModule(ctx, id); err != nil {
		return fail(l, "delete_module", err)
	}

	l.Info("delete_module_successful", "module_id", id)
	return ok(c, http.StatusOK, "module deleted", nil)
}

func (h *ModuleHTTP) ListModules(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "module.list")

	courseID, err := parseIDParam(c, "courseId")
	if err != nil {
		return badRequest(l, "list_modules", "course id is not a uuid", err)
	}

	items, err := h.Svc.ListModules(ctx, courseID)
	if err != nil {
		return fail(l, "list_modules", err)
	}
	return ok(c, http.StatusOK, "modules fetched", items)
}

func (h *ModuleHTTP) AddModuleToCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.add_module")

	courseID, err := parseIDParam(c, "courseId")
	if err != nil {
		return badRequest(l, "add_module", "course id is not a uuid", err)
	}
	moduleID, err := parseIDParam(c, "moduleId")
	if err != nil {
		return badRequest(l, "add_module", "module id is not a uuid", err)
	}

	view, err := h.Svc.AddModuleToCourse(ctx, courseID, moduleID)
	if err != nil {
		return fail(l, "add_module", err)
	}
	return ok(c, http.StatusOK, "module added to course", view)
}
