package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/lms/internal/logging"
	authmw "github.com/Skotchmaster/lms/internal/middleware/auth"
	"github.com/Skotchmaster/lms/internal/service"
	"github.com/Skotchmaster/lms/internal/transport"
	"github.com/Skotchmaster/lms/internal/util"
)

type CourseHTTP struct {
	Svc      *service.CourseService
	Progress *service.ProgressService
}

func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func (h *CourseHTTP) ListCourses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListCourses(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_courses", err)
	}
	return ok(c, http.StatusOK, "courses fetched", transport.Page[transport.CourseView]{
		Items: items,
		Meta:  util.Meta(page, offset, limit, total),
	})
}

func (h *CourseHTTP) SearchCourses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchCourses(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_courses", err)
	}
	return ok(c, http.StatusOK, "courses fetched", transport.Page[transport.CourseView]{
		Items: items,
		Meta:  util.Meta(page, offset, limit, total),
	})
}

func (h *CourseHTTP) GetCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.get")

	id, err := parseIDParam(c, "courseId")
	if err != nil {
		return badRequest(l, "get_course", "course id is not a uuid", err)
	}

	view, err := h.Svc.GetCourse(ctx, id)
	if err != nil {
		return fail(l, "get_course", err)
	}
	return ok(c, http.StatusOK, "course fetched", view)
}

func (h *CourseHTTP) CreateCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.create")

	instructorID, _ := authmw.SubjectID(c)

	var req transport.CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_course", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "create_course", err)
	}

	view, err := h.Svc.CreateCourse(ctx, instructorID, req)
	if err != nil {
		return fail(l, "create_course", err)
	}

	l.Info("create_course_successful", "course_id", view.ID)
	return ok(c, http.StatusCreated, "course created", view)
}

func (h *CourseHTTP) EditCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.edit")

	id, err := parseIDParam(c, "courseId")
	if err != nil {
		return badRequest(l, "edit_course", "course id is not a uuid", err)
	}

	var req transport.PatchCourseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "edit_course", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "edit_course", err)
	}

	view, err := h.Svc.PatchCourse(ctx, id, req)
	if err != nil {
		return fail(l, "edit_course", err)
	}
	return ok(c, http.StatusOK, "course updated", view)
}

func (h *CourseHTTP) DeleteCourse(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.delete")

	id, err := parseIDParam(c, "courseId")
	if err != nil {
		return badRequest(l, "delete_course", "course id is not a uuid", err)
	}

	if err := h.Svc.DeleteCourse(ctx, id); err != nil {
		return fail(l, "delete_course", err)
	}

	l.Info("delete_course_successful", "course_id", id)
	return ok(c, http.StatusOK, "course deleted", nil)
}

func (h *CourseHTTP) Enroll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "course.enroll")

	userID, _ := authmw.SubjectID(c)

	var req transport.EnrollRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "enroll", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "enroll", err)
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return badRequest(l, "enroll", "course id is not a uuid", err)
	}

	view, err := h.Progress.Enroll(ctx, userID, courseID)
	if err != nil {
		return fail(l, "enroll", err)
	}

	l.Info("enroll_successful", "user_id", userID, "course_id", courseID)
	return ok(c, http.StatusOK, "enrolled in course", view)
}
