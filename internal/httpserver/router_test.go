package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/lms/internal/events"
	"github.com/Skotchmaster/lms/internal/models"
	"github.com/Skotchmaster/lms/internal/service"
	"github.com/Skotchmaster/lms/internal/tokens"
	"github.com/Skotchmaster/lms/internal/transport"
	"github.com/Skotchmaster/lms/internal/validation"
)

func onboardInstructor(t *testing.T, env *testEnv, email string) transport.InstructorResult {
	t.Helper()
	code, res := env.doJSON(t, http.MethodPost, "/api/instructor/onboard", map[string]any{
		"name": "Prof", "email": email, "password": "secret1",
		"qualifications": []string{"PhD"}, "experience": "10 years",
	}, "")
	require.Equal(t, http.StatusCreated, code, res.Message)
	return decode[transport.InstructorResult](t, res.Data)
}

func createCourse(t *testing.T, env *testEnv, token, title string) transport.CourseView {
	t.Helper()
	code, res := env.doJSON(t, http.MethodPost, "/api/course/create", map[string]any{
		"title": title, "description": "about " + title, "price": 49.9, "category": "dev",
	}, token)
	require.Equal(t, http.StatusCreated, code, res.Message)
	return decode[transport.CourseView](t, res.Data)
}

func createModule(t *testing.T, env *testEnv, token string, courseID uuid.UUID, title string) models.Module {
	t.Helper()
	code, res := env.doMultipart(t, http.MethodPost, "/api/module/create/"+courseID.String(), map[string]string{
		"title": title, "description": "about " + title, "contentText": "read me",
	}, title+".mp4", token)
	require.Equal(t, http.StatusCreated, code, res.Message)
	return decode[models.Module](t, res.Data)
}

func signup(t *testing.T, env *testEnv, email string) transport.AuthResult {
	t.Helper()
	code, res := env.doJSON(t, http.MethodPost, "/api/user/signup", map[string]any{
		"name": "Student", "email": email, "password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, code, res.Message)
	return decode[transport.AuthResult](t, res.Data)
}

func TestEndToEnd_ProgressAfterOneWatch(t *testing.T) {
	env := newTestEnv(t)

	prof := onboardInstructor(t, env, "prof@x.io")
	course := createCourse(t, env, prof.AccessToken, "Go")
	var modules []models.Module
	for i := 1; i <= 4; i++ {
		modules = append(modules, createModule(t, env, prof.AccessToken, course.ID, fmt.Sprintf("m%d", i)))
	}
	assert.Equal(t, 4, env.uploader.calls)
	assert.Equal(t, "https://videos.example.com/m1.mp4", modules[0].VideoURL)

	a := signup(t, env, "a@x.io")
	assert.Equal(t, models.RoleStudent, a.Role)

	code, res := env.doJSON(t, http.MethodPost, "/api/user/login", map[string]any{"email": "a@x.io", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, code, res.Message)
	pair := decode[tokens.Pair](t, res.Data)

	code, res = env.doJSON(t, http.MethodPost, "/api/course/enroll", map[string]any{"courseId": course.ID}, pair.AccessToken)
	require.Equal(t, http.StatusOK, code, res.Message)
	assert.True(t, res.Success)
	view := decode[transport.CourseView](t, res.Data)
	assert.Equal(t, []uuid.UUID{a.ID}, view.EnrolledStudents)
	assert.Len(t, view.Modules, 4)

	code, res = env.doJSON(t, http.MethodPost, "/api/user/watchedmodule/"+course.ID.String(), map[string]any{"moduleId": modules[0].ID}, pair.AccessToken)
	require.Equal(t, http.StatusOK, code, res.Message)
	watched := decode[transport.WatchResult](t, res.Data)
	assert.Equal(t, []uuid.UUID{modules[0].ID}, watched.WatchedModules)

	code, res = env.doJSON(t, http.MethodGet, "/api/user/progress", nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, code, res.Message)
	progress := decode[[]transport.ProgressEntry](t, res.Data)
	require.Len(t, progress, 1)
	assert.Equal(t, transport.ProgressEntry{
		CourseID:           course.ID,
		CourseTitle:        "Go",
		TotalModules:       4,
		WatchedModules:     1,
		ProgressPercentage: "25.00",
	}, progress[0])

	assert.Contains(t, env.events.Types(events.TopicCourseEvents), events.TypeCourseEnrolled)
	assert.Equal(t, []string{events.TypeModuleWatched}, env.events.Types(events.TopicProgressEvents))
}

func TestConflicts(t *testing.T) {
	env := newTestEnv(t)
	prof := onboardInstructor(t, env, "prof@x.io")
	course := createCourse(t, env, prof.AccessToken, "Go")
	m := createModule(t, env, prof.AccessToken, course.ID, "m1")
	a := signup(t, env, "a@x.io")

	enroll := map[string]any{"courseId": course.ID}
	code, _ := env.doJSON(t, http.MethodPost, "/api/course/enroll", enroll, a.AccessToken)
	require.Equal(t, http.StatusOK, code)
	code, res := env.doJSON(t, http.MethodPost, "/api/course/enroll", enroll, a.AccessToken)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "already enrolled")

	path := "/api/user/watchedmodule/" + course.ID.String()
	code, _ = env.doJSON(t, http.MethodPost, path, map[string]any{"moduleId": m.ID}, a.AccessToken)
	require.Equal(t, http.StatusOK, code)
	code, res = env.doJSON(t, http.MethodPost, path, map[string]any{"moduleId": m.ID}, a.AccessToken)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, res.Message, "already watched")

	code, _ = env.doJSON(t, http.MethodPost, "/api/user/signup", map[string]any{
		"name": "Again", "email": "a@x.io", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusConflict, code)
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	a := signup(t, env, "a@x.io")

	code, res := env.doJSON(t, http.MethodPost, "/api/user/refresh-token", map[string]any{"refreshToken": a.RefreshToken}, "")
	require.Equal(t, http.StatusOK, code, res.Message)
	access := decode[map[string]string](t, res.Data)["accessToken"]
	assert.NotEmpty(t, access)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"access token": a.AccessToken,
		"empty":        "",
	} {
		code, res := env.doJSON(t, http.MethodPost, "/api/user/refresh-token", map[string]any{"refreshToken": token}, "")
		assert.Equal(t, http.StatusUnauthorized, code, name)
		assert.False(t, res.Success, name)
		assert.Empty(t, res.Data, name)
	}
}

func TestAuthGuards(t *testing.T) {
	env := newTestEnv(t)
	student := signup(t, env, "a@x.io")
	body := map[string]any{"title": "t", "description": "d", "category": "c"}

	code, res := env.doJSON(t, http.MethodPost, "/api/course/create", body, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, res.Success)

	code, _ = env.doJSON(t, http.MethodPost, "/api/course/create", body, student.AccessToken)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = env.doJSON(t, http.MethodGet, "/api/user/progress", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	// instructors have no student record
	prof := onboardInstructor(t, env, "prof@x.io")
	code, _ = env.doJSON(t, http.MethodGet, "/api/user/progress", nil, prof.AccessToken)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestValidationAndLookups(t *testing.T) {
	env := newTestEnv(t)

	code, res := env.doJSON(t, http.MethodPost, "/api/user/signup", map[string]any{"email": "bad", "password": "1"}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Message, "name is a required field")

	code, _ = env.doJSON(t, http.MethodGet, "/api/course/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, res = env.doJSON(t, http.MethodGet, "/api/course/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found: course", res.Message)

	code, _ = env.doJSON(t, http.MethodGet, "/api/course/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = env.doJSON(t, http.MethodPost, "/api/user/login", map[string]any{"email": "ghost@x.io", "password": "secret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCourseAndModuleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	prof := onboardInstructor(t, env, "prof@x.io")
	course := createCourse(t, env, prof.AccessToken, "Go")
	assert.Equal(t, prof.ID.String(), course.Instructor)

	code, res := env.doMultipart(t, http.MethodPost, "/api/module/create/"+course.ID.String(), map[string]string{
		"title": "t", "description": "d", "contentText": "c",
	}, "", prof.AccessToken)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Message, "video")

	m1 := createModule(t, env, prof.AccessToken, course.ID, "m1")
	m2 := createModule(t, env, prof.AccessToken, course.ID, "m2")

	code, res = env.doMultipart(t, http.MethodPut, "/api/module/"+m1.ID.String(), map[string]string{"title": "renamed"}, "", prof.AccessToken)
	require.Equal(t, http.StatusOK, code, res.Message)
	edited := decode[models.Module](t, res.Data)
	assert.Equal(t, "renamed", edited.Title)
	assert.Equal(t, m1.VideoURL, edited.VideoURL)

	code, res = env.doJSON(t, http.MethodGet, "/api/module/"+course.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, code)
	listed := decode[[]models.Module](t, res.Data)
	require.Len(t, listed, 2)
	assert.Equal(t, "renamed", listed[0].Title)

	code, _ = env.doJSON(t, http.MethodDelete, "/api/module/"+m1.ID.String(), nil, prof.AccessToken)
	require.Equal(t, http.StatusOK, code)

	code, res = env.doJSON(t, http.MethodGet, "/api/course/"+course.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []uuid.UUID{m2.ID}, decode[transport.CourseView](t, res.Data).Modules)

	other := createCourse(t, env, prof.AccessToken, "Rust")
	code, res = env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/course/%s/modules/%s", other.ID, m2.ID), nil, prof.AccessToken)
	require.Equal(t, http.StatusOK, code, res.Message)
	assert.Equal(t, []uuid.UUID{m2.ID}, decode[transport.CourseView](t, res.Data).Modules)

	code, res = env.doJSON(t, http.MethodPut, "/api/course/edit/"+course.ID.String(), map[string]any{"title": "Go 2"}, prof.AccessToken)
	require.Equal(t, http.StatusOK, code, res.Message)
	assert.Equal(t, "Go 2", decode[transport.CourseView](t, res.Data).Title)

	code, res = env.doJSON(t, http.MethodGet, "/api/course?page=1&size=1", nil, "")
	require.Equal(t, http.StatusOK, code)
	page := decode[transport.Page[transport.CourseView]](t, res.Data)
	assert.Len(t, page.Items, 1)
	assert.EqualValues(t, 2, page.Meta.Total)
	assert.True(t, page.Meta.HasNext)

	code, res = env.doJSON(t, http.MethodGet, "/api/course/search?q=rust", nil, "")
	require.Equal(t, http.StatusOK, code)
	found := decode[transport.Page[transport.CourseView]](t, res.Data)
	require.Len(t, found.Items, 1)
	assert.Equal(t, other.ID, found.Items[0].ID)

	code, _ = env.doJSON(t, http.MethodDelete, "/api/course/"+course.ID.String(), nil, prof.AccessToken)
	require.Equal(t, http.StatusOK, code)
	code, _ = env.doJSON(t, http.MethodDelete, "/api/course/"+course.ID.String(), nil, prof.AccessToken)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.doJSON(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.doJSON(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: &validation.Error{Fields: map[string]string{"name": "name is a required field"}}, code: http.StatusBadRequest},
		{err: fmt.Errorf("%w: title", service.ErrValidation), code: http.StatusBadRequest},
		{err: fmt.Errorf("%w: course", service.ErrNotFound), code: http.StatusNotFound},
		{err: service.ErrAlreadyEnrolled, code: http.StatusConflict},
		{err: service.ErrForbidden, code: http.StatusForbidden},
		{err: service.ErrInvalidToken, code: http.StatusUnauthorized},
		{err: service.ErrInvalidCredentials, code: http.StatusUnauthorized},
		{err: fmt.Errorf("%w: timeout", service.ErrUpload), code: http.StatusBadGateway},
		{err: errors.New("pq: connection refused"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, msg := statusFor(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
		assert.NotContains(t, msg, "pq:")
	}
}
