package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/lms/internal/db"
	"github.com/Skotchmaster/lms/internal/events"
	"github.com/Skotchmaster/lms/internal/logging"
	"github.com/Skotchmaster/lms/internal/mail"
	"github.com/Skotchmaster/lms/internal/repo"
	"github.com/Skotchmaster/lms/internal/service"
)

var (
	testAccessSecret  = []byte("test-access-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

type stubUploader struct{ calls int }

func (s *stubUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	s.calls++
	_, _ = io.Copy(io.Discard, r)
	return "https://videos.example.com/" + filename, nil
}

type testEnv struct {
	e        *echo.Echo
	repo     *repo.GormRepo
	events   *events.Memory
	uploader *stubUploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	ev := &events.Memory{}
	up := &stubUploader{}

	authSvc := &service.AuthService{
		Repo:          r,
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		Mailer:        mail.LogMailer{},
		Events:        ev,
	}
	progressSvc := &service.ProgressService{Repo: r, Events: ev}

	e := New(logging.Discard(), 0)
	Register(e, &Deps{
		AuthHandler:     &AuthHTTP{Svc: authSvc},
		CourseHandler:   &CourseHTTP{Svc: &service.CourseService{Repo: r, Events: ev}, Progress: progressSvc},
		ModuleHandler:   &ModuleHTTP{Svc: &service.ModuleService{Repo: r, Uploader: up, Events: ev}},
		ProgressHandler: &ProgressHTTP{Svc: progressSvc},
		AccessSecret:    testAccessSecret,
		Ready:           r.Ping,
	})

	return &testEnv{e: e, repo: r, events: ev, uploader: up}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (env *testEnv) serve(t *testing.T, req *http.Request, token string) (int, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var out envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func (env *testEnv) doJSON(t *testing.T, method, path string, body any, token string) (int, envelope) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return env.serve(t, req, token)
}

// doMultipart sends fields plus an optional "video" file.
func (env *testEnv) doMultipart(t *testing.T, method, path string, fields map[string]string, video string, token string) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if video != "" {
		fw, err := w.CreateFormFile("video", video)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake video bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return env.serve(t, req, token)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}
