package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/lms/internal/db"
	"github.com/Skotchmaster/lms/internal/events"
	"github.com/Skotchmaster/lms/internal/mail"
	"github.com/Skotchmaster/lms/internal/models"
	"github.com/Skotchmaster/lms/internal/repo"
	"github.com/Skotchmaster/lms/internal/search"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	return repo.New(gdb)
}

func newTestAuthService(t *testing.T) (*AuthService, *events.Memory, *fakeMailer) {
	t.Helper()

	ev := &events.Memory{}
	m := &fakeMailer{}
	return &AuthService{
		Repo:          newTestRepo(t),
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Mailer:        m,
		Events:        ev,
	}, ev, m
}

func seedUser(t *testing.T, r repo.Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Student", Email: email, PasswordHash: "x"}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

// seedCourse creates a course listing n fresh modules.
func seedCourse(t *testing.T, r repo.Store, title string, n int) (*models.Course, []uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	c := &models.Course{Title: title, Description: "desc", Instructor: uuid.NewString(), Category: "dev", Price: 9.99}
	require.NoError(t, r.CreateCourse(ctx, c))

	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		m := &models.Module{Title: "module", Description: "d", ContentText: "text", CourseID: c.ID}
		require.NoError(t, r.CreateModule(ctx, m))
		require.NoError(t, r.AppendCourseModule(ctx, c.ID, m.ID))
		ids = append(ids, m.ID)
	}
	return c, ids
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.ReadAll(r)
	return f.url + "/" + filename, nil
}

type fakeIndex struct {
	docs    map[string]search.CourseDoc
	hits    []string
	err     error
	deleted []string
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]search.CourseDoc{}} }

func (f *fakeIndex) IndexCourse(_ context.Context, doc search.CourseDoc) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeIndex) DeleteCourse(_ context.Context, id string) error {
	delete(f.docs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []string, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

var errBoom = errors.New("boom")
