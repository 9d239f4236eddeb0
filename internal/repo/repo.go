package repo

import (
	"context"

	"github.com/Skotchmaster/lms/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserEmailExists(ctx context.Context, email string) (bool, error)
	SetUserTokens(ctx context.Context, id uuid.UUID, access, refresh string) error
	SetUserAccessToken(ctx context.Context, id uuid.UUID, access string) error

	CreateInstructor(ctx context.Context, i *models.Instructor) error
	GetInstructorByID(ctx context.Context, id uuid.UUID) (*models.Instructor, error)
	GetInstructorByEmail(ctx context.Context, email string) (*models.Instructor, error)
	InstructorEmailExists(ctx context.Context, email string) (bool, error)
	InstructorExists(ctx context.Context, id uuid.UUID) (bool, error)
	SetInstructorTokens(ctx context.Context, id uuid.UUID, access, refresh string) error
	SetInstructorAccessToken(ctx context.Context, id uuid.UUID, access string) error
}

type CourseStore interface {
	CreateCourse(ctx context.Context, c *models.Course) error
	GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListCourses(ctx context.Context, offset, limit int) (int64, []models.Course, error)
	SearchCourses(ctx context.Context, query string, offset, limit int) (int64, []models.Course, error)
	GetCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error)
	UpdateCourse(ctx context.Context, c *models.Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error

	CourseModuleIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	CountCourseModules(ctx context.Context, courseID uuid.UUID) (int64, error)
	CourseHasModule(ctx context.Context, courseID, moduleID uuid.UUID) (bool, error)
	AppendCourseModule(ctx context.Context, courseID, moduleID uuid.UUID) error
	PullModuleFromCourses(ctx context.Context, moduleID uuid.UUID, keep uuid.UUID) error

	EnrolledUserIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error)
	AddEnrollment(ctx context.Context, courseID, userID uuid.UUID) error
}

type ModuleStore interface {
	CreateModule(ctx context.Context, m *models.Module) error
	GetModule(ctx context.Context, id uuid.UUID) (*models.Module, error)
	UpdateModule(ctx context.Context, m *models.Module) error
	DeleteModule(ctx context.Context, id uuid.UUID) error
	ListCourseModules(ctx context.Context, courseID uuid.UUID) ([]models.Module, error)
}

type ProgressStore interface {
	ListProgress(ctx context.Context, userID uuid.UUID) ([]models.CourseProgress, error)
	GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error)
	CreateProgress(ctx context.Context, p *models.CourseProgress) error
	HasWatched(ctx context.Context, progressID uint, moduleID uuid.UUID) (bool, error)
	AddWatched(ctx context.Context, progressID uint, moduleID uuid.UUID) error
	WatchedModuleIDs(ctx context.Context, progressID uint) ([]uuid.UUID, error)
}

// Store is the single persistence contract of the service. Multi-entity
// writes go through WithTransaction; inside fn only the Store handed to fn
// may be used.
type Store interface {
	UserStore
	CourseStore
	ModuleStore
	ProgressStore

	WithTransaction(ctx context.Context, fn func(tx Store) error) error
}

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func (r *GormRepo) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var _ Store = (*GormRepo)(nil)

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
