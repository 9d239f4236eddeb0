package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

type User struct {
	ID           uuid.UUID        `gorm:"type:char(36);primaryKey"                json:"id"`
	Name         string           `gorm:"not null"                                json:"name"`
	Email        string           `gorm:"type:varchar(255);uniqueIndex;not null"  json:"email"`
	Role         string           `gorm:"type:varchar(16);not null;default:student" json:"role"`
	PasswordHash string           `gorm:"not null"                                json:"-"`
	AccessToken  string           `gorm:"type:text"                               json:"-"`
	RefreshToken string           `gorm:"type:text"                               json:"-"`
	Progress     []CourseProgress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"progress,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type Instructor struct {
	ID             uuid.UUID                   `gorm:"type:char(36);primaryKey"               json:"id"`
	Name           string                      `gorm:"not null"                               json:"name"`
	Email          string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string                      `gorm:"not null"                               json:"-"`
	Qualifications datatypes.JSONSlice[string] `json:"qualifications"`
	Experience     string                      `gorm:"not null"                               json:"experience"`
	AccessToken    string                      `gorm:"type:text"                              json:"-"`
	RefreshToken   string                      `gorm:"type:text"                              json:"-"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

type Course struct {
	ID          uuid.UUID      `gorm:"type:char(36);primaryKey"      json:"id"`
	Title       string         `gorm:"not null"                      json:"title"`
	Description string         `gorm:"type:text;not null"            json:"description"`
	Instructor  string         `gorm:"type:varchar(64);not null;index" json:"instructor"`
	Price       float64        `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Category    string         `gorm:"type:varchar(128);not null;index" json:"category"`
	Image       string         `json:"image,omitempty"`
	ModuleLinks []CourseModule `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Enrollments []Enrollment   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CourseModule is one entry of a course's ordered module list.
type CourseModule struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CourseID  uuid.UUID `gorm:"type:char(36);uniqueIndex:idx_course_module;not null"`
	ModuleID  uuid.UUID `gorm:"type:char(36);uniqueIndex:idx_course_module;index;not null"`
	CreatedAt time.Time
}

type Enrollment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CourseID  uuid.UUID `gorm:"type:char(36);uniqueIndex:idx_course_user;not null"`
	UserID    uuid.UUID `gorm:"type:char(36);uniqueIndex:idx_course_user;index;not null"`
	CreatedAt time.Time
}

type Module struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"    json:"id"`
	Title       string    `gorm:"not null"                    json:"title"`
	Description string    `gorm:"type:text;not null"          json:"description"`
	ContentText string    `gorm:"type:text;not null"          json:"contentText"`
	VideoURL    string    `gorm:"type:text"                   json:"videoUrl"`
	CourseID    uuid.UUID `gorm:"type:char(36);index;not null" json:"courseId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CourseProgress belongs to a user and points at a course id without a
// foreign key, so it outlives the course.
type CourseProgress struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID       `gorm:"type:char(36);uniqueIndex:idx_user_course;not null"`
	CourseID  uuid.UUID       `gorm:"type:char(36);uniqueIndex:idx_user_course;not null"`
	Watched   []WatchedModule `gorm:"foreignKey:ProgressID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

type WatchedModule struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	ProgressID uint      `gorm:"uniqueIndex:idx_progress_module;not null"`
	ModuleID   uuid.UUID `gorm:"type:char(36);uniqueIndex:idx_progress_module;not null"`
	CreatedAt  time.Time
}

func (CourseProgress) TableName() string { return "course_progress" }
func (CourseModule) TableName() string   { return "course_modules" }
func (WatchedModule) TableName() string  { return "watched_modules" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	return nil
}

func (i *Instructor) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// All lists every table for AutoMigrate, parents first.
func All() []any {
	return []any{
		&User{},
		&Instructor{},
		&Course{},
		&Module{},
		&CourseModule{},
		&Enrollment{},
		&CourseProgress{},
		&WatchedModule{},
	}
}
