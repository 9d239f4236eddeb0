package transport

import (
	"time"

	"github.com/google/uuid"
)

type SignupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=student instructor"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type OnboardRequest struct {
	Name           string   `json:"name"           validate:"required"`
	Email          string   `json:"email"          validate:"required,email"`
	Password       string   `json:"password"       validate:"required,min=6"`
	Qualifications []string `json:"qualifications" validate:"required,min=1,dive,required"`
	Experience     string   `json:"experience"     validate:"required"`
}

type CreateCourseRequest struct {
	Title       string  `json:"title"       validate:"required"`
	Description string  `json:"description" validate:"required"`
	Instructor  string  `json:"instructor"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Category    string  `json:"category"    validate:"required"`
	Image       string  `json:"image"       validate:"omitempty,url"`
}

// PatchCourseRequest leaves a field untouched when it is nil.
type PatchCourseRequest struct {
	Title       *string  `json:"title"       validate:"omitempty,min=1"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Instructor  *string  `json:"instructor"`
	Price       *float64 `json:"price"       validate:"omitempty,gte=0"`
	Category    *string  `json:"category"    validate:"omitempty,min=1"`
	Image       *string  `json:"image"       validate:"omitempty,url"`
}

type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required,uuid"`
}

type WatchRequest struct {
	ModuleID string `json:"moduleId" validate:"required,uuid"`
}

type ModuleRequest struct {
	Title       string `json:"title"       form:"title"       validate:"required"`
	Description string `json:"description" form:"description" validate:"required"`
	ContentText string `json:"contentText" form:"contentText" validate:"required"`
}

type AuthResult struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role,omitempty"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

type InstructorResult struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Qualifications []string  `json:"qualifications"`
	Experience     string    `json:"experience"`
	AccessToken    string    `json:"accessToken"`
	RefreshToken   string    `json:"refreshToken"`
}

type CourseView struct {
	ID               uuid.UUID   `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Instructor       string      `json:"instructor"`
	Price            float64     `json:"price"`
	Modules          []uuid.UUID `json:"modules"`
	Category         string      `json:"category"`
	Image            string      `json:"image,omitempty"`
	EnrolledStudents []uuid.UUID `json:"enrolledStudents"`
	CreatedAt        time.Time   `json:"createdAt"`
}

type WatchResult struct {
	CourseID       uuid.UUID   `json:"courseId"`
	WatchedModules []uuid.UUID `json:"watchedModules"`
}

type ProgressEntry struct {
	CourseID           uuid.UUID `json:"courseId"`
	CourseTitle        string    `json:"courseTitle"`
	TotalModules       int       `json:"totalModules"`
	WatchedModules     int       `json:"watchedModules"`
	ProgressPercentage string    `json:"progressPercentage"`
}

type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// PatchModuleRequest keeps the stored value for every empty field.
type PatchModuleRequest struct {
	Title       string `json:"title"       form:"title"`
	Description string `json:"description" form:"description"`
	ContentText string `json:"contentText" form:"contentText"`
}
