package events

const (
	TypeUserRegistered      = "user_registered"
	TypeInstructorOnboarded = "instructor_onboarded"
	TypeCourseCreated       = "course_created"
	TypeCourseUpdated       = "course_updated"
	TypeCourseDeleted       = "course_deleted"
	TypeCourseEnrolled      = "course_enrolled"
	TypeModuleCreated       = "module_created"
	TypeModuleUpdated       = "module_updated"
	TypeModuleDeleted       = "module_deleted"
	TypeModuleLinked        = "module_linked"
	TypeModuleWatched       = "module_watched"
)

type AccountEvent struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CourseEvent struct {
	Type     string `json:"type"`
	CourseID string `json:"courseID"`
	Title    string `json:"title,omitempty"`
}

type ModuleEvent struct {
	Type     string `json:"type"`
	ModuleID string `json:"moduleID"`
	CourseID string `json:"courseID"`
}

type EnrollmentEvent struct {
	Type     string `json:"type"`
	CourseID string `json:"courseID"`
	UserID   string `json:"userID"`
}

type WatchEvent struct {
	Type     string `json:"type"`
	UserID   string `json:"userID"`
	CourseID string `json:"courseID"`
	ModuleID string `json:"moduleID"`
}
