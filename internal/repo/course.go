package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/lms/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) CreateCourse(ctx context.Context, c *models.Course) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *GormRepo) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *GormRepo) ListCourses(ctx context.Context, offset, limit int) (int64, []models.Course, error) {
	return r.pageCourses(r.DB.WithContext(ctx).Model(&models.Course{}), offset, limit)
}

func (r *GormRepo) SearchCourses(ctx context.Context, query string, offset, limit int) (int64, []models.Course, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	q := r.DB.WithContext(ctx).Model(&models.Course{}).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", like, like, like)
	return r.pageCourses(q, offset, limit)
}

func (r *GormRepo) pageCourses(q *gorm.DB, offset, limit int) (int64, []models.Course, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Course
	if err := q.Session(&gorm.Session{}).Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetCoursesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Course
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) UpdateCourse(ctx context.Context, c *models.Course) error {
	res := r.DB.WithContext(ctx).Model(c).
		Omit(clause.Associations).
		Select("title", "description", "instructor", "price", "category", "image", "updated_at").
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCourse removes the course together with its module list, its
// modules and its enrollments. Progress records are left untouched.
func (r *GormRepo) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	db := r.DB.WithContext(ctx)

	if err := db.Where("course_id = ?", id).Delete(&models.CourseModule{}).Error; err != nil {
		return err
	}
	if err := db.Where("course_id = ?", id).Delete(&models.Module{}).Error; err != nil {
		return err
	}
	if err := db.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
		return err
	}

	res := db.Where("id = ?", id).Delete(&models.Course{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CourseModuleIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var raw []string
	if err := r.DB.WithContext(ctx).Model(&models.CourseModule{}).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Pluck("module_id", &raw).Error; err != nil {
		return nil, err
	}
	return parseIDs(raw)
}

func (r *GormRepo) CountCourseModules(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.CourseModule{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRepo) CourseHasModule(ctx context.Context, courseID, moduleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.CourseModule{}).
		Where("course_id = ? AND module_id = ?", courseID, moduleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) AppendCourseModule(ctx context.Context, courseID, moduleID uuid.UUID) error {
	link := models.CourseModule{CourseID: courseID, ModuleID: moduleID}
	return r.DB.WithContext(ctx).Create(&link).Error
}

// PullModuleFromCourses drops moduleID from every course list except keep.
// Pass uuid.Nil to drop it everywhere.
func (r *GormRepo) PullModuleFromCourses(ctx context.Context, moduleID uuid.UUID, keep uuid.UUID) error {
	q := r.DB.WithContext(ctx).Where("module_id = ?", moduleID)
	if keep != uuid.Nil {
		q = q.Where("course_id <> ?", keep)
	}
	return q.Delete(&models.CourseModule{}).Error
}

func (r *GormRepo) EnrolledUserIDs(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var raw []string
	if err := r.DB.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Pluck("user_id", &raw).Error; err != nil {
		return nil, err
	}
	return parseIDs(raw)
}

func (r *GormRepo) IsEnrolled(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) AddEnrollment(ctx context.Context, courseID, userID uuid.UUID) error {
	e := models.Enrollment{CourseID: courseID, UserID: userID}
	return r.DB.WithContext(ctx).Create(&e).Error
}
