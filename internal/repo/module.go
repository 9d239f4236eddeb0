package repo

import (
	"context"

	"github.com/Skotchmaster/lms/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateModule(ctx context.Context, m *models.Module) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) GetModule(ctx context.Context, id uuid.UUID) (*models.Module, error) {
	var m models.Module
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormRepo) UpdateModule(ctx context.Context, m *models.Module) error {
	res := r.DB.WithContext(ctx).Model(m).
		Select("title", "description", "content_text", "video_url", "course_id", "updated_at").
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteModule(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Module{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCourseModules returns the modules in the order of the course's list.
func (r *GormRepo) ListCourseModules(ctx context.Context, courseID uuid.UUID) ([]models.Module, error) {
	var items []models.Module
	if err := r.DB.WithContext(ctx).
		Joins("JOIN course_modules cm ON cm.module_id = modules.id").
		Where("cm.course_id = ?", courseID).
		Order("cm.id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
