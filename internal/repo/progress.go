package repo

import (
	"context"

	"github.com/Skotchmaster/lms/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) ListProgress(ctx context.Context, userID uuid.UUID) ([]models.CourseProgress, error) {
	var items []models.CourseProgress
	if err := r.DB.WithContext(ctx).
		Preload("Watched", func(db *gorm.DB) *gorm.DB { return db.Order("watched_modules.id ASC") }).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProgress(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseProgress, error) {
	var p models.CourseProgress
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) CreateProgress(ctx context.Context, p *models.CourseProgress) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) HasWatched(ctx context.Context, progressID uint, moduleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.WatchedModule{}).
		Where("progress_id = ? AND module_id = ?", progressID, moduleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) AddWatched(ctx context.Context, progressID uint, moduleID uuid.UUID) error {
	w := models.WatchedModule{ProgressID: progressID, ModuleID: moduleID}
	return r.DB.WithContext(ctx).Create(&w).Error
}

func (r *GormRepo) WatchedModuleIDs(ctx context.Context, progressID uint) ([]uuid.UUID, error) {
	var raw []string
	if err := r.DB.WithContext(ctx).Model(&models.WatchedModule{}).
		Where("progress_id = ?", progressID).
		Order("id ASC").
		Pluck("module_id", &raw).Error; err != nil {
		return nil, err
	}
	return parseIDs(raw)
}
