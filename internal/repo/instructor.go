package repo

import (
	"context"

	"github.com/Skotchmaster/lms/internal/models"
	"github.com/google/uuid"
)

func (r *GormRepo) CreateInstructor(ctx context.Context, i *models.Instructor) error {
	return r.DB.WithContext(ctx).Create(i).Error
}

func (r *GormRepo) GetInstructorByID(ctx context.Context, id uuid.UUID) (*models.Instructor, error) {
	var ins models.Instructor
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&ins).Error; err != nil {
		return nil, err
	}
	return &ins, nil
}

func (r *GormRepo) GetInstructorByEmail(ctx context.Context, email string) (*models.Instructor, error) {
	var ins models.Instructor
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&ins).Error; err != nil {
		return nil, err
	}
	return &ins, nil
}

func (r *GormRepo) InstructorEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Instructor{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) InstructorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Instructor{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) SetInstructorTokens(ctx context.Context, id uuid.UUID, access, refresh string) error {
	return r.DB.WithContext(ctx).Model(&models.Instructor{}).
		Where("id = ?", id).
		Updates(map[string]any{"access_token": access, "refresh_token": refresh}).Error
}

func (r *GormRepo) SetInstructorAccessToken(ctx context.Context, id uuid.UUID, access string) error {
	return r.DB.WithContext(ctx).Model(&models.Instructor{}).
		Where("id = ?", id).
		Update("access_token", access).Error
}
