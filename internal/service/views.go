package service

import (
	"context"

	"github.com/Skotchmaster/lms/internal/models"
	"github.com/Skotchmaster/lms/internal/repo"
	"github.com/Skotchmaster/lms/internal/transport"
	"github.com/google/uuid"
)

func courseView(ctx context.Context, s repo.CourseStore, c *models.Course) (*transport.CourseView, error) {
	moduleIDs, err := s.CourseModuleIDs(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.EnrolledUserIDs(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if moduleIDs == nil {
		moduleIDs = []uuid.UUID{}
	}
	if enrolled == nil {
		enrolled = []uuid.UUID{}
	}

	return &transport.CourseView{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		Instructor:       c.Instructor,
		Price:            c.Price,
		Modules:          moduleIDs,
		Category:         c.Category,
		Image:            c.Image,
		EnrolledStudents: enrolled,
		CreatedAt:        c.CreatedAt,
	}, nil
}

func courseViews(ctx context.Context, s repo.CourseStore, items []models.Course) ([]transport.CourseView, error) {
	out := make([]transport.CourseView, 0, len(items))
	for i := range items {
		v, err := courseView(ctx, s, &items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}
