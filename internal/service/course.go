package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/lms/internal/events"
	"github.com/Skotchmaster/lms/internal/logging"
	"github.com/Skotchmaster/lms/internal/models"
	"github.com/Skotchmaster/lms/internal/repo"
	"github.com/Skotchmaster/lms/internal/search"
	"github.com/Skotchmaster/lms/internal/transport"
)

type CourseService struct {
	Repo   repo.Store
	Index  search.Index
	Events events.Publisher
}

func toDoc(c *models.Course) search.CourseDoc {
	return search.CourseDoc{
		ID:          c.ID.String(),
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Instructor:  c.Instructor,
		Price:       c.Price,
	}
}

func (s *CourseService) reindex(ctx context.Context, c *models.Course) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexCourse(ctx, toDoc(c)); err != nil {
		logging.FromContext(ctx).Warn("course_index_failed", "course_id", c.ID, "error", err)
	}
}

func (s *CourseService) CreateCourse(ctx context.Context, instructorID uuid.UUID, req transport.CreateCourseRequest) (*transport.CourseView, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Category) == "" {
		return nil, validation("title, description and category are required")
	}
	if req.Price < 0 {
		return nil, validation("price must not be negative")
	}

	instructor := strings.TrimSpace(req.Instructor)
	if instructor == "" {
		instructor = instructorID.String()
	}

	c := &models.Course{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Instructor:  instructor,
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Image:       req.Image,
	}
	if err := s.Repo.CreateCourse(ctx, c); err != nil {
		return nil, err
	}

	s.reindex(ctx, c)
	publish(ctx, s.Events, events.TopicCourseEvents, c.ID.String(), events.CourseEvent{
		Type: events.TypeCourseCreated, CourseID: c.ID.String(), Title: c.Title,
	})
	return courseView(ctx, s.Repo, c)
}

func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*transport.CourseView, error) {
	c, err := s.Repo.GetCourse(ctx, id)
	if err != nil {
		return nil, notFound("course", err)
	}
	return courseView(ctx, s.Repo, c)
}

func (s *CourseService) ListCourses(ctx context.Context, offset, limit int) (int64, []transport.CourseView, error) {
	total, items, err := s.Repo.ListCourses(ctx, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	views, err := courseViews(ctx, s.Repo, items)
	return total, views, err
}

// SearchCourses asks the search index first and falls back to a plain
// database match when there is no index or it is unavailable.
func (s *CourseService) SearchCourses(ctx context.Context, query string, offset, limit int) (int64, []transport.CourseView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, validation("query is required")
	}

	if s.Index != nil {
		total, items, err := s.searchIndex(ctx, query, offset, limit)
		if err == nil {
			views, err := courseViews(ctx, s.Repo, items)
			return total, views, err
		}
		logging.FromContext(ctx).Warn("course_search_index_failed", "reason", "falling back to database", "error", err)
	}

	total, items, err := s.Repo.SearchCourses(ctx, query, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	views, err := courseViews(ctx, s.Repo, items)
	return total, views, err
}

func (s *CourseService) searchIndex(ctx context.Context, query string, offset, limit int) (int64, []models.Course, error) {
	total, rawIDs, err := s.Index.Search(ctx, query, offset, limit)
	if err != nil {
		return 0, nil, err
	}

	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}
	found, err := s.Repo.GetCoursesByIDs(ctx, ids)
	if err != nil {
		return 0, nil, err
	}

	byID := make(map[uuid.UUID]models.Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	// keep the index's score order, skip hits that are gone from the db
	items := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			items = append(items, c)
		}
	}
	return total, items, nil
}

// PatchCourse updates the scalar fields of a course. The module list and
// the enrolled set are not editable here.
func (s *CourseService) PatchCourse(ctx context.Context, id uuid.UUID, req transport.PatchCourseRequest) (*transport.CourseView, error) {
	c, err := s.Repo.GetCourse(ctx, id)
	if err != nil {
		return nil, notFound("course", err)
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, validation("title must not be empty")
		}
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, validation("description must not be empty")
		}
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		if strings.TrimSpace(*req.Category) == "" {
			return nil, validation("category must not be empty")
		}
		c.Category = strings.TrimSpace(*req.Category)
	}
	if req.Instructor != nil && strings.TrimSpace(*req.Instructor) != "" {
		c.Instructor = strings.TrimSpace(*req.Instructor)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, validation("price must not be negative")
		}
		c.Price = *req.Price
	}
	if req.Image != nil {
		c.Image = *req.Image
	}

	if err := s.Repo.UpdateCourse(ctx, c); err != nil {
		return nil, notFound("course", err)
	}

	s.reindex(ctx, c)
	publish(ctx, s.Events, events.TopicCourseEvents, c.ID.String(), events.CourseEvent{
		Type: events.TypeCourseUpdated, CourseID: c.ID.String(), Title: c.Title,
	})
	return courseView(ctx, s.Repo, c)
}

// DeleteCourse drops the course, its module list, its modules and its
// enrolled set. Students' progress records are kept and skipped on read.
func (s *CourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	err := s.Repo.WithTransaction(ctx, func(tx repo.Store) error {
		return notFound("course", tx.DeleteCourse(ctx, id))
	})
	if err != nil {
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteCourse(ctx, id.String()); err != nil {
			logging.FromContext(ctx).Warn("course_unindex_failed", "course_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicCourseEvents, id.String(), events.CourseEvent{
		Type: events.TypeCourseDeleted, CourseID: id.String(),
	})
	return nil
}
