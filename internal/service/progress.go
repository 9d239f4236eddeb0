package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/lms/internal/events"
	"github.com/Skotchmaster/lms/internal/logging"
	"github.com/Skotchmaster/lms/internal/models"
	"github.com/Skotchmaster/lms/internal/repo"
	"github.com/Skotchmaster/lms/internal/transport"
)

// ProgressService keeps a course's enrolled set and its students' progress
// records in step.
type ProgressService struct {
	Repo   repo.Store
	Events events.Publisher
}

// Enroll adds userID to the course's enrolled set and gives the user a
// progress record for it, both in one transaction.
func (s *ProgressService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*transport.CourseView, error) {
	l := logging.FromContext(ctx).With("svc", "progress.enroll", "user_id", userID, "course_id", courseID)

	var view *transport.CourseView
	err := s.Repo.WithTransaction(ctx, func(tx repo.Store) error {
		course, err := tx.GetCourse(ctx, courseID)
		if err != nil {
			return notFound("course", err)
		}

		enrolled, err := tx.IsEnrolled(ctx, courseID, userID)
		if err != nil {
			return err
		}
		if enrolled {
			return ErrAlreadyEnrolled
		}

		if _, err := tx.GetUserByID(ctx, userID); err != nil {
			return notFound("user", err)
		}

		// a record may already exist from an earlier watch event
		if _, err := tx.GetProgress(ctx, userID, courseID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := tx.CreateProgress(ctx, &models.CourseProgress{UserID: userID, CourseID: courseID}); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrAlreadyEnrolled
				}
				return err
			}
		}

		if err := tx.AddEnrollment(ctx, courseID, userID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyEnrolled
			}
			return err
		}

		view, err = courseView(ctx, tx, course)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrConflict) {
			l.Error("enroll_failed", "error", err)
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCourseEvents, courseID.String(), events.EnrollmentEvent{
		Type: events.TypeCourseEnrolled, CourseID: courseID.String(), UserID: userID.String(),
	})
	return view, nil
}

// RecordWatched marks moduleID as watched in the user's record for
// courseID, creating the record when the user has none yet.
func (s *ProgressService) RecordWatched(ctx context.Context, userID, courseID, moduleID uuid.UUID) (*transport.WatchResult, error) {
	if moduleID == uuid.Nil {
		return nil, validation("module id is required")
	}

	var watched []uuid.UUID
	err := s.Repo.WithTransaction(ctx, func(tx repo.Store) error {
		if _, err := tx.GetUserByID(ctx, userID); err != nil {
			return notFound("user", err)
		}

		p, err := tx.GetProgress(ctx, userID, courseID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			p = &models.CourseProgress{UserID: userID, CourseID: courseID}
			if err := tx.CreateProgress(ctx, p); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: concurrent progress update", ErrConflict)
				}
				return err
			}
		}

		seen, err := tx.HasWatched(ctx, p.ID, moduleID)
		if err != nil {
			return err
		}
		if seen {
			return ErrAlreadyWatched
		}
		if err := tx.AddWatched(ctx, p.ID, moduleID); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyWatched
			}
			return err
		}

		watched, err = tx.WatchedModuleIDs(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicProgressEvents, userID.String(), events.WatchEvent{
		Type: events.TypeModuleWatched, UserID: userID.String(), CourseID: courseID.String(), ModuleID: moduleID.String(),
	})
	return &transport.WatchResult{CourseID: courseID, WatchedModules: watched}, nil
}

// GetProgress reports every progress record of the user whose course still
// exists, in the order the records were created.
func (s *ProgressService) GetProgress(ctx context.Context, userID uuid.UUID) ([]transport.ProgressEntry, error) {
	if _, err := s.Repo.GetUserByID(ctx, userID); err != nil {
		return nil, notFound("user", err)
	}

	records, err := s.Repo.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(records))
	for _, p := range records {
		ids = append(ids, p.CourseID)
	}
	courses, err := s.Repo.GetCoursesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	out := make([]transport.ProgressEntry, 0, len(records))
	for _, p := range records {
		course, ok := byID[p.CourseID]
		if !ok {
			continue
		}
		total, err := s.Repo.CountCourseModules(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, transport.ProgressEntry{
			CourseID:           course.ID,
			CourseTitle:        course.Title,
			TotalModules:       int(total),
			WatchedModules:     len(p.Watched),
			ProgressPercentage: Percentage(len(p.Watched), int(total)),
		})
	}
	return out, nil
}

// Percentage renders watched/total as a percentage with two decimals,
// rounding halves up.
func Percentage(watched, total int) string {
	if total == 0 {
		return "0.00"
	}
	p := float64(watched) / float64(total) * 100
	return strconv.FormatFloat(math.Round(p*100)/100, 'f', 2, 64)
}
