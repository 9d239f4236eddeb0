package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/lms/internal/events"
	"github.com/Skotchmaster/lms/internal/logging"
	"github.com/Skotchmaster/lms/internal/models"
	"github.com/Skotchmaster/lms/internal/repo"
	"github.com/Skotchmaster/lms/internal/transport"
	"github.com/Skotchmaster/lms/internal/upload"
)

type Video struct {
	Filename string
	Content  io.Reader
}

type ModuleService struct {
	Repo     repo.Store
	Uploader upload.Uploader
	Events   events.Publisher
}

func (s *ModuleService) upload(ctx context.Context, v *Video) (string, error) {
	if s.Uploader == nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, upload.ErrNotConfigured)
	}
	url, err := s.Uploader.Upload(ctx, v.Filename, v.Content)
	if err != nil {
		logging.FromContext(ctx).Warn("video_upload_failed", "filename", v.Filename, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return url, nil
}

// CreateModule uploads the video, then stores the module and appends it to
// the course's module list in one transaction.
func (s *ModuleService) CreateModule(ctx context.Context, courseID uuid.UUID, req transport.ModuleRequest, video *Video) (*models.Module, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.ContentText) == "" {
		return nil, validation("title, description and contentText are required")
	}
	if video == nil || video.Content == nil {
		return nil, validation("video file is required")
	}

	if _, err := s.Repo.GetCourse(ctx, courseID); err != nil {
		return nil, notFound("course", err)
	}

	url, err := s.upload(ctx, video)
	if err != nil {
		return nil, err
	}

	m := &models.Module{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		ContentText: req.ContentText,
		VideoURL:    url,
		CourseID:    courseID,
	}
	err = s.Repo.WithTransaction(ctx, func(tx repo.Store) error {
		if _, err := tx.GetCourse(ctx, courseID); err != nil {
			return notFound("course", err)
		}
		if err := tx.CreateModule(ctx, m); err != nil {
			return err
		}
		return tx.AppendCourseModule(ctx, courseID, m.ID)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCourseEvents, courseID.String(), events.ModuleEvent{
		Type: events.TypeModuleCreated, ModuleID: m.ID.String(), CourseID: courseID.String(),
	})
	return m, nil
}

// AddModuleToCourse appends moduleID to the course's list unless it is
// already there and moves the module's back-reference to that course.
func (s *ModuleService) AddModuleToCourse(ctx context.Context, courseID, moduleID uuid.UUID) (*transport.CourseView, error) {
	var view *transport.CourseView
	err := s.Repo.WithTransaction(ctx, func(tx repo.Store) error {
		course, err := tx.GetCourse(ctx, courseID)
		if err != nil {
			return notFound("course", err)
		}
		m, err := tx.GetModule(ctx, moduleID)
		if err != nil {
			return notFound("module", err)
		}

		listed, err := tx.CourseHasModule(ctx, courseID, moduleID)
		if err != nil {
			return err
		}
		if !listed {
			if err := tx.AppendCourseModule(ctx, courseID, moduleID); err != nil {
				return err
			}
		}

		if m.CourseID != courseID {
			m.CourseID = courseID
			if err := tx.UpdateModule(ctx, m); err != nil {
				return err
			}
		}
		if err := tx.PullModuleFromCourses(ctx, moduleID, courseID); err != nil {
			return err
		}

		view, err = courseView(ctx, tx, course)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCourseEvents, courseID.String(), events.ModuleEvent{
		Type: events.TypeModuleLinked, ModuleID: moduleID.String(), CourseID: courseID.String(),
	})
	return view, nil
}

func (s *ModuleService) EditModule(ctx context.Context, moduleID uuid.UUID, req transport.PatchModuleRequest, video *Video) (*models.Module, error) {
	m, err := s.Repo.GetModule(ctx, moduleID)
	if err != nil {
		return nil, notFound("module", err)
	}

	if v := strings.TrimSpace(req.Title); v != "" {
		m.Title = v
	}
	if v := strings.TrimSpace(req.Description); v != "" {
		m.Description = v
	}
	if req.ContentText != "" {
		m.ContentText = req.ContentText
	}
	if video != nil && video.Content != nil {
		url, err := s.upload(ctx, video)
		if err != nil {
			return nil, err
		}
		m.VideoURL = url
	}

	if err := s.Repo.UpdateModule(ctx, m); err != nil {
		return nil, notFound("module", err)
	}

	publish(ctx, s.Events, events.TopicCourseEvents, m.CourseID.String(), events.ModuleEvent{
		Type: events.TypeModuleUpdated, ModuleID: m.ID.String(), CourseID: m.CourseID.String(),
	})
	return m, nil
}

// DeleteModule removes the module and pulls it from every course list.
// Watch history that references it stays in place.
func (s *ModuleService) DeleteModule(ctx context.Context, moduleID uuid.UUID) error {
	var courseID uuid.UUID
	err := s.Repo.WithTransaction(ctx, func(tx repo.Store) error {
		m, err := tx.GetModule(ctx, moduleID)
		if err != nil {
			return notFound("module", err)
		}
		courseID = m.CourseID
		if err := tx.DeleteModule(ctx, moduleID); err != nil {
			return notFound("module", err)
		}
		return tx.PullModuleFromCourses(ctx, moduleID, uuid.Nil)
	})
	if err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicCourseEvents, courseID.String(), events.ModuleEvent{
		Type: events.TypeModuleDeleted, ModuleID: moduleID.String(), CourseID: courseID.String(),
	})
	return nil
}

func (s *ModuleService) ListModules(ctx context.Context, courseID uuid.UUID) ([]models.Module, error) {
	if _, err := s.Repo.GetCourse(ctx, courseID); err != nil {
		return nil, notFound("course", err)
	}
	items, err := s.Repo.ListCourseModules(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Module{}
	}
	return items, nil
}
