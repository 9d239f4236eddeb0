package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/lms/internal/events"
	"github.com/Skotchmaster/lms/internal/logging"
	"gorm.io/gorm"
)

var (
	ErrValidation         = errors.New("validation")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrUpload             = errors.New("upload failed")

	ErrAlreadyEnrolled = fmt.Errorf("%w: user already enrolled in course", ErrConflict)
	ErrAlreadyWatched  = fmt.Errorf("%w: module already watched", ErrConflict)
	ErrEmailTaken      = fmt.Errorf("%w: email already registered", ErrConflict)
)

// notFound turns a missing row into ErrNotFound naming the entity and
// passes every other error through.
func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

func validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func publish(ctx context.Context, p events.Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "key", key, "error", err)
	}
}
