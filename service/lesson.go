package service

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"lesson-generator/constant"
	"lesson-generator/dto"
	"lesson-generator/entities"
	"lesson-generator/pkg/lessoncode"
	"lesson-generator/pkg/metrics"
	"lesson-generator/repository"
)

// Notifier receives an event after every lesson status transition.
type Notifier interface {
	Publish(ctx context.Context, event dto.LessonEvent) error
}

// LessonService owns the lesson lifecycle: generating -> generated | failed.
type LessonService interface {
	Create(ctx context.Context, outline string) (*entities.Lesson, error)
	CompleteSuccess(ctx context.Context, id uuid.UUID, content, title string) (*entities.Lesson, error)
	CompleteFailure(ctx context.Context, id uuid.UUID, message string) (*entities.Lesson, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Lesson, error)
	List(ctx context.Context) ([]*entities.Lesson, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type lessonService struct {
	repo     repository.LessonRepository
	notifier Notifier
}

func NewLessonService(repo repository.LessonRepository, notifier Notifier) LessonService {
	return &lessonService{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *lessonService) Create(ctx context.Context, outline string) (*entities.Lesson, error) {
	lesson := &entities.Lesson{
		Outline: outline,
		Title:   lessoncode.TitleFromOutline(outline),
		Status:  constant.LessonStatusGenerating,
	}
	if err := s.repo.CreateLesson(ctx, lesson); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to create lesson")
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("lesson_id", lesson.ID.String()).Msg("lesson created")
	s.notify(ctx, lesson)
	return lesson, nil
}

func (s *lessonService) CompleteSuccess(ctx context.Context, id uuid.UUID, content, title string) (*entities.Lesson, error) {
	return s.complete(ctx, id, map[string]interface{}{
		"status":        string(constant.LessonStatusGenerated),
		"content":       content,
		"title":         title,
		"error_message": nil,
	})
}

func (s *lessonService) CompleteFailure(ctx context.Context, id uuid.UUID, message string) (*entities.Lesson, error) {
	return s.complete(ctx, id, map[string]interface{}{
		"status":        string(constant.LessonStatusFailed),
		"content":       nil,
		"error_message": message,
	})
}

func (s *lessonService) complete(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*entities.Lesson, error) {
	changed, err := s.repo.UpdateLessonFromStatus(ctx, id, constant.LessonStatusGenerating, updates)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("lesson_id", id.String()).Msg("failed to update lesson")
		return nil, err
	}

	lesson, err := s.repo.FindLessonById(ctx, id)
	if err != nil {
		return nil, err
	}
	if !changed {
		zerolog.Ctx(ctx).Warn().Str("lesson_id", id.String()).Str("status", lesson.Status.String()).Msg("lesson already finished")
		return lesson, ErrAlreadyTerminal
	}

	zerolog.Ctx(ctx).Info().Str("lesson_id", id.String()).Str("status", lesson.Status.String()).Msg("lesson finished")
	s.notify(ctx, lesson)
	return lesson, nil
}

func (s *lessonService) Get(ctx context.Context, id uuid.UUID) (*entities.Lesson, error) {
	return s.repo.FindLessonById(ctx, id)
}

func (s *lessonService) List(ctx context.Context) ([]*entities.Lesson, error) {
	return s.repo.ListLessons(ctx)
}

func (s *lessonService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteLesson(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrLessonNotFound) {
			zerolog.Ctx(ctx).Error().Err(err).Str("lesson_id", id.String()).Msg("failed to delete lesson")
		}
		return err
	}

	zerolog.Ctx(ctx).Info().Str("lesson_id", id.String()).Msg("lesson deleted")
	return nil
}

func (s *lessonService) notify(ctx context.Context, lesson *entities.Lesson) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, EventFromLesson(lesson)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("lesson_id", lesson.ID.String()).Msg("failed to publish lesson event")
		return
	}
	metrics.NewMetrics().EventsPublished.WithLabelValues(lesson.Status.String()).Inc()
}

func EventFromLesson(lesson *entities.Lesson) dto.LessonEvent {
	event := dto.LessonEvent{
		LessonId:  lesson.ID,
		Status:    lesson.Status,
		Title:     lesson.Title,
		UpdatedAt: lesson.UpdatedAt,
	}
	if lesson.ErrorMessage != nil {
		event.ErrorMessage = *lesson.ErrorMessage
	}
	return event
}
