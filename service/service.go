package service

import (
	"context"
	"errors"
	"github.com/rs/zerolog"
	"lesson-generator/constant"
	"lesson-generator/entities"
	"lesson-generator/pkg/metrics"
	"strings"
	"sync"
	"time"
)

const (
	defaultGenerationTimeout = 5 * time.Minute
	completionWriteTimeout   = 10 * time.Second
)

// Service drives a submitted outline through generation to a terminal lesson status.
type Service interface {
	// Submit creates the lesson and starts generating it. Unless the service
	// is blocking, it returns while the lesson is still generating.
	Submit(ctx context.Context, outline string, tier constant.ModelTier) (*entities.Lesson, error)
	// Process generates content for a lesson in the generating state and records the outcome.
	Process(ctx context.Context, lesson *entities.Lesson, tier constant.ModelTier) error
	// Wait blocks until background generations have finished.
	Wait()
}

type Options struct {
	Timeout  time.Duration
	Blocking bool
}

type service struct {
	lessons   LessonService
	generator Generator
	metrics   *metrics.Metrics
	opts      Options
	inflight  sync.WaitGroup
}

func NewService(lessons LessonService, generator Generator, opts Options) Service {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultGenerationTimeout
	}
	return &service{
		lessons:   lessons,
		generator: generator,
		metrics:   metrics.NewMetrics(),
		opts:      opts,
	}
}

func (s *service) Submit(ctx context.Context, outline string, tier constant.ModelTier) (*entities.Lesson, error) {
	if strings.TrimSpace(outline) == "" {
		return nil, ErrEmptyOutline
	}
	if !s.generator.Ready() {
		zerolog.Ctx(ctx).Error().Msg("generation requested without a completion client")
		return nil, ErrConfiguration
	}

	lesson, err := s.lessons.Create(ctx, outline)
	if err != nil {
		return nil, err
	}
	s.metrics.LessonsSubmitted.WithLabelValues(tier.String()).Inc()

	// once started, generation is not cancelled by the caller going away
	bgCtx := context.WithoutCancel(ctx)

	if s.opts.Blocking {
		genCtx, cancel := context.WithTimeout(bgCtx, s.opts.Timeout)
		defer cancel()
		if err := s.Process(genCtx, lesson, tier); err != nil {
			return nil, err
		}
		return s.lessons.Get(bgCtx, lesson.ID)
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		genCtx, cancel := context.WithTimeout(bgCtx, s.opts.Timeout)
		defer cancel()
		if err := s.Process(genCtx, lesson, tier); err != nil {
			zerolog.Ctx(genCtx).Error().Err(err).Str("lesson_id", lesson.ID.String()).Msg("lesson generation left unfinished")
		}
	}()

	return lesson, nil
}

func (s *service) Process(ctx context.Context, lesson *entities.Lesson, tier constant.ModelTier) (err error) {
	logger := zerolog.Ctx(ctx).With().Str("lesson_id", lesson.ID.String()).Str("tier", tier.String()).Logger()
	logger.Info().Msg("generating lesson")
	start := time.Now()

	defer func() {
		if err == nil || !isGenerationFailure(err) {
			return
		}
		s.observe(tier, constant.LessonStatusFailed, failureReason(err), start)
		logger.Warn().Err(err).Msg("lesson generation failed")

		// ctx may already be past its deadline when the completion call timed out
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completionWriteTimeout)
		defer cancel()
		if _, updateErr := s.lessons.CompleteFailure(writeCtx, lesson.ID, UserMessage(err)); updateErr != nil && !errors.Is(updateErr, ErrAlreadyTerminal) {
			logger.Error().Err(updateErr).Msg("failed to record lesson failure")
			err = updateErr
			return
		}
		err = nil
	}()

	result, err := s.generator.Generate(ctx, GenerationRequest{
		LessonID: lesson.ID,
		Outline:  lesson.Outline,
		Tier:     tier,
	})
	if err != nil {
		return err
	}

	if _, err = s.lessons.CompleteSuccess(ctx, lesson.ID, result.Content, result.Title); err != nil {
		if errors.Is(err, ErrAlreadyTerminal) {
			return nil
		}
		logger.Error().Err(err).Msg("failed to store generated lesson")
		return err
	}

	s.observe(tier, constant.LessonStatusGenerated, "", start)
	logger.Info().Str("model", result.Model).Dur("elapsed", time.Since(start)).Msg("lesson generated")
	return nil
}

func (s *service) Wait() {
	s.inflight.Wait()
}

func (s *service) observe(tier constant.ModelTier, status constant.LessonStatus, reason string, start time.Time) {
	s.metrics.LessonsCompleted.WithLabelValues(tier.String(), status.String(), reason).Inc()
	s.metrics.GenerationDuration.WithLabelValues(tier.String(), status.String()).Observe(time.Since(start).Seconds())
}
