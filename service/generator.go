package service

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"lesson-generator/constant"
	"lesson-generator/pkg/archive"
	"lesson-generator/pkg/lessoncode"
	"lesson-generator/pkg/llm"
	"lesson-generator/pkg/telemetry"
)

const defaultTemperature = 0.7

var tracer = telemetry.Tracer("lesson-generator/service")

type ModelConfig struct {
	Smart       string
	Fast        string
	Temperature float32
}

func (m ModelConfig) forTier(tier constant.ModelTier) string {
	if tier == constant.ModelTierFast {
		return m.Fast
	}
	return m.Smart
}

type GenerationRequest struct {
	LessonID uuid.UUID
	Outline  string
	Tier     constant.ModelTier
}

type GenerationResult struct {
	Content string
	Title   string
	Model   string
}

type Generator interface {
	// Ready reports whether a completion client is configured.
	Ready() bool
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}

type generator struct {
	client  llm.Client
	models  ModelConfig
	archive archive.Archive
}

// NewGenerator builds the generator; client may be nil, in which case every
// call fails with ErrConfiguration.
func NewGenerator(client llm.Client, models ModelConfig, responses archive.Archive) Generator {
	if models.Temperature == 0 {
		models.Temperature = defaultTemperature
	}
	if responses == nil {
		responses = archive.Noop()
	}
	return &generator{
		client:  client,
		models:  models,
		archive: responses,
	}
}

func (g *generator) Ready() bool {
	return g.client != nil
}

func (g *generator) Generate(ctx context.Context, req GenerationRequest) (result *GenerationResult, err error) {
	model := g.models.forTier(req.Tier)
	ctx, span := tracer.Start(ctx, "lesson-generation-workflow", trace.WithAttributes(
		attribute.String("lesson.id", req.LessonID.String()),
		attribute.String("lesson.model_tier", req.Tier.String()),
		attribute.String("lesson.model", model),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if g.client == nil {
		return nil, ErrConfiguration
	}

	raw, err := g.complete(ctx, model, req.Outline)
	if err != nil {
		return nil, err
	}

	if req.LessonID != uuid.Nil {
		if archiveErr := g.archive.SaveResponse(ctx, req.LessonID, raw); archiveErr != nil {
			zerolog.Ctx(ctx).Warn().Err(archiveErr).Str("lesson_id", req.LessonID.String()).Msg("failed to archive model response")
		}
	}

	_, extractSpan := tracer.Start(ctx, "extract-code-and-title")
	code := lessoncode.ExtractCode(raw)
	title := lessoncode.ExtractTitle(code)
	if title == "" {
		title = lessoncode.TitleFromOutline(req.Outline)
	}
	extractSpan.SetAttributes(attribute.Int("code.length", len(code)), attribute.String("lesson.title", title))
	extractSpan.End()

	_, validateSpan := tracer.Start(ctx, "validate-code")
	err = lessoncode.Validate(code)
	if err != nil {
		validateSpan.RecordError(err)
		validateSpan.SetStatus(codes.Error, err.Error())
	}
	validateSpan.End()
	if err != nil {
		return nil, err
	}

	return &GenerationResult{Content: code, Title: title, Model: model}, nil
}

func (g *generator) complete(ctx context.Context, model, outline string) (string, error) {
	ctx, span := tracer.Start(ctx, "llm-generation", trace.WithAttributes(
		attribute.String("llm.model", model),
		attribute.Float64("llm.temperature", float64(g.models.Temperature)),
	))
	defer span.End()

	raw, err := g.client.Complete(ctx, llm.Request{
		Model:       model,
		System:      systemPrompt,
		User:        userPrompt(outline),
		Temperature: g.models.Temperature,
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("model", model).Msg("completion call failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", newGenerationError(err)
	}
	if raw == "" {
		err = &GenerationError{Category: llm.CategoryUnknown, Message: "No content generated", Err: errors.New("empty completion")}
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("llm.response_length", len(raw)))

	return raw, nil
}
