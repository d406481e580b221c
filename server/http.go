package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"lesson-generator/config"
	"lesson-generator/constant"
	eventHandler "lesson-generator/handler"
	"lesson-generator/pkg/archive"
	"lesson-generator/pkg/events"
	"lesson-generator/pkg/llm"
	"lesson-generator/pkg/rabbitmq"
	"lesson-generator/pkg/sandbox"
	"lesson-generator/pkg/telemetry"
	"lesson-generator/repository"
	"lesson-generator/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 30 * time.Second

func RunHttp(cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing := telemetry.Init(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		Headers:     cfg.Telemetry.Headers,
		Insecure:    cfg.Telemetry.Insecure,
		SampleRatio: cfg.Telemetry.SampleRatio,
		Environment: cfg.App.Environment,
	})

	if cfg.DB == nil {
		zerolog.Ctx(ctx).Error().Msg("postgres.dsn is not configured")
		return
	}
	repo, err := repository.NewRepo(cfg.DB)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewRepo")
		return
	}
	if err := repo.Migrate(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Migrate")
		return
	}

	var client llm.Client
	if cfg.Gemini.APIKey != "" {
		client, err = llm.NewGemini(ctx, cfg.Gemini.APIKey)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("NewGemini")
		}
	} else {
		zerolog.Ctx(ctx).Warn().Msg("GEMINI_API_KEY is not set, lesson generation is disabled")
	}

	hub := events.NewHub()
	var notifier service.Notifier = hub
	if cfg.Queue != nil {
		notifier = startEventFanout(ctx, cfg, hub)
	}

	lessonService := service.NewLessonService(repo, notifier)
	generator := service.NewGenerator(client, service.ModelConfig{
		Smart:       cfg.Gemini.SmartModel,
		Fast:        cfg.Gemini.FastModel,
		Temperature: cfg.Gemini.Temperature,
	}, archive.NewMinIO(cfg.Storage, cfg.MinIOBucket))
	orchestrator := service.NewService(lessonService, generator, service.Options{
		Timeout:  cfg.Generation.Timeout,
		Blocking: cfg.Generation.Blocking,
	})

	r := NewRouter(RouterConfig{
		Logger:         *zerolog.Ctx(ctx),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		LessonHandler: NewLessonHandler(orchestrator, lessonService, hub, sandbox.Runtime{
			ReactURL:    cfg.Sandbox.ReactURL,
			ReactDOMURL: cfg.Sandbox.ReactDOMURL,
		}),
		TranspileHandler: NewTranspileHandler(),
	})

	handler := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Str("addr", handler.Addr).Msg("start http server")
		if err := handler.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
			cancel()
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")

	// ctx is already cancelled here
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer shutdownCancel()
	if err := handler.Shutdown(shutdownCtx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	zerolog.Ctx(ctx).Info().Msg("waiting for in-flight generations")
	orchestrator.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to flush traces")
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
}

// startEventFanout routes lesson events through the broker so subscribers on
// every replica see them. It falls back to the local hub when the broker is
// unreachable or a publish fails.
func startEventFanout(ctx context.Context, cfg *config.Config, hub *events.Hub) service.Notifier {
	conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewRabbitMQConn, lesson events stay local")
		return hub
	}

	publisher, err := rabbitmq.NewPublisher(conn, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewPublisher, lesson events stay local")
		return hub
	}

	deps := eventHandler.ServiceDependencies{Hub: hub}
	consumer := rabbitmq.NewConsumer(conn, cfg.Queue, cfg.Server.Workers, eventHandler.LessonEventHandler)
	go func() {
		err := consumer.Consume(ctx, deps)
		if err != nil && !errors.Is(err, context.Canceled) {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Lesson event consumer error")
		}
	}()

	return service.NewFallbackNotifier(publisher, hub)
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
