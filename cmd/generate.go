package cmd

import (
	"context"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"lesson-generator/config"
	"lesson-generator/pkg/client"
	"lesson-generator/pkg/sandbox"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func generate(cfg *config.Config) *cobra.Command {
	var (
		serverURL string
		model     string
		out       string
		interval  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "generate <outline>",
		Short: "submit an outline, wait for the lesson and write its sandbox document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).With().Timestamp().Logger()
			ctx, cancel := signal.NotifyContext(logger.WithContext(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return runGenerate(ctx, cfg, generateOptions{
				serverURL: serverURL,
				outline:   strings.Join(args, " "),
				model:     model,
				out:       out,
				interval:  interval,
			})
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", defaultServerURL(cfg), "lesson API base URL")
	cmd.Flags().StringVar(&model, "model", "", "model tier: smart or fast")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default lesson-<id>.html)")
	cmd.Flags().DurationVar(&interval, "interval", client.DefaultPollInterval, "poll interval while the lesson generates")
	return cmd
}

type generateOptions struct {
	serverURL string
	outline   string
	model     string
	out       string
	interval  time.Duration
}

func runGenerate(ctx context.Context, cfg *config.Config, opts generateOptions) error {
	logger := zerolog.Ctx(ctx)
	api := client.New(opts.serverURL)

	resp, err := api.Generate(ctx, opts.outline, opts.model)
	if err != nil {
		return err
	}
	logger.Info().Str("lesson_id", resp.LessonId.String()).Str("status", resp.Status.String()).Msg(resp.Message)

	viewer := client.NewViewer(api, sandbox.Runtime{
		ReactURL:    cfg.Sandbox.ReactURL,
		ReactDOMURL: cfg.Sandbox.ReactDOMURL,
	}, opts.interval)
	viewer.OnState = func(s client.ViewState) {
		logger.Debug().Str("state", string(s)).Send()
	}

	view, err := viewer.Show(ctx, resp.LessonId)
	if err != nil {
		return err
	}
	if view.State == client.StateGenerationFailed {
		return fmt.Errorf("lesson %s failed: %s", resp.LessonId, view.Error)
	}

	out := opts.out
	if out == "" {
		out = fmt.Sprintf("lesson-%s.html", resp.LessonId)
	}
	if err := os.WriteFile(out, view.Document, 0o644); err != nil {
		return err
	}

	if view.State == client.StateTranspileFailed {
		return fmt.Errorf("lesson %s did not transpile, error page written to %s", resp.LessonId, out)
	}
	logger.Info().Str("title", view.Lesson.Title).Str("file", out).Msg("lesson written")
	return nil
}

func defaultServerURL(cfg *config.Config) string {
	if cfg.App.Host != "" {
		protocol := cfg.App.Protocol
		if protocol == "" {
			protocol = "http"
		}
		return fmt.Sprintf("%s://%s", protocol, cfg.App.Host)
	}
	return fmt.Sprintf("http://localhost:%s", cfg.Server.HttpPort)
}
