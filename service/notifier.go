package service

import (
	"context"
	"github.com/rs/zerolog"
	"lesson-generator/dto"
)

type fallbackNotifier struct {
	primary  Notifier
	fallback Notifier
}

// NewFallbackNotifier publishes through primary and, when that fails, hands
// the event to fallback so local subscribers still see the transition.
func NewFallbackNotifier(primary, fallback Notifier) Notifier {
	return &fallbackNotifier{
		primary:  primary,
		fallback: fallback,
	}
}

func (n *fallbackNotifier) Publish(ctx context.Context, event dto.LessonEvent) error {
	err := n.primary.Publish(ctx, event)
	if err == nil {
		return nil
	}

	zerolog.Ctx(ctx).Warn().Err(err).Str("lesson_id", event.LessonId.String()).Msg("broker publish failed, delivering lesson event locally")
	return n.fallback.Publish(ctx, event)
}
