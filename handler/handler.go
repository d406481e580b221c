package handler

import (
	"context"
	"encoding/json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"lesson-generator/dto"
	"lesson-generator/pkg/events"
)

type ServiceDependencies struct {
	Hub *events.Hub
}

// LessonEventHandler forwards a lesson event received from the broker to the
// local subscribers of this replica.
func LessonEventHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var event dto.LessonEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal lesson event")
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("lesson_id", event.LessonId.String()).
		Str("status", event.Status.String()).
		Msg("received lesson event")

	return deps.Hub.Publish(ctx, event)
}
