package config

import (
	"context"
	"github.com/cenkalti/backoff/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"time"
)

const rabbitMQMaxRetries = 5

func (r *RabbitMQ) URI() string {
	return amqp.URI{
		Scheme:   "amqp",
		Host:     r.Host,
		Port:     r.Port,
		Username: r.User,
		Password: r.Pass,
		Vhost:    "/",
	}.String()
}

// NewRabbitMQConn dials the broker with exponential backoff. The connection is
// closed when ctx is done.
func NewRabbitMQConn(ctx context.Context, cfg *RabbitMQ) (*amqp.Connection, error) {
	logger := zerolog.Ctx(ctx).With().Str("host", cfg.Host).Int("port", cfg.Port).Logger()

	operation := func() (*amqp.Connection, error) {
		conn, err := amqp.Dial(cfg.URI())
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to RabbitMQ, retrying")
			return nil, err
		}

		return conn, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 10 * time.Second
	conn, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(rabbitMQMaxRetries))
	if err != nil {
		logger.Error().Err(err).Msg("giving up on RabbitMQ")
		return nil, err
	}

	logger.Info().Msg("connected to RabbitMQ")
	go func() {
		<-ctx.Done()
		if err := conn.Close(); err != nil && !conn.IsClosed() {
			logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
			return
		}
		logger.Info().Msg("RabbitMQ connection closed")
	}()

	return conn, nil
}
