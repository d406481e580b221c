package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
	"lesson-generator/config"
	"lesson-generator/dto"
	"sync"
	"time"
)

const routingKey = "lesson.status"

// Publisher sends lesson events to the fanout exchange every replica listens on.
type Publisher struct {
	mu  sync.Mutex
	ch  *amqp.Channel
	cfg *config.RabbitMQ
}

func NewPublisher(conn *amqp.Connection, cfg *config.RabbitMQ) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(cfg.ExchangeName, cfg.Kind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, err
	}

	return &Publisher{ch: ch, cfg: cfg}, nil
}

func (p *Publisher) Publish(ctx context.Context, event dto.LessonEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.cfg.ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   fmt.Sprintf("%s:%s", event.LessonId, event.Status),
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish lesson event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Close()
}
