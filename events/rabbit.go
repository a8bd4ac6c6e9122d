package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"rail-planner/models"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher sends booking events to a durable RabbitMQ queue.
type RabbitPublisher struct {
	conn    *amqp.Connection
	channel channel
	queue   string
	logger  *zap.SugaredLogger
}

func NewRabbitPublisher(url, queue string, logger *zap.SugaredLogger) (*RabbitPublisher, error) {
	config := amqp.Config{
		Heartbeat: 60 * time.Second,
		Locale:    "en_US",
	}

	connection, err := amqp.DialConfig(url, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := connection.Channel()
	if err != nil {
		connection.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		connection.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	p := newPublisher(ch, queue, logger)
	p.conn = connection
	return p, nil
}

func newPublisher(ch channel, queue string, logger *zap.SugaredLogger) *RabbitPublisher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &RabbitPublisher{channel: ch, queue: queue, logger: logger}
}

func (p *RabbitPublisher) PublishTripBooked(ctx context.Context, trip models.Trip) error {
	body, err := json.Marshal(NewTripBookedEvent(trip))
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    trip.ID,
			Type:         TypeTripBooked,
			Timestamp:    trip.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.queue, err)
	}

	p.logger.Debugw("Published message to RabbitMQ", "queue", p.queue, "trip_id", trip.ID)
	return nil
}

func (p *RabbitPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
