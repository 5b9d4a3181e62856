// Package service provides the publisher that sends plant lifecycle events
// to RabbitMQ. Errors are logged and returned so callers can ignore failures
// without interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/plant-catalog/internal/queue"
)

const dialTimeout = 3 * time.Second

// Publisher publishes PlantEvents to a durable queue. Each call opens its
// own connection, so a Publisher is safe for concurrent use and survives
// broker restarts without reconnect logic.
type Publisher struct {
	url   string
	queue string
	log   *slog.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url, queueName string, log *slog.Logger) *Publisher {
	return &Publisher{url: url, queue: queueName, log: log}
}

// Publish sends ev to the queue. Messages are marked as persistent.
func (p *Publisher) Publish(ctx context.Context, ev queue.PlantEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("rabbitmq: marshal event failed", "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.log.Warn("rabbitmq: publish failed", "error", err)
		return err
	}
	return nil
}
