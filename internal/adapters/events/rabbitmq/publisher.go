// Package rabbitmq publica el evento record.submitted en una cola durable.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"health-records/internal/domain/records"
)

var _ records.Notifier = (*Publisher)(nil)

const (
	EventRecordSubmitted = "record.submitted"
	DefaultQueue         = "record.submitted"
)

// RecordSubmittedEvent es el payload publicado. Los consumidores no tienen
// que leer el store para procesarlo.
type RecordSubmittedEvent struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	SubmittedAt string         `json:"submitted_at"`
	Record      records.Record `json:"record"`
}

type Publisher struct {
	url   string
	queue string
	now   func() time.Time
	newID func() string
}

func NewPublisher(url, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{
		url:   url,
		queue: queue,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// RecordSubmitted abre conexión, declara la cola (idempotente) y publica un mensaje persistente.
// Una conexión por mensaje: el volumen de envíos es bajo.
func (p *Publisher) RecordSubmitted(ctx context.Context, r records.Record) error {
	msg, err := p.buildMessage(r)
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("rabbitmq: declare queue %s: %w", p.queue, err)
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

func (p *Publisher) buildMessage(r records.Record) (amqp.Publishing, error) {
	now := p.now().UTC()
	ev := RecordSubmittedEvent{
		ID:          p.newID(),
		Type:        EventRecordSubmitted,
		SubmittedAt: now.Format(time.RFC3339),
		Record:      r,
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq: encode event: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         EventRecordSubmitted,
		Timestamp:    now,
		Body:         body,
	}, nil
}
