package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

const contentTypeJSON = "application/json"

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// RabbitPublisher публикует события записей в topic exchange.
// Ключ маршрутизации совпадает с типом события (appointment.created и т.д.).
type RabbitPublisher struct {
	conn     *amqp091.Connection
	ch       channel
	exchange string
}

// NewRabbitPublisher подключается к брокеру и объявляет exchange
func NewRabbitPublisher(url, exchange string) (*RabbitPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp091.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish отправляет событие
func (p *RabbitPublisher) Publish(ctx context.Context, event domain.AppointmentEvent) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	return nil
}

// Close закрывает канал и соединение
func (p *RabbitPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type eventPayload struct {
	Type          string            `json:"type"`
	AppointmentID int64             `json:"appointmentId"`
	ClientID      int64             `json:"clientId"`
	TherapistID   int64             `json:"therapistId"`
	StartAt       time.Time         `json:"startAt"`
	ActorID       int64             `json:"actorId"`
	OccurredAt    time.Time         `json:"occurredAt"`
	Details       map[string]string `json:"details,omitempty"`
}

func buildMessage(event domain.AppointmentEvent) (amqp091.Publishing, error) {
	body, err := json.Marshal(eventPayload{
		Type:          string(event.Type),
		AppointmentID: event.AppointmentID,
		ClientID:      event.ClientID,
		TherapistID:   event.TherapistID,
		StartAt:       event.StartAt.UTC(),
		ActorID:       event.ActorID,
		OccurredAt:    event.OccurredAt.UTC(),
		Details:       event.Details,
	})
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}

	return amqp091.Publishing{
		ContentType:  contentTypeJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
	}, nil
}

// NoopPublisher используется, когда RabbitMQ выключен в конфигурации
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.AppointmentEvent) error { return nil }
