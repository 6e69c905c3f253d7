package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error { return nil }

func testEvent() domain.AppointmentEvent {
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	event := domain.NewAppointmentEvent(domain.EventAppointmentCancelled, &domain.Appointment{
		ID:          1,
		ClientID:    100,
		TherapistID: 7,
		StartAt:     at.Add(30 * time.Hour),
	}, 100, at)
	event.Details["refundAmount"] = "1500"
	return event
}

func TestRabbitPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &RabbitPublisher{ch: ch, exchange: "scheduling.events"}

	require.NoError(t, p.Publish(context.Background(), testEvent()))

	assert.Equal(t, "scheduling.events", ch.exchange)
	assert.Equal(t, "appointment.cancelled", ch.key)
	assert.Equal(t, contentTypeJSON, ch.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, ch.msg.DeliveryMode)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &payload))
	assert.Equal(t, float64(1), payload["appointmentId"])
	assert.Equal(t, "1500", payload["details"].(map[string]interface{})["refundAmount"])
}

func TestRabbitPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &RabbitPublisher{ch: ch, exchange: "scheduling.events"}

	err := p.Publish(context.Background(), testEvent())

	assert.ErrorContains(t, err, "appointment.cancelled")
}
