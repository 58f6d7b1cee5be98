package service

import (
	"context"
	"slotbook/pkg/kafka"
	"slotbook/pkg/model"
	"time"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"

	eventSource        = "slotbook"
	eventSchemaVersion = "1"
)

// EventPublisher is satisfied by *kafka.Producer. A nil publisher disables
// lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingEvent is the lifecycle payload published after a successful write.
type BookingEvent struct {
	EventType  string         `json:"event_type"`
	TenantID   string         `json:"tenant_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Booking    *model.Booking `json:"booking"`
}

// publishEvent emits a lifecycle event keyed by booking id. Event delivery is
// best-effort: a publish failure is logged and never fails the operation.
func (s *bookingService) publishEvent(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithEventType(eventType).
		WithTenantID(booking.TenantID).
		WithSource(eventSource).
		WithHeader(kafka.HeaderSchemaVersion, eventSchemaVersion).
		WithValue(BookingEvent{
			EventType:  eventType,
			TenantID:   booking.TenantID,
			OccurredAt: time.Now().UTC(),
			Booking:    booking,
		}).
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
