package service

import (
	"context"

	"fieldbook/pkg/config"
	"fieldbook/pkg/kafka"
	"fieldbook/pkg/model"
)

const (
	EventReservationCommitted = "reservation.committed"
	EventReservationUpdated   = "reservation.updated"
	EventReservationCancelled = "reservation.cancelled"

	eventSource = "fieldbook.reservations"
)

// Notifier publishes reservation lifecycle events. Publication happens
// after commit and is best effort: a broker outage never rolls back a
// reservation.
type Notifier interface {
	Notify(ctx context.Context, eventType string, reservation *model.Reservation) error
	Close() error
}

type kafkaNotifier struct {
	producer *kafka.Producer
}

// NewNotifier returns a Kafka-backed notifier, or a no-op one when no
// brokers are configured.
func NewNotifier(cfg *config.Config) (Notifier, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return noopNotifier{}, nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
	if err != nil {
		return nil, err
	}
	return &kafkaNotifier{producer: producer}, nil
}

func (n *kafkaNotifier) Notify(ctx context.Context, eventType string, reservation *model.Reservation) error {
	// Keyed by resource id so all events for a resource land on one
	// partition in commit order.
	msg := kafka.NewMessage(reservation.ResourceID, eventType, eventSource, reservation)
	return n.producer.Publish(ctx, msg)
}

func (n *kafkaNotifier) Close() error {
	return n.producer.Close()
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, *model.Reservation) error { return nil }
func (noopNotifier) Close() error                                             { return nil }
