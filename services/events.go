package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types published to the message bus.
const (
	EventOrderConfirmed     = "order.confirmed"
	EventReservationCreated = "reservation.created"
	EventReservationDeleted = "reservation.deleted"
)

type Event struct {
	Type       string      `json:"type"`
	TableNo    *int        `json:"table_no,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Broadcaster pushes live updates to connected staff screens.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(broker, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}}
}

// kafkaMessage keys events by table so one table's events stay ordered.
func kafkaMessage(event Event) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	key := event.Type
	if event.TableNo != nil {
		key = "table-" + strconv.Itoa(*event.TableNo)
	}
	return kafka.Message{Key: []byte(key), Value: payload, Time: event.OccurredAt}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	msg, err := kafkaMessage(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
