package messaging

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
)

// KafkaPublisher delivers outbox entries to a Kafka topic.
// Messages are keyed by order id so all events for one order land on the
// same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaPublisher creates a publisher writing to the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})

	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
	}
}

// Publish writes one entry to Kafka. A nil return means the broker
// acknowledged the write.
func (p *KafkaPublisher) Publish(ctx context.Context, entry *contracts.OutboxEntry) error {
	msg := kafka.Message{
		Key:   []byte(entry.OrderID),
		Value: []byte(entry.Payload),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(entry.EntryID)},
			{Key: "event_type", Value: []byte("order.created")},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

// Close releases the underlying Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
