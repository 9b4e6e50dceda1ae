package kafka

import (
	"context"
	"encoding/json"

	"github.com/pelicoin/ledger-server/internal/server/events"
	"github.com/segmentio/kafka-go"
)

const defaultTopic = "audit_entries"

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = defaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, event events.AuditEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Category),
		Value: data,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ events.Publisher = (*Publisher)(nil)
