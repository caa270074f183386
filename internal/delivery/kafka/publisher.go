package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	kafka "github.com/segmentio/kafka-go"

	"oms-books-sync/internal/service"
)

type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) Publish(ctx context.Context, key, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: payload,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// EventPublisher writes sync events as JSON, keyed so that events of one order share a partition.
type EventPublisher struct {
	*Publisher
}

var _ service.EventPublisher = EventPublisher{}

func NewEventPublisher(brokers []string, topic string) EventPublisher {
	return EventPublisher{Publisher: NewPublisher(brokers, topic)}
}

func (p EventPublisher) Publish(ctx context.Context, ev service.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrapf(err, "encode event %s", ev.Type)
	}
	return errors.Wrapf(p.Publisher.Publish(ctx, []byte(ev.Key()), b), "publish event %s", ev.Type)
}
