package activity

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	k "github.com/segmentio/kafka-go"
)

// Publisher emits activity events to Kafka for downstream consumers.
// It is optional: a nil Publisher drops events silently.
type Publisher struct {
	w *k.Writer
}

func NewPublisher(brokers, topic string) *Publisher {
	w := &k.Writer{
		Addr:         k.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &k.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: k.RequireNone,
		Async:        true,
	}
	return &Publisher{w: w}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.w.Close()
}

func (p *Publisher) Publish(ctx context.Context, a Activity) error {
	if p == nil {
		return nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, k.Message{
		Key:   []byte(string(a.Type)),
		Value: b,
		Time:  time.Now(),
	})
}
