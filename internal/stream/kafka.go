// Package stream feeds order lifecycle events to Kafka for downstream
// analytics. The feed is optional: a nil Producer drops everything.
package stream

import (
	"context"
	"encoding/json"
	"time"

	"menumate/internal/domain"

	"github.com/segmentio/kafka-go"
)

// OrderEvent is the analytics feed record for one order lifecycle change.
type OrderEvent struct {
	Kind       string             `json:"kind"` // order_placed | order_status_changed
	OrderID    string             `json:"orderId"`
	ShortID    string             `json:"shortOrderId"`
	ShopID     string             `json:"shopId"`
	CustomerID string             `json:"customerId"`
	Status     domain.OrderStatus `json:"status"`
	TotalCents int64              `json:"totalCents"`
	At         time.Time          `json:"at"`
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer wraps a kafka writer. Callers keep a nil *Producer when the
// feed is not configured.
func NewProducer(writer *kafka.Writer) *Producer {
	return &Producer{writer: writer}
}

// NewWriter builds the default writer for the order events topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
}

// Emit publishes one event keyed by shop so per-shop ordering holds.
func (p *Producer) Emit(ctx context.Context, ev OrderEvent) error {
	if p == nil || p.writer == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.ShopID),
		Value: payload,
	})
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
