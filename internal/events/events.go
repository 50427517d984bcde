// Package events publishes order lifecycle events to Kafka. Publishing sits
// off the fulfillment critical path: it is fire-and-forget and disabled
// entirely when no brokers are configured.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	kafka "github.com/segmentio/kafka-go"
)

// OrderCreated is the payload published for every fulfilled order.
type OrderCreated struct {
	OrderID   string    `json:"orderId"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	ShopID    string    `json:"shopId"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// Publisher emits order events.
type Publisher interface {
	OrderCreated(ctx context.Context, event OrderCreated) error
	Close() error
}

// NewPublisher creates a Kafka publisher for the given brokers, or a nop
// publisher when the broker list is empty.
func NewPublisher(brokersCSV, topic string, logger zerolog.Logger) Publisher {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &kafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

type kafkaPublisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

func (p *kafkaPublisher) OrderCreated(ctx context.Context, event OrderCreated) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ShopID),
		Value: data,
		Time:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	p.logger.Debug().Str("order_id", event.OrderID).Msg("order event published")
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

func (nopPublisher) OrderCreated(ctx context.Context, event OrderCreated) error { return nil }
func (nopPublisher) Close() error                                               { return nil }
