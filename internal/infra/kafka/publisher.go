package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

var ErrPublisherClosed = errors.New("kafka publisher is closed")

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
	closed atomic.Bool
}

var _ infra.EventPublisher = (*Publisher)(nil)

type envelope struct {
	Pattern string `json:"pattern"`
	Data    any    `json:"data"`
	ID      string `json:"id"`
}

func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka: topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  5,
		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network string, address string) (net.Conn, error) {
				dialer := &kafka.Dialer{
					Timeout:   10 * time.Second,
					DualStack: true,
					KeepAlive: 30 * time.Second,
				}
				return dialer.DialContext(ctx, network, address)
			},
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error().Str("component", "kafka").Msgf(msg, args...)
		}),
	}

	return newPublisher(writer), nil
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w}
}

// Publish writes one message keyed by pattern so that events of the same
// kind land on the same partition and keep their order.
func (p *Publisher) Publish(ctx context.Context, pattern string, data any) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}

	id := uuid.NewString()
	body, err := json.Marshal(envelope{Pattern: pattern, Data: data, ID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(pattern),
		Value: body,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "pattern", Value: []byte(pattern)},
			{Key: "message-id", Value: []byte(id)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Debug().Str("pattern", pattern).Str("message_id", id).Msg("published kafka message")
	return nil
}

func (p *Publisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
