package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
)

type Publisher struct {
	conn     *amqp.Connection
	exchange string

	mu      sync.Mutex // an amqp.Channel must not publish concurrently
	channel *amqp.Channel
}

// Message is the envelope written to the exchange. Consumers route on
// Pattern, which is also used as the routing key.
type Message struct {
	Pattern string      `json:"pattern"`
	Data    interface{} `json:"data"`
	ID      string      `json:"id,omitempty"`
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

func encode(pattern string, data interface{}) ([]byte, string, error) {
	id := uuid.NewString()
	body, err := json.Marshal(Message{Pattern: pattern, Data: data, ID: id})
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal message: %w", err)
	}
	return body, id, nil
}

func (p *Publisher) Publish(ctx context.Context, pattern string, data interface{}) error {
	body, id, err := encode(pattern, data)
	if err != nil {
		return err
	}

	log.Debug().
		Str("pattern", pattern).
		Str("exchange", p.exchange).
		Str("message_id", id).
		Msg("publishing message")

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.Publish(
		p.exchange,
		pattern,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    id,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
