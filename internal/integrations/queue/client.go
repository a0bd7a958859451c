// Package queue moves feedback messages through RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"budget-app-go/internal/domain/feedback"
	"budget-app-go/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	log          logger.Logger
}

func NewClient(url, exchangeName, queueName string, log logger.Logger) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		log:          log,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	if err := c.channel.ExchangeDeclare(c.exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := c.channel.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// direct exchange, routing key is the queue name
	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (c *Client) Publish(ctx context.Context, message feedback.Message) error {
	body, err := Encode(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchangeName, c.queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	c.log.Debug("queue: feedback published", "exchange", c.exchangeName, "queue", c.queueName)
	return nil
}

// Consume hands every delivery to handler until ctx is done. Malformed
// messages are dropped, handler failures are requeued.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, feedback.Message) error) error {
	deliveries, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.log.Info("queue: consuming", "queue", c.queueName)
	return consume(ctx, deliveries, handler, c.log)
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

type delivery struct {
	body []byte
	ack  acknowledger
}

func consume(ctx context.Context, deliveries <-chan amqp091.Delivery, handler func(context.Context, feedback.Message) error, log logger.Logger) error {
	wrapped := make(chan delivery)
	go func() {
		defer close(wrapped)
		for d := range deliveries {
			d := d
			select {
			case wrapped <- delivery{body: d.Body, ack: &d}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return process(ctx, wrapped, handler, log)
}

func process(ctx context.Context, deliveries <-chan delivery, handler func(context.Context, feedback.Message) error, log logger.Logger) error {
	for {
		select {
		case <-ctx.Done():
			log.Info("queue: stopping consumer", "reason", ctx.Err())
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("message channel closed")
			}

			message, err := Decode(d.body)
			if err != nil {
				log.InternalError("queue: malformed message", err)
				_ = d.ack.Nack(false, false)
				continue
			}

			if err := handler(ctx, message); err != nil {
				log.InternalError("queue: handler failed", err, "type", message.Type)
				_ = d.ack.Nack(false, true)
				continue
			}

			_ = d.ack.Ack(false)
		}
	}
}

func Encode(message feedback.Message) ([]byte, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return body, nil
}

func Decode(body []byte) (feedback.Message, error) {
	var message feedback.Message
	if err := json.Unmarshal(body, &message); err != nil {
		return feedback.Message{}, fmt.Errorf("unmarshal message: %w", err)
	}
	if message.Type == "" {
		return feedback.Message{}, errors.New("message without type")
	}
	return message, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
