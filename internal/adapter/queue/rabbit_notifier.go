package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhjdev/bartender-order-service-sub000/internal/usecase"
)

const publishTimeout = 5 * time.Second

// RabbitNotifier mirrors the websocket broadcasts onto a durable topic
// exchange so other processes (kitchen displays, analytics) can subscribe.
// Implements usecase.Notifier; enabled via config, off by default.
type RabbitNotifier struct {
	ch       *amqp.Channel
	exchange string
	log      *slog.Logger
}

// NewRabbitNotifier declares the exchange once at startup.
func NewRabbitNotifier(ch *amqp.Channel, exchange string, log *slog.Logger) (*RabbitNotifier, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &RabbitNotifier{ch: ch, exchange: exchange, log: log}, nil
}

type brokerEnvelope struct {
	Topic   string `json:"topic"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Publish is fire-and-forget like the websocket hub: broker trouble is logged,
// never surfaced to the order mutation that triggered the event.
func (p *RabbitNotifier) Publish(topic, event string, payload any) {
	body, err := json.Marshal(brokerEnvelope{Topic: topic, Event: event, Payload: payload})
	if err != nil {
		p.log.Error("event marshal failed", "event", event, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	// order:created -> orders.order.created
	routingKey := topic + "." + strings.ReplaceAll(event, ":", ".")
	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		p.log.Error("broker publish failed", "event", event, "err", err)
	}
}

var _ usecase.Notifier = (*RabbitNotifier)(nil)
