// Package service publishes domain events to RabbitMQ.  Failures are logged
// and returned; callers on the request path ignore them.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/bookstore/internal/queue"
)

// Publisher delivers order events to the broker.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, ev queue.OrderEvent) error
}

// AMQPPublisher dials the broker for every event.
type AMQPPublisher struct {
	URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// PublishOrderEvent sends ev as a persistent JSON message to
// queue.OrderEventsQueue through the default exchange.
func (p *AMQPPublisher) PublishOrderEvent(ctx context.Context, ev queue.OrderEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.OrderEventsQueue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.OrderEventsQueue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish %s failed: %v", ev.Type, err)
		return err
	}
	return nil
}

// NopPublisher drops every event.  It stands in when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, queue.OrderEvent) error { return nil }
