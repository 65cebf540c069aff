// Package service holds integrations that run beside the request path.
// Publishing is best effort: errors are logged and returned so callers can
// ignore them without interrupting the request.
package service

import (
    "context"
    "encoding/json"
    "time"

    "github.com/google/uuid"
    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    q "github.com/iliyamo/storefront/internal/queue"
)

// Publisher sends order events to RabbitMQ.  It dials per message; order
// volume does not justify a pooled channel.
type Publisher struct {
    URL string
    Log logrus.FieldLogger
}

func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
    return &Publisher{URL: url, Log: log}
}

// PublishOrderPlaced publishes event to the order.placed queue as a
// persistent JSON message with a fresh message id.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, event q.OrderPlacedEvent) error {
    log := p.Log.WithField("order_id", event.OrderID)

    conn, err := amqp.Dial(p.URL)
    if err != nil {
        log.WithError(err).Warn("rabbitmq: dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.WithError(err).Warn("rabbitmq: channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(q.OrderPlacedQueue, true, false, false, false, nil); err != nil {
        log.WithError(err).Warn("rabbitmq: queue declare failed")
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    uuid.NewString(),
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", q.OrderPlacedQueue, false, false, pub); err != nil {
        log.WithError(err).Warn("rabbitmq: publish failed")
        return err
    }
    return nil
}
