package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"
)

// OrderLogFile is the file, inside the configured directory, that receives
// one line per consumed order.
const OrderLogFile = "orders.log"

// StartOrderConsumer connects to RabbitMQ, declares the order.placed queue
// (durable) and appends every message to <logDir>/orders.log.  It
// reconnects with exponential backoff and returns only when ctx is done.
// A message that cannot be decoded or written is rejected without requeue.
func StartOrderConsumer(ctx context.Context, url, logDir string, log logrus.FieldLogger) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.WithError(err).Warnf("order-consumer: dial failed; retrying in %s", backoff)
            if !sleepCtx(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, logDir, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.WithError(err).Warn("order-consumer: consume loop ended; reconnecting")
        if !sleepCtx(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string, log logrus.FieldLogger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.WithError(err).Warn("order-consumer: set QoS failed")
    }
    if _, err := ch.QueueDeclare(OrderPlacedQueue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.ConsumeWithContext(ctx, OrderPlacedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := HandleMessage(d.Body, logDir); err != nil {
            log.WithError(err).WithField("message_id", d.MessageId).Error("order-consumer: handle message failed")
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// HandleMessage decodes one order.placed body and appends its line to the
// order log in logDir.
func HandleMessage(body []byte, logDir string) error {
    var ev OrderPlacedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", logDir, err)
    }
    f, err := os.OpenFile(filepath.Join(logDir, OrderLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatOrderLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatOrderLine renders ev as a single newline-terminated log line.
func FormatOrderLine(ev OrderPlacedEvent) string {
    items := make([]string, 0, len(ev.Items))
    for _, it := range ev.Items {
        items = append(items, fmt.Sprintf("%s x%d %s @ %s", it.Name, it.Quantity, it.Unit, it.Price.StringFixed(2)))
    }
    return fmt.Sprintf("[%s] Order placed | order_id=%d | mobile=%s | address_id=%d | total=%s | items=[%s]\n",
        ev.PlacedAt, ev.OrderID, ev.Mobile, ev.AddressID, ev.TotalAmount.StringFixed(2), strings.Join(items, ", "))
}
