// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

import "github.com/shopspring/decimal"

// OrderPlacedQueue is the durable queue carrying OrderPlacedEvent messages.
const OrderPlacedQueue = "order.placed"

// OrderPlacedEvent is published after an order transaction commits.  It
// carries enough for downstream consumers to log or notify without
// querying the primary database.
type OrderPlacedEvent struct {
    OrderID     uint64           `json:"order_id"`
    UserID      uint64           `json:"user_id"`
    Mobile      string           `json:"mobile"`
    AddressID   uint64           `json:"address_id"`
    TotalAmount decimal.Decimal  `json:"total_amount"`
    Items       []OrderEventItem `json:"items"`
    PlacedAt    string           `json:"placed_at"`
}

// OrderEventItem is one cart line of an OrderPlacedEvent.
type OrderEventItem struct {
    Name     string          `json:"name"`
    Price    decimal.Decimal `json:"price"`
    Quantity int             `json:"quantity"`
    Unit     string          `json:"unit"`
}
