// Package models defines the messages exchanged over RabbitMQ between the
// order bot, the fulfillment worker, and the receipts subscriber.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"orderbot/internal/order"
)

// OrderPlacedMessage is published when a session's payment succeeds.
type OrderPlacedMessage struct {
	SessionKey      string          `json:"session_key"`
	OrderType       string          `json:"order_type"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	Items           []order.Item    `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	PlacedAt        time.Time       `json:"placed_at"`
}

// ReceiptMessage is fanned out by the fulfillment worker once an order is
// archived.
type ReceiptMessage struct {
	OrderNumber    string          `json:"order_number"`
	SessionKey     string          `json:"session_key"`
	OrderType      string          `json:"order_type"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	EstimatedReady time.Time       `json:"estimated_ready"`
	ArchivedBy     string          `json:"archived_by"`
	Timestamp      time.Time       `json:"timestamp"`
}

// NewOrderPlacedMessage builds the wire message for a paid order.
func NewOrderPlacedMessage(sessionKey string, st order.State, receipt order.Receipt) *OrderPlacedMessage {
	return &OrderPlacedMessage{
		SessionKey:      sessionKey,
		OrderType:       string(st.OrderType),
		DeliveryAddress: st.DeliveryAddress,
		Items:           st.Items,
		Subtotal:        receipt.Subtotal,
		Tax:             receipt.Tax,
		TotalAmount:     receipt.Total,
		PaymentMethod:   receipt.Method,
		PlacedAt:        time.Now().UTC(),
	}
}

// RoutingKey returns the topic routing key for a placed order.
func (m *OrderPlacedMessage) RoutingKey() string {
	return fmt.Sprintf("order.placed.%s", m.OrderType)
}

// PrepTime returns the preparation estimate for an order type.
func PrepTime(orderType string) time.Duration {
	switch orderType {
	case string(order.TypePickup):
		return 20 * time.Minute
	case string(order.TypeDelivery):
		return 45 * time.Minute
	default:
		return 30 * time.Minute
	}
}
