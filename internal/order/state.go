// Package order implements the order workflow state and its mutation
// operations. Operations are pure: they take a state, return a new state
// plus a confirmation message, and never partially mutate on error.
package order

import (
	"github.com/shopspring/decimal"

	"orderbot/internal/menu"
)

// Step is the conversation step the workflow is currently in. It is the
// single source of truth for which operations are legal.
type Step string

const (
	StepGreeting        Step = "greeting"
	StepOrderCollection Step = "order_collection"
	StepOrderType       Step = "order_type"
	StepDeliveryAddress Step = "delivery_address"
	StepOrderSummary    Step = "order_summary"
	StepPayment         Step = "payment"
)

// OrderType distinguishes pickup from delivery orders.
type OrderType string

const (
	TypePickup   OrderType = "pickup"
	TypeDelivery OrderType = "delivery"
)

// Item is one line of an order. UnitPrice is fixed at add time from the
// catalog plus extras and is never recomputed when the catalog changes.
type Item struct {
	Name      string          `json:"name"`
	Size      menu.Size       `json:"size"`
	Quantity  int             `json:"quantity"`
	Extras    []string        `json:"extras,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal returns UnitPrice multiplied by Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// State is the full session record for one conversation.
type State struct {
	CurrentStep      Step            `json:"current_step"`
	Items            []Item          `json:"items,omitempty"`
	OrderType        OrderType       `json:"order_type,omitempty"`
	DeliveryAddress  string          `json:"delivery_address,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	PaymentConfirmed bool            `json:"payment_confirmed"`
}

// NewState returns the initial state of a session.
func NewState() State {
	return State{
		CurrentStep: StepGreeting,
		Subtotal:    decimal.Zero,
	}
}

// Clone returns a deep copy; mutating the copy never affects the original.
func (s State) Clone() State {
	next := s
	if s.Items != nil {
		next.Items = make([]Item, len(s.Items))
		for i, item := range s.Items {
			next.Items[i] = item
			if item.Extras != nil {
				next.Items[i].Extras = append([]string(nil), item.Extras...)
			}
		}
	}
	return next
}

// ItemsTotal recomputes the subtotal from scratch over all items.
func ItemsTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
